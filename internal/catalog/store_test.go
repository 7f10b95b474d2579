package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreFallsBackToDefaults(t *testing.T) {
	store := NewStore(t.TempDir())

	snap := store.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, DefaultPartnerPoints(), snap.Points)
	assert.Equal(t, DefaultNomenclature(), snap.Products)
	assert.NotEmpty(t, snap.Prompt)
}

func TestStoreReloadSwapsSnapshot(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	first := store.Snapshot()
	assert.Len(t, first.Products, 5)

	writeWorkbook(t, filepath.Join(dir, NomenclatureFileName), [][]interface{}{
		{"Наименование", "Ед."},
		{"Тумба прикроватная", ""},
	})
	second := store.Reload()

	require.Len(t, second.Products, 1)
	assert.Equal(t, "tumba_prikrovatnaya", second.Products[0].Variable)
	assert.Contains(t, second.Prompt, "tumba_prikrovatnaya")

	// the previously published snapshot is untouched
	assert.Len(t, first.Products, 5)
	assert.Same(t, second, store.Snapshot())
}

func TestFindPointByPIN(t *testing.T) {
	store := NewStore(t.TempDir())

	point := store.FindPointByPIN("5678")
	require.NotNil(t, point)
	assert.Equal(t, `ТЦ "Домовой"`, point.Name)

	assert.Nil(t, store.FindPointByPIN("0000"))
}

func TestBuildPrompt(t *testing.T) {
	products := DefaultNomenclature()
	prompt := BuildPrompt(products)

	for _, p := range products {
		assert.Contains(t, prompt, p.Name)
		assert.Contains(t, prompt, p.Variable)
	}
	assert.Contains(t, prompt, `"address"`)
	assert.Contains(t, prompt, "FINAL")

	assert.Equal(t, defaultPrompt, BuildPrompt(nil))
}
