package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefresherLoadsImmediately(t *testing.T) {
	store := NewStore(t.TempDir())
	refresher := NewRefresher(store, time.Hour)

	refresher.Start()
	defer refresher.Stop()

	snap := store.Snapshot()
	assert.NotNil(t, snap)
	assert.False(t, snap.LoadedAt.IsZero())
}
