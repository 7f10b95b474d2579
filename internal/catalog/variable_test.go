package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariableName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"cyrillic with quotes", `Диван угловой "Милан"`, "divan_uglovoj_milan"},
		{"office chair", `Кресло офисное "Эрго"`, "kreslo_ofisnoe_ergo"},
		{"dining table", `Стол обеденный "Олимп"`, "stol_obedennyj_olimp"},
		{"digits kept", "Шкаф купе 3-створчатый", "shkaf_kupe_3_stvorchatyj"},
		{"double bed", `Кровать двуспальная "Атланта"`, "krovat_dvuspalnaya_atlanta"},
		{"latin passthrough", "Sofa Deluxe", "sofa_deluxe"},
		{"whitespace collapsed", "  Стол   журнальный  ", "stol_zhurnalnyj"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, VariableName(tc.in))
		})
	}
}

func TestVariableNamePercent(t *testing.T) {
	got := VariableName("Товар №1 (50%)")
	assert.Contains(t, got, "50percent")
}

func TestVariableNameIdempotent(t *testing.T) {
	inputs := []string{
		`Диван угловой "Милан"`,
		"Товар №1 (50%)",
		"Шкаф купе 3-створчатый",
		"already_normalized_name",
	}
	for _, in := range inputs {
		once := VariableName(in)
		assert.Equal(t, once, VariableName(once), "not idempotent for %q", in)
	}
}

func TestVariableNameTruncated(t *testing.T) {
	long := strings.Repeat("стол ", 30)
	got := VariableName(long)
	assert.LessOrEqual(t, len(got), 50)
	assert.False(t, strings.HasSuffix(got, "_"))
}

func TestVariableNameFallback(t *testing.T) {
	got := VariableName("!!! ???")
	assert.True(t, strings.HasPrefix(got, "product_"))
	assert.Len(t, got, len("product_")+6)

	assert.Equal(t, "unknown_product", VariableName(""))
}
