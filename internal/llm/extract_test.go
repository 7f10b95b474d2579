package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderResponse(t *testing.T) {
	raw := `FINAL Вот данные заказа:
{
    "address": "ул. Мира, д. 5",
    "divan_uglovoj_milan": 2,
    "kreslo_ofisnoe_ergo": 0
}
Надеюсь, всё верно.`

	order, err := ParseOrderResponse(raw)
	require.NoError(t, err)

	assert.Equal(t, "ул. Мира, д. 5", order.Address())
	assert.Equal(t, 2, order.Quantity("divan_uglovoj_milan"))
	assert.Equal(t, 0, order.Quantity("kreslo_ofisnoe_ergo"))
}

func TestParseOrderResponseNestedBraces(t *testing.T) {
	raw := `{"address": "точка {центр}", "stol_obedennyj_olimp": 1}`

	order, err := ParseOrderResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, "точка {центр}", order.Address())
	assert.Equal(t, 1, order.Quantity("stol_obedennyj_olimp"))
}

func TestParseOrderResponseStringQuantity(t *testing.T) {
	order, err := ParseOrderResponse(`{"address": "склад", "divan_uglovoj_milan": "3"}`)
	require.NoError(t, err)
	assert.Equal(t, 3, order.Quantity("divan_uglovoj_milan"))
}

func TestParseOrderResponseRejects(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no json at all", "заказ принят, спасибо"},
		{"unbalanced braces", `{"address": "ул. Мира"`},
		{"fractional quantity", `{"address": "ул. Мира", "divan_uglovoj_milan": 2.5}`},
		{"non numeric quantity", `{"address": "ул. Мира", "divan_uglovoj_milan": "много"}`},
		{"address not a string", `{"address": 17}`},
		{"quantity is object", `{"address": "ул. Мира", "divan_uglovoj_milan": {"count": 2}}`},
		{"malformed json", `{"address": "ул. Мира",}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOrderResponse(tc.raw)
			assert.ErrorIs(t, err, ErrNoOrderData)
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	span, ok := firstJSONObject(`prefix {"a": "скобка }", "b": 1} suffix {"c": 2}`)
	require.True(t, ok)
	assert.Equal(t, `{"a": "скобка }", "b": 1}`, span)

	_, ok = firstJSONObject("no objects here")
	assert.False(t, ok)
}
