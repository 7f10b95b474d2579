package bot

import (
	"strings"
	"testing"

	"github.com/lastochkinroman/FurnitureOrderAI/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaryProducts() []models.Product {
	return []models.Product{
		{Name: `Диван угловой "Милан"`, Unit: "шт", Variable: "divan_uglovoj_milan"},
		{Name: `Кресло офисное "Эрго"`, Unit: "шт", Variable: "kreslo_ofisnoe_ergo"},
		{Name: `Стол обеденный "Олимп"`, Unit: "шт", Variable: "stol_obedennyj_olimp"},
	}
}

func TestFormatOrderSummary(t *testing.T) {
	order := models.OrderData{
		"address":              "ул. Мира, д. 5",
		"divan_uglovoj_milan":  2,
		"stol_obedennyj_olimp": 1,
	}

	got := formatOrderSummary(order, `Магазин "Уют"`, summaryProducts())

	assert.Contains(t, got, `Магазин "Уют"`)
	assert.Contains(t, got, "ул. Мира, д. 5")
	assert.Contains(t, got, `Диван угловой "Милан": 2 шт`)
	assert.Contains(t, got, `Стол обеденный "Олимп": 1 шт`)
	assert.NotContains(t, got, "Кресло")
	assert.Contains(t, got, "3 единиц товара")

	// line items follow the catalog order
	assert.Less(t, strings.Index(got, "Диван"), strings.Index(got, "Стол"))
}

func TestFormatOrderSummaryEmptyOrder(t *testing.T) {
	order := models.OrderData{"address": "ул. Мира, д. 5"}
	got := formatOrderSummary(order, "Точка", summaryProducts())

	assert.Contains(t, got, "(нет товаров)")
	assert.Contains(t, got, "0 единиц товара")
}

func TestValidateOrder(t *testing.T) {
	products := summaryProducts()

	err := validateOrder(models.OrderData{"divan_uglovoj_milan": 1}, products)
	assert.NoError(t, err)

	err = validateOrder(models.OrderData{"address": "адрес"}, products)
	require.Error(t, err)
	assert.ErrorIs(t, err, errEmptyOrder)

	err = validateOrder(models.OrderData{"divan_uglovoj_milan": -2}, products)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errEmptyOrder)
}
