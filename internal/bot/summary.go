package bot

import (
	"fmt"
	"strings"

	"github.com/lastochkinroman/FurnitureOrderAI/internal/models"
)

// formatOrderSummary renders the confirmation preview for an extracted
// order: point, address, every positive line item in catalog order, and
// the total unit count.
func formatOrderSummary(order models.OrderData, pointName string, products []models.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📍 *Точка*: %s\n", pointName)
	if addr := order.Address(); addr != "" {
		fmt.Fprintf(&b, "🏢 *Адрес*: %s\n", addr)
	}

	b.WriteString("\n📦 *Состав заказа*:\n")
	hasProducts := false
	for _, p := range products {
		if q := order.Quantity(p.Variable); q > 0 {
			fmt.Fprintf(&b, "  • %s: %d %s\n", p.Name, q, p.Unit)
			hasProducts = true
		}
	}
	if !hasProducts {
		b.WriteString("  (нет товаров)\n")
	}

	fmt.Fprintf(&b, "\n📊 *Итого*: %d единиц товара\n", order.TotalUnits())
	return b.String()
}

// validateOrder rejects extracted orders with no positive-quantity line
// item or with a negative quantity.
func validateOrder(order models.OrderData, products []models.Product) error {
	hasProducts := false
	for _, p := range products {
		q := order.Quantity(p.Variable)
		if q < 0 {
			return fmt.Errorf("отрицательное количество для %s", p.Name)
		}
		if q > 0 {
			hasProducts = true
		}
	}
	if !hasProducts {
		return errEmptyOrder
	}
	return nil
}
