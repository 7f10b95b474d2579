package catalog

import (
	"fmt"
	"strings"

	"github.com/lastochkinroman/FurnitureOrderAI/internal/models"
)

// BuildPrompt renders the extraction instruction embedding the current
// product-to-variable mapping. It is regenerated on every catalog reload
// and otherwise immutable.
func BuildPrompt(products []models.Product) string {
	if len(products) == 0 {
		return defaultPrompt
	}

	var mapping strings.Builder
	var jsonFields strings.Builder
	for i, p := range products {
		fmt.Fprintf(&mapping, "   - %s → %s\n", p.Name, p.Variable)
		fmt.Fprintf(&jsonFields, "    %q: число", p.Variable)
		if i < len(products)-1 {
			jsonFields.WriteString(",\n")
		}
	}

	return fmt.Sprintf(`Ты помощник оператора по оформлению заказов на мебель. Твоя задача – анализировать входящие сообщения от заказчиков и сохранять информацию в переменные.

ИНСТРУКЦИЯ:
1. Найди и сохрани уникальный номер или адрес торговой точки в переменную "address"
2. Найди товары и сохрани количества. Используй только целые числа.
3. Сопоставь товары со следующими переменными:
%s
ФОРМАТ ОТВЕТА - строго JSON:
{
    "address": "текст",
%s
}

Начинай ответ со слова FINAL.
Текст заказа:`, mapping.String(), jsonFields.String())
}

const defaultPrompt = `Ты помощник оператора по оформлению заказов на мебель. Твоя задача – анализировать входящие сообщения от заказчиков и сохранять информацию в переменные.

ИНСТРУКЦИЯ:
1. Найди и сохрани уникальный номер или адрес торговой точки в переменную address
2. Найди товары и сохрани количества. Обрабатывай только целые числа.

ФОРМАТ ОТВЕТА - строго JSON:
{"address": "текст"}

Текст заказа:`
