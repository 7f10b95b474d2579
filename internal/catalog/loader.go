package catalog

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"unicode"

	"github.com/lastochkinroman/FurnitureOrderAI/internal/logging"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/models"
	"github.com/xuri/excelize/v2"
)

// Default file names inside the data directory
const (
	PartnersFileName     = "КонтрагентыБотБот.xlsx"
	NomenclatureFileName = "НоменклатураБот.xlsx"
)

// Header placeholders that appear as data rows in the source files
const (
	partnersPlaceholderA    = "Покупатели"
	partnersPlaceholderB    = "Наименование в программе"
	nomenclaturePlaceholder = "Номенклатура"
)

const defaultUnit = "шт"

// LoadPartnerPoints reads the partner points workbook. A missing or
// unreadable file falls back to the built-in defaults so the bot stays
// operable.
func LoadPartnerPoints(path string) []models.PartnerPoint {
	rows, err := readFirstSheet(path)
	if err != nil {
		logging.Warn("partner points file unavailable, using defaults", map[string]interface{}{
			"path": path, "error": err.Error(),
		})
		return DefaultPartnerPoints()
	}

	points := make([]models.PartnerPoint, 0, len(rows))
	rowNumber := 1
	for i, row := range rows {
		if i == 0 || len(row) < 5 {
			continue
		}
		code := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		address := strings.TrimSpace(row[4])

		if name == "" || name == partnersPlaceholderA || name == partnersPlaceholderB {
			continue
		}
		if address == "" {
			continue
		}

		points = append(points, models.PartnerPoint{
			ID:      fmt.Sprintf("%d", rowNumber),
			Name:    name,
			Address: address,
			PIN:     derivePIN(code),
		})
		rowNumber++
	}

	warnDuplicatePINs(points)
	return points
}

// LoadNomenclature reads the product nomenclature workbook, assigning
// positional keys in source-row order. Falls back to the built-in default
// catalog when the file is missing or unreadable.
func LoadNomenclature(path string) []models.Product {
	rows, err := readFirstSheet(path)
	if err != nil {
		logging.Warn("nomenclature file unavailable, using defaults", map[string]interface{}{
			"path": path, "error": err.Error(),
		})
		return DefaultNomenclature()
	}

	products := make([]models.Product, 0, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) < 1 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || name == nomenclaturePlaceholder {
			continue
		}
		unit := defaultUnit
		if len(row) > 1 && strings.TrimSpace(row[1]) != "" {
			unit = strings.TrimSpace(row[1])
		}
		products = append(products, models.Product{
			Name:     name,
			Unit:     unit,
			Variable: VariableName(name),
		})
	}
	return products
}

func readFirstSheet(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// derivePIN produces the 4-digit PIN from a partner's source code: the
// last four digits when the code contains at least four, otherwise the
// last four characters, otherwise a random code.
func derivePIN(code string) string {
	runes := []rune(code)
	if len(runes) >= 4 {
		var digits []rune
		for _, r := range runes {
			if unicode.IsDigit(r) {
				digits = append(digits, r)
			}
		}
		if len(digits) >= 4 {
			return string(digits[len(digits)-4:])
		}
		return string(runes[len(runes)-4:])
	}
	return fmt.Sprintf("%04d", 1000+rand.Intn(9000))
}

// Duplicate PINs across points are possible because of the last-4-digits
// truncation; auth picks the first match, so collisions silently shadow
// points. Surface them at load time.
func warnDuplicatePINs(points []models.PartnerPoint) {
	seen := make(map[string]string, len(points))
	for _, p := range points {
		if first, ok := seen[p.PIN]; ok {
			logging.Warn("duplicate partner PIN", map[string]interface{}{
				"pin": p.PIN, "point": p.Name, "shadowed_by": first,
			})
			continue
		}
		seen[p.PIN] = p.Name
	}
}

// DefaultPartnerPoints returns the built-in fallback points
func DefaultPartnerPoints() []models.PartnerPoint {
	return []models.PartnerPoint{
		{ID: "1", Name: `Магазин "Мебель Сити"`, Address: "ул. Центральная, д. 1", PIN: "1234"},
		{ID: "2", Name: `ТЦ "Домовой"`, Address: "пр. Победы, д. 45", PIN: "5678"},
		{ID: "3", Name: `Салон "Интерьер Люкс"`, Address: "ул. Ленина, д. 89", PIN: "9012"},
	}
}

// DefaultNomenclature returns the built-in fallback catalog
func DefaultNomenclature() []models.Product {
	return []models.Product{
		{Name: `Диван угловой "Милан"`, Unit: defaultUnit, Variable: "divan_uglovoj_milan"},
		{Name: `Кресло офисное "Эрго"`, Unit: defaultUnit, Variable: "kreslo_ofisnoe_ergo"},
		{Name: `Стол обеденный "Олимп"`, Unit: defaultUnit, Variable: "stol_obedennyj_olimp"},
		{Name: "Шкаф купе 3-створчатый", Unit: defaultUnit, Variable: "shkaf_kupe_3_stvorchatyj"},
		{Name: `Кровать двуспальная "Атланта"`, Unit: defaultUnit, Variable: "krovat_dvuspalnaya_atlanta"},
	}
}
