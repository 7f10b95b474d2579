package catalog

import (
	"math/rand"
	"regexp"
	"strings"
	"unicode"
)

// translit maps Cyrillic letters to their Latin spelling used in
// generated variable names.
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "j", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "c", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

var underscoreRun = regexp.MustCompile(`_+`)

const variableMaxLen = 50

// VariableName derives the normalized snake_case identifier for a product
// name. Cyrillic is transliterated, '%' becomes "percent", everything else
// outside [a-z0-9_ ] is dropped, spaces turn into underscores and runs of
// underscores collapse. The result is truncated to 50 characters; an empty
// result gets a random fallback. Applying the function to its own output
// returns the same identifier.
func VariableName(name string) string {
	if name == "" {
		return "unknown_product"
	}

	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "%", "percent")

	var b strings.Builder
	for _, r := range s {
		if lat, ok := translit[r]; ok {
			b.WriteString(lat)
			continue
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	s = strings.Join(strings.Fields(b.String()), "_")
	s = underscoreRun.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > variableMaxLen {
		s = strings.Trim(s[:variableMaxLen], "_")
	}
	if s == "" {
		return "product_" + randomSuffix(6)
	}
	return s
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}
