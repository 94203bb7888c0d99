package pricing

import (
	"strings"
	"unicode"
)

// NormalizeSize turns a free-form size such as "8 x 12" or "8×12" into the
// table key "8X12". Input that does not split into exactly two dimensions is
// returned cleaned but otherwise untouched, so it simply never matches a row.
func NormalizeSize(raw string) string {
	if raw == "" {
		return ""
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	cleaned = strings.ToUpper(cleaned)
	cleaned = strings.ReplaceAll(cleaned, "×", "X")

	parts := strings.Split(cleaned, "X")
	if len(parts) != 2 {
		return cleaned
	}
	return parts[0] + "X" + parts[1]
}
