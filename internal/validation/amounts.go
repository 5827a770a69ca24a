package validation

import (
	"regexp"
	"strconv"
	"strings"
)

// amountPattern matches currency-formatted amounts: digit groups with
// optional thousands separators (space, comma or dot) and an optional
// two-digit decimal part, followed by a currency suffix.
var amountPattern = regexp.MustCompile(`(?i)(\d{1,3}(?:[ ,.]\d{3})*(?:[.,]\d{2})?)\s*(?:PLN|zł|zl)`)

// ExtractAmounts parses all currency-formatted amounts from document text.
// Extraction is best-effort; locale-dependent formats that cannot be parsed
// unambiguously are skipped.
func ExtractAmounts(text string) []float64 {
	matches := amountPattern.FindAllStringSubmatch(text, -1)
	amounts := make([]float64, 0, len(matches))
	for _, m := range matches {
		if value, ok := parseAmount(m[1]); ok {
			amounts = append(amounts, value)
		}
	}
	return amounts
}

// parseAmount converts a formatted amount to a float. A trailing separator
// followed by exactly two digits is the decimal mark; all other separators
// are thousands grouping.
func parseAmount(raw string) (float64, bool) {
	raw = strings.ReplaceAll(raw, " ", "")

	decimal := ""
	if len(raw) >= 3 {
		sep := raw[len(raw)-3]
		if sep == '.' || sep == ',' {
			decimal = raw[len(raw)-2:]
			raw = raw[:len(raw)-3]
		}
	}

	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.ReplaceAll(raw, ".", "")
	if decimal != "" {
		raw = raw + "." + decimal
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
