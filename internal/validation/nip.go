package validation

import (
	"regexp"
	"strings"
)

// nipWeights is the weighted digit-sum table mandated for the 10-digit
// business registration number. The weighted sum of digits 0-8 reduced
// modulo 11 must equal digit 9; a remainder of 10 is never a valid check
// digit.
var nipWeights = [9]int{6, 5, 7, 2, 3, 4, 5, 6, 7}

// taxIDPattern matches identifier-shaped substrings: 10 contiguous digits,
// optionally grouped 3-3-2-2 by hyphens or spaces. RE2 has no lookarounds,
// so matches are anchored on surrounding non-digits via a capture group.
var taxIDPattern = regexp.MustCompile(`(?:^|[^0-9-])(\d{3}[- ]?\d{3}[- ]?\d{2}[- ]?\d{2})(?:[^0-9-]|$)`)

// NormalizeTaxID strips grouping separators from an identifier candidate.
func NormalizeTaxID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	id = strings.ReplaceAll(id, " ", "")
	return id
}

// ValidateTaxIDChecksum reports whether the identifier passes the weighted
// digit-sum check. Anything other than exactly 10 digits fails.
func ValidateTaxIDChecksum(id string) bool {
	digits := NormalizeTaxID(id)
	if len(digits) != 10 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}

	sum := 0
	for i, w := range nipWeights {
		sum += w * int(digits[i]-'0')
	}
	remainder := sum % 11
	if remainder == 10 {
		return false
	}
	return remainder == int(digits[9]-'0')
}

// FindTaxIdentifiers extracts identifier-shaped substrings from document
// text, preserving their original formatting and order of appearance.
func FindTaxIdentifiers(text string) []string {
	matches := taxIDPattern.FindAllStringSubmatch(text, -1)
	ids := make([]string, 0, len(matches))
	seen := make(map[string]bool)
	for _, m := range matches {
		candidate := m[1]
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		ids = append(ids, candidate)
	}
	return ids
}
