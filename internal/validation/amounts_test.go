package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAmounts_ThousandsAndDecimals(t *testing.T) {
	text := "Costs: 1,234,567.89 PLN in total, of which 12 500 PLN for materials."
	amounts := ExtractAmounts(text)
	require.Len(t, amounts, 2)
	assert.InDelta(t, 1234567.89, amounts[0], 1e-9)
	assert.InDelta(t, 12500.0, amounts[1], 1e-9)
}

func TestExtractAmounts_PolishFormatting(t *testing.T) {
	text := "Łącznie 1 234 567,89 zł za rok podatkowy."
	amounts := ExtractAmounts(text)
	require.Len(t, amounts, 1)
	assert.InDelta(t, 1234567.89, amounts[0], 1e-9)
}

func TestExtractAmounts_PlainAmount(t *testing.T) {
	amounts := ExtractAmounts("Total qualifying costs: 300.00 PLN.")
	require.Len(t, amounts, 1)
	assert.InDelta(t, 300.0, amounts[0], 1e-9)
}

func TestExtractAmounts_NoCurrencySuffix(t *testing.T) {
	// Bare numbers are not treated as amounts.
	assert.Empty(t, ExtractAmounts("Section 300 describes the project, see item 12,500."))
}

func TestExtractAmounts_Empty(t *testing.T) {
	assert.Empty(t, ExtractAmounts(""))
}
