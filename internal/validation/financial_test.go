package validation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcin/taxdoc-validator/internal/types"
)

func newFinancialContext(fin types.FinancialBreakdown, doc string) *Context {
	return &Context{
		Document:     doc,
		DocumentType: types.DocTypeProjectCard,
		Financials:   fin,
	}
}

func consistentBreakdown() types.FinancialBreakdown {
	return types.FinancialBreakdown{
		CategoryTotals: map[string]float64{"salaries": 200.0, "materials": 100.0},
		GrandTotal:     300.0,
		Nexus:          types.NexusComponents{A: 300.0},
		NexusStated:    1.0,
	}
}

func TestFinancialValidator_AllChecksPass(t *testing.T) {
	v := NewFinancialValidator()
	result := v.Validate(context.Background(), newFinancialContext(consistentBreakdown(), "Total qualifying costs: 300.00 PLN."))

	assert.True(t, result.Valid)
	assert.Empty(t, result.Issues)
	assert.Equal(t, 1.0, result.Score)
}

func TestFinancialValidator_SumWithinTolerance(t *testing.T) {
	fin := types.FinancialBreakdown{
		CategoryTotals: map[string]float64{"salaries": 100.00, "materials": 200.005},
		GrandTotal:     300.00,
		Nexus:          types.NexusComponents{A: 300.0},
		NexusStated:    1.0,
	}
	v := NewFinancialValidator()
	result := v.Validate(context.Background(), newFinancialContext(fin, "Total: 300.00 PLN"))

	assert.Empty(t, issuesOfType(result.Issues, IssueSumMismatch))
}

func TestFinancialValidator_SumMismatch(t *testing.T) {
	fin := types.FinancialBreakdown{
		CategoryTotals: map[string]float64{"salaries": 100.00, "materials": 200.005},
		GrandTotal:     305.00,
		Nexus:          types.NexusComponents{A: 300.0},
		NexusStated:    1.0,
	}
	v := NewFinancialValidator()
	result := v.Validate(context.Background(), newFinancialContext(fin, "Total: 305.00 PLN"))

	errs := issuesOfType(result.Issues, IssueSumMismatch)
	require.Len(t, errs, 1)
	assert.Equal(t, types.SeverityError, errs[0].Severity)
	assert.False(t, result.Valid)
	assert.InDelta(t, 0.8, result.Score, 1e-9)
}

func TestComputeNexusRatio_ZeroBase(t *testing.T) {
	assert.Equal(t, 1.0, ComputeNexusRatio(types.NexusComponents{}))
}

func TestComputeNexusRatio_Cap(t *testing.T) {
	// Uplift would exceed 1 without the cap.
	ratio := ComputeNexusRatio(types.NexusComponents{A: 90, C: 10})
	assert.Equal(t, 1.0, ratio)
}

func TestComputeNexusRatio_Uplift(t *testing.T) {
	// 1.3 * (50+10) / 100 = 0.78
	ratio := ComputeNexusRatio(types.NexusComponents{A: 50, B: 10, C: 30, D: 10})
	assert.InDelta(t, 0.78, ratio, 1e-9)
}

func TestComputeNexusRatio_AlwaysInUnitInterval(t *testing.T) {
	samples := []types.NexusComponents{
		{},
		{A: 1},
		{D: 1},
		{A: 0.001, D: 1e9},
		{A: 1e9, B: 1e9, C: 0, D: 0},
		{A: 3, B: 4, C: 5, D: 6},
		{B: 7.25, C: 0.5},
	}
	for _, n := range samples {
		ratio := ComputeNexusRatio(n)
		assert.GreaterOrEqual(t, ratio, 0.0)
		assert.LessOrEqual(t, ratio, 1.0)
	}
}

func TestFinancialValidator_StatedRatioExceedsOne(t *testing.T) {
	fin := consistentBreakdown()
	fin.NexusStated = 1.3
	v := NewFinancialValidator()
	result := v.Validate(context.Background(), newFinancialContext(fin, "Total: 300.00 PLN"))

	// A stated value above 1 is reported once; the mismatch check is skipped.
	assert.Equal(t, 1, result.ErrorCount())
	errs := issuesOfType(result.Issues, IssueNexusExceedsOne)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "exceeds 1.0")
}

func TestFinancialValidator_StatedRatioMismatch(t *testing.T) {
	fin := consistentBreakdown()
	fin.Nexus = types.NexusComponents{A: 50, B: 10, C: 30, D: 10} // expected 0.78
	fin.NexusStated = 0.9
	v := NewFinancialValidator()
	result := v.Validate(context.Background(), newFinancialContext(fin, "Total: 300.00 PLN"))

	errs := issuesOfType(result.Issues, IssueNexusMismatch)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "0.7800")
}

func TestFinancialValidator_LowRatioIsWarningOnly(t *testing.T) {
	fin := consistentBreakdown()
	fin.Nexus = types.NexusComponents{A: 30, C: 70} // expected 0.39
	fin.NexusStated = 0.39
	v := NewFinancialValidator()
	result := v.Validate(context.Background(), newFinancialContext(fin, "Total: 300.00 PLN"))

	warnings := issuesOfType(result.Issues, IssueNexusAuditRisk)
	require.Len(t, warnings, 1)
	assert.Equal(t, types.SeverityWarning, warnings[0].Severity)
	// An elevated-audit-risk signal is never an error.
	assert.True(t, result.Valid)
	assert.Equal(t, 1.0, result.Score)
}

func TestFinancialValidator_GrandTotalMissingFromText(t *testing.T) {
	v := NewFinancialValidator()
	result := v.Validate(context.Background(), newFinancialContext(consistentBreakdown(), "No amounts are quoted here."))

	warnings := issuesOfType(result.Issues, IssueAmountNotFound)
	require.Len(t, warnings, 1)
	assert.Equal(t, types.SeverityWarning, warnings[0].Severity)
	assert.True(t, result.Valid)
}

func TestFinancialValidator_GrandTotalWithinTextTolerance(t *testing.T) {
	// 299.50 is within 1.0 of the stated 300.00 grand total.
	v := NewFinancialValidator()
	result := v.Validate(context.Background(), newFinancialContext(consistentBreakdown(), "Costs came to 299,50 zł overall."))

	assert.Empty(t, issuesOfType(result.Issues, IssueAmountNotFound))
}

func TestFinancialValidator_AllocationOverflow(t *testing.T) {
	fin := consistentBreakdown()
	fin.Personnel = []types.PersonnelEntry{
		{Name: "A. Nowak", AllocationPercent: 80},
		{Name: "J. Kowalski", AllocationPercent: 120},
	}
	v := NewFinancialValidator()
	result := v.Validate(context.Background(), newFinancialContext(fin, "Total: 300.00 PLN"))

	errs := issuesOfType(result.Issues, IssueAllocationOverflow)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "J. Kowalski")
	assert.False(t, result.Valid)
}

func TestFinancialValidator_ScoreFloor(t *testing.T) {
	fin := types.FinancialBreakdown{
		CategoryTotals: map[string]float64{"salaries": 50},
		GrandTotal:     500,
		Nexus:          types.NexusComponents{A: 1},
		NexusStated:    3.0,
	}
	fin.Personnel = []types.PersonnelEntry{
		{Name: "a", AllocationPercent: 150},
		{Name: "b", AllocationPercent: 150},
		{Name: "c", AllocationPercent: 150},
		{Name: "d", AllocationPercent: 150},
	}
	v := NewFinancialValidator()
	result := v.Validate(context.Background(), newFinancialContext(fin, ""))

	// 6 errors at 0.2 each floor the score at zero.
	assert.Equal(t, 6, result.ErrorCount())
	assert.Equal(t, 0.0, result.Score)
}
