package validation

import (
	"context"
	"fmt"
	"math"

	"github.com/marcin/taxdoc-validator/internal/types"
)

// Tolerances and bounds for the financial checks.
const (
	financialErrorPenalty = 0.2

	// sumTolerance is the absolute tolerance for category totals against
	// the stated grand total, in currency units.
	sumTolerance = 0.01
	// nexusTolerance is the absolute tolerance for the stated nexus ratio.
	nexusTolerance = 0.0001
	// textAmountTolerance is the tolerance for finding the grand total
	// among amounts extracted from the document text.
	textAmountTolerance = 1.0
	// auditRiskThreshold is the stated ratio below which an elevated
	// audit-risk warning is raised.
	auditRiskThreshold = 0.5
	// maxAllocationPercent bounds a personnel B+R time allocation.
	maxAllocationPercent = 100.0
	// nexusUplift is the statutory 1.3 multiplier on own and unrelated
	// qualifying costs.
	nexusUplift = 1.3
)

// ComputeNexusRatio computes the regulatory nexus ratio from its four cost
// components. A zero cost base yields a ratio of 1 by convention (full
// relief); otherwise the uplifted share of own and unrelated-party costs,
// capped at 1. The result is always in [0, 1] for non-negative inputs.
func ComputeNexusRatio(n types.NexusComponents) float64 {
	total := n.Total()
	if total == 0 {
		return 1.0
	}
	return math.Min(1.0, nexusUplift*(n.A+n.B)/total)
}

// FinancialValidator verifies arithmetic and regulatory-ratio correctness
// over the structured financial breakdown, with a best-effort cross-check
// against amounts quoted in the document text.
type FinancialValidator struct{}

// NewFinancialValidator creates a financial validator.
func NewFinancialValidator() *FinancialValidator {
	return &FinancialValidator{}
}

// Name returns the stage name.
func (v *FinancialValidator) Name() string { return StageFinancial }

// Criteria describes what the validator checks.
func (v *FinancialValidator) Criteria() []string {
	return []string{
		"category totals sum to the stated grand total",
		"stated nexus ratio matches the computed value and does not exceed 1",
		"grand total appears among amounts quoted in the document",
		"personnel time allocations do not exceed 100%",
	}
}

// CorrectionHint guides the correction requester when this stage fails.
func (v *FinancialValidator) CorrectionHint() string {
	return "Recalculate the cost summary so category totals add up to the " +
		"grand total, quote the grand total in the document, and state the " +
		"nexus ratio computed from the four cost components (capped at 1.0)."
}

// Validate runs the financial checks. It is a pure function of the Context.
func (v *FinancialValidator) Validate(_ context.Context, vc *Context) *types.StageResult {
	var issues []types.Issue

	issues = append(issues, v.checkSumConsistency(&vc.Financials)...)
	issues = append(issues, v.checkNexusRatio(&vc.Financials)...)
	issues = append(issues, v.crossCheckDocument(vc)...)
	issues = append(issues, v.checkAllocations(&vc.Financials)...)

	return types.NewStageResult(StageFinancial, financialScore(issues), issues)
}

func financialScore(issues []types.Issue) float64 {
	score := 1.0
	for _, issue := range issues {
		if issue.Severity == types.SeverityError {
			score -= financialErrorPenalty
		}
	}
	return score
}

// checkSumConsistency verifies the per-category gross totals against the
// stated grand total within the absolute tolerance.
func (v *FinancialValidator) checkSumConsistency(fin *types.FinancialBreakdown) []types.Issue {
	sum := 0.0
	for _, total := range fin.CategoryTotals {
		sum += total
	}
	if math.Abs(sum-fin.GrandTotal) > sumTolerance {
		return []types.Issue{{
			Type:       IssueSumMismatch,
			Severity:   types.SeverityError,
			Message:    fmt.Sprintf("category totals sum to %.2f but the stated grand total is %.2f", sum, fin.GrandTotal),
			Suggestion: "recalculate the cost breakdown so the categories add up to the grand total",
		}}
	}
	return nil
}

// checkNexusRatio verifies the stated regulatory ratio. A stated value
// above 1 is an error in itself; a low but plausible value is an
// elevated-audit-risk warning, never an error.
func (v *FinancialValidator) checkNexusRatio(fin *types.FinancialBreakdown) []types.Issue {
	var issues []types.Issue

	stated := fin.NexusStated
	if stated > 1.0 {
		issues = append(issues, types.Issue{
			Type:       IssueNexusExceedsOne,
			Severity:   types.SeverityError,
			Message:    fmt.Sprintf("stated nexus ratio %.4f exceeds 1.0", stated),
			Suggestion: "the nexus ratio is capped at 1.0; restate it from the cost components",
		})
	} else {
		expected := ComputeNexusRatio(fin.Nexus)
		if math.Abs(stated-expected) > nexusTolerance {
			issues = append(issues, types.Issue{
				Type:       IssueNexusMismatch,
				Severity:   types.SeverityError,
				Message:    fmt.Sprintf("stated nexus ratio %.4f does not match the computed value %.4f", stated, expected),
				Suggestion: "recompute the ratio as min(1, 1.3*(a+b)/(a+b+c+d))",
			})
		}
	}

	if stated >= 0 && stated < auditRiskThreshold {
		issues = append(issues, types.Issue{
			Type:     IssueNexusAuditRisk,
			Severity: types.SeverityWarning,
			Message:  fmt.Sprintf("stated nexus ratio %.4f is below %.1f, which elevates audit risk", stated, auditRiskThreshold),
		})
	}

	return issues
}

// crossCheckDocument verifies that the stated grand total appears among the
// currency amounts quoted in the document text. Text extraction is lossy,
// so absence is only a warning.
func (v *FinancialValidator) crossCheckDocument(vc *Context) []types.Issue {
	amounts := ExtractAmounts(vc.Document)
	for _, amount := range amounts {
		if math.Abs(amount-vc.Financials.GrandTotal) <= textAmountTolerance {
			return nil
		}
	}
	return []types.Issue{{
		Type:       IssueAmountNotFound,
		Severity:   types.SeverityWarning,
		Message:    fmt.Sprintf("stated grand total %.2f was not found among amounts quoted in the document", vc.Financials.GrandTotal),
		Suggestion: "quote the grand total in the cost summary section",
	}}
}

// checkAllocations flags personnel records declaring more than 100% B+R
// time allocation.
func (v *FinancialValidator) checkAllocations(fin *types.FinancialBreakdown) []types.Issue {
	var issues []types.Issue
	for _, person := range fin.Personnel {
		if person.AllocationPercent > maxAllocationPercent {
			issues = append(issues, types.Issue{
				Type:       IssueAllocationOverflow,
				Severity:   types.SeverityError,
				Message:    fmt.Sprintf("personnel record %q declares a %.1f%% B+R time allocation, which exceeds 100%%", person.Name, person.AllocationPercent),
				Suggestion: "cap the declared allocation at 100%",
			})
		}
	}
	return issues
}
