package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/marcin/taxdoc-validator/internal/correction"
	"github.com/marcin/taxdoc-validator/internal/types"
)

// Legal stage score penalties per finding severity.
const (
	legalErrorPenalty   = 0.15
	legalWarningPenalty = 0.05
)

// legalOpinionMaxChars bounds the document slice sent to the collaborator.
const legalOpinionMaxChars = 8000

// LegalValidator checks the document's regulatory adequacy: statutory
// keyword coverage, tax-identifier checksums, cost-category mentions and
// required boilerplate declarations. An optional reasoning collaborator
// contributes a free-form legal-adequacy opinion.
type LegalValidator struct {
	rules *Rulebook
	judge correction.Judge // optional
}

// NewLegalValidator creates a legal-compliance validator. The judge may be
// nil; the opinion check is skipped without penalty.
func NewLegalValidator(rules *Rulebook, judge correction.Judge) *LegalValidator {
	return &LegalValidator{rules: rules, judge: judge}
}

// Name returns the stage name.
func (v *LegalValidator) Name() string { return StageLegal }

// Criteria describes what the validator checks.
func (v *LegalValidator) Criteria() []string {
	return []string{
		"statutory R&D criteria addressed by keyword coverage",
		"tax identifier passes the weighted checksum",
		"qualifying cost categories mentioned",
		"required declarations present",
	}
}

// CorrectionHint guides the correction requester when this stage fails.
func (v *LegalValidator) CorrectionHint() string {
	return "Address each statutory criterion explicitly, state the correct " +
		"10-digit tax identifier, name the qualifying cost categories and " +
		"include the required declaration, approval and signature phrases."
}

// Validate runs the legal-compliance checks.
func (v *LegalValidator) Validate(ctx context.Context, vc *Context) *types.StageResult {
	var issues []types.Issue

	lower := strings.ToLower(vc.Document)

	issues = append(issues, v.checkKeywordCoverage(lower)...)
	issues = append(issues, v.checkTaxIdentifiers(vc)...)
	issues = append(issues, v.checkCostCategories(lower)...)
	issues = append(issues, v.checkDeclarations(lower)...)
	issues = append(issues, v.legalOpinion(ctx, vc)...)

	return types.NewStageResult(StageLegal, legalScore(issues), issues)
}

func legalScore(issues []types.Issue) float64 {
	score := 1.0
	for _, issue := range issues {
		switch issue.Severity {
		case types.SeverityError:
			score -= legalErrorPenalty
		case types.SeverityWarning:
			score -= legalWarningPenalty
		}
	}
	return score
}

// checkKeywordCoverage warns for every statutory criterion not matched by
// any of its keywords anywhere in the document.
func (v *LegalValidator) checkKeywordCoverage(lower string) []types.Issue {
	var issues []types.Issue
	for _, criterion := range v.rules.LegalCriteria {
		covered := false
		for _, keyword := range criterion.Keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				covered = true
				break
			}
		}
		if !covered {
			issues = append(issues, types.Issue{
				Type:       IssueMissingCriterion,
				Severity:   types.SeverityWarning,
				Message:    fmt.Sprintf("document does not address the statutory criterion: %s", criterion.Name),
				Suggestion: fmt.Sprintf("describe how the activity demonstrates %s (e.g. %s)", criterion.Name, strings.Join(criterion.Keywords[:min(3, len(criterion.Keywords))], ", ")),
			})
		}
	}
	return issues
}

// checkTaxIdentifiers validates every identifier-shaped substring found in
// the text, falling back to the identifier from the structured record when
// the text contains none.
func (v *LegalValidator) checkTaxIdentifiers(vc *Context) []types.Issue {
	candidates := FindTaxIdentifiers(vc.Document)
	if len(candidates) == 0 && vc.Project.TaxID != "" {
		candidates = []string{vc.Project.TaxID}
	}
	if len(candidates) == 0 {
		return []types.Issue{{
			Type:       IssueMissingTaxID,
			Severity:   types.SeverityWarning,
			Message:    "no tax identifier found in the document or the project record",
			Suggestion: "state the 10-digit tax identifier of the taxpayer",
		}}
	}

	var issues []types.Issue
	for _, candidate := range candidates {
		digits := NormalizeTaxID(candidate)
		if len(digits) != 10 {
			issues = append(issues, types.Issue{
				Type:       IssueInvalidTaxID,
				Severity:   types.SeverityError,
				Message:    fmt.Sprintf("tax identifier %s does not have 10 digits", candidate),
				Suggestion: "correct the tax identifier to its full 10-digit form",
			})
			continue
		}
		if !ValidateTaxIDChecksum(digits) {
			issues = append(issues, types.Issue{
				Type:       IssueInvalidTaxID,
				Severity:   types.SeverityError,
				Message:    fmt.Sprintf("tax identifier %s fails checksum validation", candidate),
				Suggestion: "verify the tax identifier against the registration documents",
			})
		}
	}
	return issues
}

// checkCostCategories warns when none of the qualifying cost-category
// terms appears anywhere in the text.
func (v *LegalValidator) checkCostCategories(lower string) []types.Issue {
	for _, category := range v.rules.CostCategories {
		if strings.Contains(lower, strings.ToLower(category)) {
			return nil
		}
	}
	return []types.Issue{{
		Type:       IssueMissingCostCategory,
		Severity:   types.SeverityWarning,
		Message:    "document does not mention any qualifying cost category",
		Suggestion: fmt.Sprintf("reference the qualifying cost categories claimed (e.g. %s)", strings.Join(v.rules.CostCategories[:min(3, len(v.rules.CostCategories))], ", ")),
	}}
}

// checkDeclarations reports an info-level finding for each missing
// boilerplate phrase. These never block acceptance.
func (v *LegalValidator) checkDeclarations(lower string) []types.Issue {
	var issues []types.Issue
	for _, declaration := range v.rules.Declarations {
		if !strings.Contains(lower, strings.ToLower(declaration.Phrase)) {
			issues = append(issues, types.Issue{
				Type:       IssueMissingDeclaration,
				Severity:   types.SeverityInfo,
				Message:    fmt.Sprintf("document lacks the %s", declaration.Name),
				Suggestion: fmt.Sprintf("include the phrase %q", declaration.Phrase),
			})
		}
	}
	return issues
}

// legalOpinion asks the optional collaborator for a legal-adequacy opinion.
// Collaborator failure degrades to a single info finding and never aborts
// the stage.
func (v *LegalValidator) legalOpinion(ctx context.Context, vc *Context) []types.Issue {
	if v.judge == nil {
		return nil
	}

	doc := vc.Document
	if len(doc) > legalOpinionMaxChars {
		doc = doc[:legalOpinionMaxChars]
	}

	judgement, err := v.judge.Judge(ctx, doc, string(vc.DocumentType), vc.Project.FiscalYear)
	if err != nil {
		return []types.Issue{{
			Type:     IssueCheckSkipped,
			Severity: types.SeverityInfo,
			Message:  "legal adequacy opinion skipped: collaborator unavailable",
			Source:   "model",
		}}
	}

	issues := make([]types.Issue, 0, len(judgement.Issues))
	for _, finding := range judgement.Issues {
		issues = append(issues, types.Issue{
			Type:     IssueModelFinding,
			Severity: types.SeverityWarning,
			Message:  finding,
			Source:   "model",
		})
	}
	return issues
}
