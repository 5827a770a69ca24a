package validation

import (
	"context"

	"github.com/marcin/taxdoc-validator/internal/correction"
	"github.com/marcin/taxdoc-validator/internal/types"
)

// defaultContentMaxChars bounds the document slice sent to the judge.
const defaultContentMaxChars = 8000

// ContentValidator delegates semantic and coherence judgement to the
// external reasoning collaborator. Collaborator failure degrades to a
// neutral result; this stage never fails the pipeline because the judge
// was unreachable.
type ContentValidator struct {
	judge    correction.Judge
	maxChars int
}

// NewContentValidator creates a content-quality validator. A nil judge or
// non-positive maxChars fall back to skip-with-neutral-score behavior and
// the default truncation bound respectively.
func NewContentValidator(judge correction.Judge, maxChars int) *ContentValidator {
	if maxChars <= 0 {
		maxChars = defaultContentMaxChars
	}
	return &ContentValidator{judge: judge, maxChars: maxChars}
}

// Name returns the stage name.
func (v *ContentValidator) Name() string { return StageContentQuality }

// Criteria describes what the validator checks.
func (v *ContentValidator) Criteria() []string {
	return []string{
		"document content is coherent and specific",
		"model-judged adequacy for the document type",
	}
}

// CorrectionHint guides the correction requester when this stage fails.
func (v *ContentValidator) CorrectionHint() string {
	return "Improve the substance of the flagged passages: be specific about " +
		"the work performed, keep sections internally consistent and remove " +
		"contradictions."
}

// Validate asks the judge for a structured verdict over the (truncated)
// document text.
func (v *ContentValidator) Validate(ctx context.Context, vc *Context) *types.StageResult {
	if v.judge == nil {
		return v.skipped("content quality check skipped: no collaborator configured")
	}

	doc := vc.Document
	if len(doc) > v.maxChars {
		doc = doc[:v.maxChars]
	}

	judgement, err := v.judge.Judge(ctx, doc, string(vc.DocumentType), vc.Project.FiscalYear)
	if err != nil {
		return v.skipped("content quality check skipped: collaborator unavailable")
	}

	var issues []types.Issue
	if !judgement.Adequate {
		issues = append(issues, types.Issue{
			Type:     IssueContentInadequate,
			Severity: types.SeverityError,
			Message:  "document content was judged inadequate for its purpose",
			Source:   "model",
		})
	}
	for _, finding := range judgement.Issues {
		issues = append(issues, types.Issue{
			Type:     IssueModelFinding,
			Severity: types.SeverityWarning,
			Message:  finding,
			Source:   "model",
		})
	}

	return types.NewStageResult(StageContentQuality, judgement.Score, issues)
}

// skipped builds the neutral non-blocking result used on collaborator
// failure.
func (v *ContentValidator) skipped(message string) *types.StageResult {
	issues := []types.Issue{{
		Type:     IssueCheckSkipped,
		Severity: types.SeverityInfo,
		Message:  message,
		Source:   "model",
	}}
	return types.NewStageResult(StageContentQuality, 1.0, issues)
}
