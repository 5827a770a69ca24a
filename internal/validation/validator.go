// Package validation implements the staged checks a generated B+R relief
// document must pass: structure, legal compliance, financial arithmetic and
// model-judged content quality.
package validation

import (
	"context"

	"github.com/marcin/taxdoc-validator/internal/correction"
	"github.com/marcin/taxdoc-validator/internal/types"
)

// Stage names in fixed pipeline order.
const (
	StageStructure      = "structure"
	StageLegal          = "legal_compliance"
	StageFinancial      = "financial"
	StageContentQuality = "content_quality"
)

// Issue type identifiers shared across validators.
const (
	IssueDocumentTooShort    = "document_too_short"
	IssueMissingSection      = "missing_section"
	IssueMalformedHeading    = "malformed_heading"
	IssueTableColumnMismatch = "table_column_mismatch"
	IssueEmptySection        = "empty_section"
	IssueMissingCriterion    = "missing_criterion"
	IssueInvalidTaxID        = "invalid_tax_id"
	IssueMissingTaxID        = "missing_tax_id"
	IssueMissingCostCategory = "missing_cost_category"
	IssueMissingDeclaration  = "missing_declaration"
	IssueSumMismatch         = "sum_mismatch"
	IssueNexusMismatch       = "nexus_mismatch"
	IssueNexusExceedsOne     = "nexus_exceeds_one"
	IssueNexusAuditRisk      = "nexus_audit_risk"
	IssueAmountNotFound      = "amount_not_found"
	IssueAllocationOverflow  = "allocation_overflow"
	IssueModelFinding        = "model_finding"
	IssueContentInadequate   = "content_inadequate"
	IssueCheckSkipped        = "check_skipped"
)

// Validator is the capability shared by the four stage validators.
// Validate never returns an error for a non-compliant document; findings
// are reported as issues on the StageResult.
type Validator interface {
	// Name returns the stage name.
	Name() string
	// Criteria describes what the validator checks.
	Criteria() []string
	// CorrectionHint guides the correction requester when this stage fails.
	CorrectionHint() string
	// Validate runs the stage checks over the current document.
	Validate(ctx context.Context, vc *Context) *types.StageResult
}

// Context is the unit of work for one pipeline run: the document under
// validation plus the structured data it was generated from. Only the
// Document field is mutable, and only by wholesale replacement after a
// correction.
type Context struct {
	Document     string
	DocumentType types.DocumentType
	Project      types.ProjectRecord
	Financials   types.FinancialBreakdown

	// Corrector is the optional handle used by the orchestrator to request
	// document repairs between iterations.
	Corrector correction.Requester
}

// NewContext builds a fresh Context from an input request. Each pipeline
// run owns its own Context; they are never shared between runs.
func NewContext(req *types.ValidationRequest, corrector correction.Requester) *Context {
	return &Context{
		Document:     req.Document,
		DocumentType: req.DocumentType,
		Project:      req.Project,
		Financials:   req.Financials,
		Corrector:    corrector,
	}
}

// ReplaceDocument swaps in a corrected document. The previous text is
// returned so callers can retain it for audit logging.
func (c *Context) ReplaceDocument(corrected string) string {
	previous := c.Document
	c.Document = corrected
	return previous
}
