package types

import "github.com/go-playground/validator/v10"

// ValidationRequest is the input contract for one pipeline run: the
// generated document plus the structured data it was generated from.
type ValidationRequest struct {
	Document     string             `json:"document" validate:"required"`
	DocumentType DocumentType       `json:"document_type" validate:"required"`
	Project      ProjectRecord      `json:"project_record" validate:"required"`
	Financials   FinancialBreakdown `json:"financial_breakdown" validate:"required"`
}

// Validate validates the ValidationRequest using the validator.
func (r *ValidationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
