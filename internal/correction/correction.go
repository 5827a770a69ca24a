// Package correction wraps the external reasoning collaborator behind the
// two narrow contracts the pipeline depends on: proposing a repaired
// document for a failed stage, and judging content quality.
package correction

import "context"

// Requester proposes a repaired document for a set of validation findings.
// Implementations must never let collaborator failures escape as panics;
// a failed or unusable repair is reported as an error and the caller keeps
// the current document.
type Requester interface {
	// Repair returns a corrected version of the document, or an error if
	// the collaborator is unavailable or produced unusable output.
	Repair(ctx context.Context, document string, issues []string, hint string) (string, error)
}

// Judgement is the structured verdict returned by the quality judge.
type Judgement struct {
	Adequate bool     `json:"adequate"`
	Issues   []string `json:"issues"`
	Score    float64  `json:"score"`
}

// Judge produces a free-form quality judgement of a document.
type Judge interface {
	// Judge assesses the document's content quality. A nil judgement with
	// an error means the collaborator was unavailable; callers degrade
	// gracefully rather than failing the stage.
	Judge(ctx context.Context, document string, documentType string, fiscalYear int) (*Judgement, error)
}
