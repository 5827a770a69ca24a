// Package types provides type definitions for structured data used throughout the taxdoc-validator system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Severity classifies how strongly an issue counts against a document.
// Only error-severity issues block acceptance.
type Severity string

// Severity levels in decreasing order of impact.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue represents a single finding produced by a validator. Issues are
// created by validators and never mutated afterwards.
type Issue struct {
	Type       string   `json:"type"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Location   string   `json:"location,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`

	// Source marks where the finding came from, e.g. "model" for issues
	// derived from the reasoning collaborator.
	Source string `json:"source,omitempty"`
}

// StageResult holds the outcome of one validator pass over the current
// document. Valid is derived from the issues at construction time and is
// never set independently.
type StageResult struct {
	Stage  string  `json:"name"`
	Valid  bool    `json:"valid"`
	Score  float64 `json:"score"`
	Issues []Issue `json:"issues"`
}

// NewStageResult builds a StageResult, deriving Valid from the absence of
// error-severity issues and clamping the score into [0, 1].
func NewStageResult(stage string, score float64, issues []Issue) *StageResult {
	valid := true
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			valid = false
			break
		}
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return &StageResult{
		Stage:  stage,
		Valid:  valid,
		Score:  score,
		Issues: issues,
	}
}

// ErrorCount returns the number of error-severity issues.
func (r *StageResult) ErrorCount() int {
	return r.countSeverity(SeverityError)
}

// WarningCount returns the number of warning-severity issues.
func (r *StageResult) WarningCount() int {
	return r.countSeverity(SeverityWarning)
}

func (r *StageResult) countSeverity(s Severity) int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			count++
		}
	}
	return count
}

// PipelineResult aggregates the final per-stage results of a full pipeline
// run. It is the only artifact handed back to callers for persistence.
type PipelineResult struct {
	RunID              uuid.UUID     `json:"run_id"`
	Valid              bool          `json:"valid"`
	Score              float64       `json:"score"`
	Stages             []StageResult `json:"stages"`
	Iterations         int           `json:"iterations"`
	CorrectionsApplied []string      `json:"corrections_applied"`
	Timestamp          time.Time     `json:"timestamp"`
}
