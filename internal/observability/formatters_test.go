package observability

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/marcin/taxdoc-validator/internal/types"
)

func TestPrintStageResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := types.NewStageResult("structure", 0.8, []types.Issue{
		{Type: "missing_section", Severity: types.SeverityError, Message: "missing required section: risk assessment"},
		{Type: "empty_section", Severity: types.SeverityWarning, Message: "section has no body content"},
	})
	p.PrintStageResult(result)

	out := buf.String()
	assert.Contains(t, out, "Stage: structure")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "missing required section")
}

func TestPrintStageResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintStageResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintPipelineResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.PipelineResult{
		RunID:              uuid.New(),
		Valid:              true,
		Score:              0.95,
		Iterations:         4,
		CorrectionsApplied: []string{"structure/iteration-1"},
		Stages: []types.StageResult{
			*types.NewStageResult("structure", 1.0, nil),
			*types.NewStageResult("financial", 0.9, nil),
		},
	}
	p.PrintPipelineResult(result)

	out := buf.String()
	assert.Contains(t, out, "Validation result")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "structure/iteration-1")
	assert.Contains(t, out, "financial")
}
