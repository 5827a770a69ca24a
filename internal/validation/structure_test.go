package validation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcin/taxdoc-validator/internal/types"
)

// completeProjectCard has every required section with body content.
const completeProjectCard = `# Project Overview

The Alpha project develops a novel routing engine through systematic, planned experimentation.

# Research Objectives

Increase the state of the art in adaptive routing.

# Work Performed

Implemented and benchmarked three creative prototype algorithms.

# Risk Assessment

Key technical risks and mitigations are tracked per milestone.

# Team and Resources

Two engineers at 80% allocation, salaries charged to the project.

# Cost Summary

Total qualifying costs: 300.00 PLN.
`

func newStructureContext(doc string) *Context {
	return &Context{
		Document:     doc,
		DocumentType: types.DocTypeProjectCard,
	}
}

func TestStructureValidator_CompleteDocument(t *testing.T) {
	v := NewStructureValidator(DefaultRulebook())
	result := v.Validate(context.Background(), newStructureContext(completeProjectCard))

	assert.True(t, result.Valid)
	assert.Empty(t, result.Issues)
	assert.Equal(t, 1.0, result.Score)
}

func TestStructureValidator_EmptyDocument(t *testing.T) {
	v := NewStructureValidator(DefaultRulebook())
	result := v.Validate(context.Background(), newStructureContext(""))

	assert.False(t, result.Valid)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, IssueDocumentTooShort, result.Issues[0].Type)
	assert.Equal(t, types.SeverityError, result.Issues[0].Severity)
}

func TestStructureValidator_TooShort(t *testing.T) {
	v := NewStructureValidator(DefaultRulebook())
	result := v.Validate(context.Background(), newStructureContext("# Project Overview\nshort"))

	assert.False(t, result.Valid)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, IssueDocumentTooShort, result.Issues[0].Type)
	assert.InDelta(t, 0.9, result.Score, 1e-9)
}

func TestStructureValidator_MissingSection(t *testing.T) {
	doc := strings.Replace(completeProjectCard, "# Risk Assessment\n\nKey technical risks and mitigations are tracked per milestone.\n\n", "", 1)
	v := NewStructureValidator(DefaultRulebook())
	result := v.Validate(context.Background(), newStructureContext(doc))

	assert.False(t, result.Valid)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, IssueMissingSection, result.Issues[0].Type)
	assert.Contains(t, result.Issues[0].Message, "risk assessment")
	assert.InDelta(t, 0.9, result.Score, 1e-9)
}

func TestStructureValidator_MalformedHeading(t *testing.T) {
	doc := strings.Replace(completeProjectCard, "# Risk Assessment", "#Risk Assessment", 1)
	v := NewStructureValidator(DefaultRulebook())
	result := v.Validate(context.Background(), newStructureContext(doc))

	assert.False(t, result.Valid)
	found := false
	for _, issue := range result.Issues {
		if issue.Type == IssueMalformedHeading {
			found = true
			assert.Contains(t, issue.Message, "#Risk Assessment")
		}
	}
	assert.True(t, found)
}

func TestStructureValidator_TableColumnMismatch(t *testing.T) {
	doc := completeProjectCard + `
# Appendix

| Category | Amount | Share |
| --- | --- | --- |
| salaries | 200.00 | 67% |
| materials | 100.00 |
`
	v := NewStructureValidator(DefaultRulebook())
	result := v.Validate(context.Background(), newStructureContext(doc))

	assert.False(t, result.Valid)
	mismatches := 0
	for _, issue := range result.Issues {
		if issue.Type == IssueTableColumnMismatch {
			mismatches++
			assert.Contains(t, issue.Message, "expected 3")
		}
	}
	assert.Equal(t, 1, mismatches)
}

func TestStructureValidator_ConsistentTable(t *testing.T) {
	doc := completeProjectCard + `
# Appendix

| Category | Amount |
| --- | --- |
| salaries | 200.00 |
| materials | 100.00 |
`
	v := NewStructureValidator(DefaultRulebook())
	result := v.Validate(context.Background(), newStructureContext(doc))
	assert.True(t, result.Valid)
}

func TestStructureValidator_EmptySection(t *testing.T) {
	doc := strings.Replace(completeProjectCard,
		"# Risk Assessment\n\nKey technical risks and mitigations are tracked per milestone.",
		"# Risk Assessment", 1)
	v := NewStructureValidator(DefaultRulebook())
	result := v.Validate(context.Background(), newStructureContext(doc))

	// Empty sections warn but do not block acceptance.
	assert.True(t, result.Valid)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, IssueEmptySection, result.Issues[0].Type)
	assert.Equal(t, types.SeverityWarning, result.Issues[0].Severity)
	assert.InDelta(t, 0.9, result.Score, 1e-9)
}

func TestStructureValidator_EmptySectionAtEOF(t *testing.T) {
	doc := completeProjectCard + "\n# Appendix\n"
	v := NewStructureValidator(DefaultRulebook())
	result := v.Validate(context.Background(), newStructureContext(doc))

	require.Len(t, result.Issues, 1)
	assert.Equal(t, IssueEmptySection, result.Issues[0].Type)
}

func TestStructureValidator_ScoreFloor(t *testing.T) {
	// A document long enough to pass the length gate but with none of the
	// six required sections and nothing else keeps the score at zero.
	doc := strings.Repeat("plain text without any headings at all. ", 5)
	v := NewStructureValidator(DefaultRulebook())
	result := v.Validate(context.Background(), newStructureContext(doc))

	assert.False(t, result.Valid)
	assert.Len(t, result.Issues, 6)
	assert.InDelta(t, 0.4, result.Score, 1e-9)
}

func TestStructureValidator_UnknownTypeHasNoSectionRequirements(t *testing.T) {
	vc := &Context{Document: completeProjectCard, DocumentType: "memo"}
	v := NewStructureValidator(DefaultRulebook())
	result := v.Validate(context.Background(), vc)
	assert.True(t, result.Valid)
}
