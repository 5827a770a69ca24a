package validation

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/marcin/taxdoc-validator/internal/types"
)

// structureScorePenalty is deducted from the stage score per issue.
const structureScorePenalty = 0.1

var (
	headingPattern = regexp.MustCompile(`^(#+)(.*)$`)
	// A heading marker must be followed by a single separating space.
	malformedHeadingPattern = regexp.MustCompile(`^#+[^#\s]`)
)

// StructureValidator checks the document's sectioning, headings and tables
// against the rulebook's requirements for its document type.
type StructureValidator struct {
	rules *Rulebook
}

// NewStructureValidator creates a structure validator over the given rulebook.
func NewStructureValidator(rules *Rulebook) *StructureValidator {
	return &StructureValidator{rules: rules}
}

// Name returns the stage name.
func (v *StructureValidator) Name() string { return StageStructure }

// Criteria describes what the validator checks.
func (v *StructureValidator) Criteria() []string {
	return []string{
		"required sections present for the document type",
		"heading markers followed by a separating space",
		"consistent column counts in pipe-delimited tables",
		"no empty sections",
	}
}

// CorrectionHint guides the correction requester when this stage fails.
func (v *StructureValidator) CorrectionHint() string {
	return "Add every missing required section with meaningful body content, " +
		"write headings as '# Title' with a space after the markers, and keep " +
		"the same number of columns in every row of each table."
}

// Validate runs the structural checks. It is a pure function of the Context.
func (v *StructureValidator) Validate(_ context.Context, vc *Context) *types.StageResult {
	doc := vc.Document

	if len(strings.TrimSpace(doc)) < v.rules.MinDocumentLength {
		issues := []types.Issue{{
			Type:     IssueDocumentTooShort,
			Severity: types.SeverityError,
			Message:  fmt.Sprintf("document is too short: %d characters, minimum is %d", len(strings.TrimSpace(doc)), v.rules.MinDocumentLength),
		}}
		return types.NewStageResult(StageStructure, structureScore(issues), issues)
	}

	lines := strings.Split(doc, "\n")
	var issues []types.Issue

	issues = append(issues, v.checkHeadings(lines)...)
	issues = append(issues, v.checkRequiredSections(lines, vc.DocumentType)...)
	issues = append(issues, v.checkTables(lines)...)
	issues = append(issues, v.checkEmptySections(lines)...)

	return types.NewStageResult(StageStructure, structureScore(issues), issues)
}

func structureScore(issues []types.Issue) float64 {
	return 1.0 - structureScorePenalty*float64(len(issues))
}

// checkHeadings flags heading markers not followed by a separating space.
func (v *StructureValidator) checkHeadings(lines []string) []types.Issue {
	var issues []types.Issue
	for i, line := range lines {
		if malformedHeadingPattern.MatchString(strings.TrimSpace(line)) {
			issues = append(issues, types.Issue{
				Type:       IssueMalformedHeading,
				Severity:   types.SeverityError,
				Message:    fmt.Sprintf("heading marker on line %d is not followed by a space: %q", i+1, strings.TrimSpace(line)),
				Location:   fmt.Sprintf("line %d", i+1),
				Suggestion: "write headings as '# Title' with a space after the '#' markers",
			})
		}
	}
	return issues
}

// checkRequiredSections verifies the rulebook's section set for the
// document type, matching section names case-insensitively against
// heading lines.
func (v *StructureValidator) checkRequiredSections(lines []string, docType types.DocumentType) []types.Issue {
	required := v.rules.RequiredSections(docType)
	if len(required) == 0 {
		return nil
	}

	var headings []string
	for _, line := range lines {
		if m := headingPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			headings = append(headings, strings.ToLower(strings.TrimSpace(m[2])))
		}
	}

	var issues []types.Issue
	for _, section := range required {
		found := false
		needle := strings.ToLower(section)
		for _, heading := range headings {
			if strings.Contains(heading, needle) {
				found = true
				break
			}
		}
		if !found {
			issues = append(issues, types.Issue{
				Type:       IssueMissingSection,
				Severity:   types.SeverityError,
				Message:    fmt.Sprintf("missing required section: %s", section),
				Suggestion: fmt.Sprintf("add a '%s' section with appropriate content", section),
			})
		}
	}
	return issues
}

// checkTables verifies that every pipe-delimited table keeps a consistent
// column count across its rows. Each offending row is reported separately.
func (v *StructureValidator) checkTables(lines []string) []types.Issue {
	var issues []types.Issue

	inTable := false
	expectedColumns := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		isRow := strings.Count(trimmed, "|") >= 2 && strings.HasPrefix(trimmed, "|")

		if !isRow {
			inTable = false
			continue
		}

		columns := countTableColumns(trimmed)
		if !inTable {
			inTable = true
			expectedColumns = columns
			continue
		}
		if columns != expectedColumns {
			issues = append(issues, types.Issue{
				Type:       IssueTableColumnMismatch,
				Severity:   types.SeverityError,
				Message:    fmt.Sprintf("table row on line %d has %d columns, expected %d", i+1, columns, expectedColumns),
				Location:   fmt.Sprintf("line %d", i+1),
				Suggestion: "use the same number of '|' separated columns in every row",
			})
		}
	}
	return issues
}

// countTableColumns counts the cells of a pipe-delimited row.
func countTableColumns(row string) int {
	row = strings.TrimPrefix(row, "|")
	row = strings.TrimSuffix(row, "|")
	return len(strings.Split(row, "|"))
}

// checkEmptySections flags headings immediately followed by another heading
// or end-of-document with no body content in between.
func (v *StructureValidator) checkEmptySections(lines []string) []types.Issue {
	var issues []types.Issue

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		m := headingPattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}

		hasBody := false
		for j := i + 1; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" {
				continue
			}
			if headingPattern.MatchString(next) {
				break
			}
			hasBody = true
			break
		}
		if !hasBody {
			issues = append(issues, types.Issue{
				Type:       IssueEmptySection,
				Severity:   types.SeverityWarning,
				Message:    fmt.Sprintf("section %q on line %d has no body content", strings.TrimSpace(m[2]), i+1),
				Location:   fmt.Sprintf("line %d", i+1),
				Suggestion: "describe the section contents or remove the heading",
			})
		}
	}
	return issues
}
