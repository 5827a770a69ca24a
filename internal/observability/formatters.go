// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/marcin/taxdoc-validator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxIssuesToShow is the default number of issues to display per stage
	maxIssuesToShow = 8
)

var (
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
	okColor      = color.New(color.FgGreen)
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStageResult outputs a human-readable summary of one stage's outcome.
func (p *Printer) PrintStageResult(result *types.StageResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Valid:  %s\n", verdict(result.Valid)))
	sb.WriteString(fmt.Sprintf("Score:  %.2f\n", result.Score))
	sb.WriteString(fmt.Sprintf("Issues: %d\n", len(result.Issues)))

	for i, issue := range result.Issues {
		if i >= maxIssuesToShow {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(result.Issues)-maxIssuesToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", severityLabel(issue.Severity), issue.Message))
	}

	p.printBox(fmt.Sprintf("Stage: %s", result.Stage), sb.String())
}

// PrintPipelineResult outputs the aggregated verdict of a pipeline run.
func (p *Printer) PrintPipelineResult(result *types.PipelineResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:         %s\n", result.RunID))
	sb.WriteString(fmt.Sprintf("Valid:       %s\n", verdict(result.Valid)))
	sb.WriteString(fmt.Sprintf("Score:       %.2f\n", result.Score))
	sb.WriteString(fmt.Sprintf("Iterations:  %d\n", result.Iterations))
	if len(result.CorrectionsApplied) > 0 {
		sb.WriteString(fmt.Sprintf("Corrections: %s\n", strings.Join(result.CorrectionsApplied, ", ")))
	}
	sb.WriteString("\n")
	for _, stage := range result.Stages {
		sb.WriteString(fmt.Sprintf("%-18s valid=%-5v score=%.2f issues=%d\n", stage.Stage, stage.Valid, stage.Score, len(stage.Issues)))
	}

	p.printBox("Validation result", sb.String())
}

// severityLabel renders a colored severity tag.
func severityLabel(s types.Severity) string {
	switch s {
	case types.SeverityError:
		return errorColor.Sprintf("[error]")
	case types.SeverityWarning:
		return warningColor.Sprintf("[warn] ")
	default:
		return infoColor.Sprintf("[info] ")
	}
}

func verdict(valid bool) string {
	if valid {
		return okColor.Sprint("PASS")
	}
	return errorColor.Sprint("FAIL")
}
