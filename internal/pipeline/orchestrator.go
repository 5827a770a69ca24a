// Package pipeline provides the high-level orchestration of the staged
// document validation and iterative correction loop.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marcin/taxdoc-validator/internal/correction"
	"github.com/marcin/taxdoc-validator/internal/types"
	"github.com/marcin/taxdoc-validator/internal/validation"
)

// DefaultMaxIterations caps validate-correct rounds per stage.
const DefaultMaxIterations = 3

// StageEvent reports one validator pass to the progress observer. Every
// iteration's StageResult is surfaced here, so earlier iterations remain
// inspectable even though only the last result per stage is aggregated.
type StageEvent struct {
	Stage     string             `json:"stage"`
	Iteration int                `json:"iteration"`
	Result    *types.StageResult `json:"result"`
	Corrected bool               `json:"corrected"`
}

// ProgressCallback is called after each validator pass
type ProgressCallback func(event StageEvent)

// Options holds configuration for an Orchestrator.
type Options struct {
	// MaxIterations caps validate-correct rounds per stage. Zero or
	// negative means DefaultMaxIterations.
	MaxIterations int
	// OnProgress, when set, receives every per-iteration StageResult.
	OnProgress ProgressCallback
}

// Orchestrator sequences the validators over a shared Context and drives
// the per-stage iterate-and-correct loop. Stages run strictly in order: a
// correction in an earlier stage replaces the shared document, and later
// stages must validate the corrected text.
type Orchestrator struct {
	validators    []validation.Validator
	maxIterations int
	onProgress    ProgressCallback
}

// NewOrchestrator creates an orchestrator over the given validators, which
// run in the order supplied.
func NewOrchestrator(validators []validation.Validator, opts Options) *Orchestrator {
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Orchestrator{
		validators:    validators,
		maxIterations: maxIterations,
		onProgress:    opts.OnProgress,
	}
}

// NewDefaultOrchestrator wires the four standard validators in their fixed
// stage order. Either judge may be nil (the affected checks degrade to
// neutral); the corrector travels on the Context.
func NewDefaultOrchestrator(rules *validation.Rulebook, contentJudge, legalJudge correction.Judge, opts Options) *Orchestrator {
	validators := []validation.Validator{
		validation.NewStructureValidator(rules),
		validation.NewLegalValidator(rules, legalJudge),
		validation.NewFinancialValidator(),
		validation.NewContentValidator(contentJudge, 0),
	}
	return NewOrchestrator(validators, opts)
}

// Run drives all stages over the Context and aggregates the final result.
// Cancellation is checked between stages and between iterations, never
// mid-validator; validators are pure and fast.
func (o *Orchestrator) Run(ctx context.Context, vc *validation.Context) (*types.PipelineResult, error) {
	finalResults := make([]types.StageResult, 0, len(o.validators))
	totalIterations := 0
	var correctionsApplied []string

	for _, validator := range o.validators {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline cancelled before stage %s: %w", validator.Name(), err)
		}

		last, iterations, corrections := o.runStage(ctx, validator, vc)
		totalIterations += iterations
		correctionsApplied = append(correctionsApplied, corrections...)
		finalResults = append(finalResults, *last)
	}

	valid := true
	scoreSum := 0.0
	for _, result := range finalResults {
		valid = valid && result.Valid
		scoreSum += result.Score
	}
	score := 0.0
	if len(finalResults) > 0 {
		score = scoreSum / float64(len(finalResults))
	}

	return &types.PipelineResult{
		RunID:              uuid.New(),
		Valid:              valid,
		Score:              score,
		Stages:             finalResults,
		Iterations:         totalIterations,
		CorrectionsApplied: correctionsApplied,
		Timestamp:          time.Now().UTC(),
	}, nil
}

// runStage executes the iterate-and-correct loop for a single validator.
// The stage resolves when the result is valid or the iteration cap is
// exhausted; in the latter case the last result stands with its issues
// unresolved.
func (o *Orchestrator) runStage(ctx context.Context, validator validation.Validator, vc *validation.Context) (last *types.StageResult, iterations int, corrections []string) {
	for iteration := 1; iteration <= o.maxIterations; iteration++ {
		// Cancellation is honored between iterations, never mid-validator.
		if iteration > 1 && ctx.Err() != nil {
			break
		}

		result := validator.Validate(ctx, vc)
		iterations++

		corrected := false
		if !result.Valid && vc.Corrector != nil && iteration < o.maxIterations {
			corrected = o.requestCorrection(ctx, validator, vc, result)
			if corrected {
				corrections = append(corrections, fmt.Sprintf("%s/iteration-%d", validator.Name(), iteration))
			}
		}

		o.emit(StageEvent{
			Stage:     validator.Name(),
			Iteration: iteration,
			Result:    result,
			Corrected: corrected,
		})

		last = result
		if result.Valid {
			break
		}
		if vc.Corrector == nil {
			// No correction budget: the first failing result stands.
			break
		}
	}
	return last, iterations, corrections
}

// requestCorrection asks the corrector for a repaired document and swaps it
// into the Context wholesale. Collaborator failures are swallowed here; the
// loop simply re-validates the unchanged document.
func (o *Orchestrator) requestCorrection(ctx context.Context, validator validation.Validator, vc *validation.Context, result *types.StageResult) bool {
	issues := make([]string, 0, len(result.Issues))
	for _, issue := range result.Issues {
		line := fmt.Sprintf("[%s] %s", issue.Severity, issue.Message)
		if issue.Suggestion != "" {
			line += fmt.Sprintf(" (suggestion: %s)", issue.Suggestion)
		}
		issues = append(issues, line)
	}

	corrected, err := vc.Corrector.Repair(ctx, vc.Document, issues, validator.CorrectionHint())
	if err != nil || corrected == "" {
		return false
	}

	vc.ReplaceDocument(corrected)
	return true
}

func (o *Orchestrator) emit(event StageEvent) {
	if o.onProgress != nil {
		o.onProgress(event)
	}
}
