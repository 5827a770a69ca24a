package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcin/taxdoc-validator/internal/config"
	"github.com/marcin/taxdoc-validator/internal/observability"
	"github.com/marcin/taxdoc-validator/internal/pipeline"
	"github.com/marcin/taxdoc-validator/internal/schemas"
	"github.com/marcin/taxdoc-validator/internal/types"
	"github.com/marcin/taxdoc-validator/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate one tax-relief document",
	Long:  "Runs a single validation request (document plus its structured project and financial data) through all pipeline stages and writes the aggregated result as JSON. Exits non-zero when the document does not pass.",
	RunE:  runValidate,
}

var (
	validateRequestFile    string
	validateOutputFile     string
	validateConfigFile     string
	validateProvider       string
	validateAPIKey         string
	validateRulebookFile   string
	validateMaxIterations  int
	validateTimeoutSeconds int
	validateNoCorrections  bool
	validateVerbose        bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateRequestFile, "request", "r", "", "Path to ValidationRequest JSON file, or '-' for stdin (required)")
	validateCmd.Flags().StringVarP(&validateOutputFile, "out", "o", "", "Path to write the result JSON (default stdout)")
	validateCmd.Flags().StringVarP(&validateConfigFile, "config", "c", "", "Path to a JSON config file")
	validateCmd.Flags().StringVar(&validateProvider, "provider", "", "LLM provider: gemini or anthropic (default gemini)")
	validateCmd.Flags().StringVar(&validateAPIKey, "api-key", "", "API key (overrides GEMINI_API_KEY / ANTHROPIC_API_KEY env vars)")
	validateCmd.Flags().StringVar(&validateRulebookFile, "rulebook", "", "Path to a YAML rulebook override")
	validateCmd.Flags().IntVar(&validateMaxIterations, "max-iterations", 0, "Maximum validate-correct rounds per stage (default 3)")
	validateCmd.Flags().IntVar(&validateTimeoutSeconds, "timeout", 0, "Per-call collaborator timeout in seconds (default 90)")
	validateCmd.Flags().BoolVar(&validateNoCorrections, "no-corrections", false, "Validate only; never request document corrections")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Print per-stage detail while the pipeline runs")
	_ = validateCmd.MarkFlagRequired("request")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	cfg, err := loadMergedConfig(validateConfigFile, &config.Config{
		Provider:           validateProvider,
		APIKey:             validateAPIKey,
		Rulebook:           validateRulebookFile,
		MaxIterations:      validateMaxIterations,
		CallTimeoutSeconds: validateTimeoutSeconds,
		NoCorrections:      validateNoCorrections,
		Verbose:            validateVerbose,
	})
	if err != nil {
		return err
	}

	req, err := loadRequest(validateRequestFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	setup, err := newPipelineSetup(ctx, cfg, string(req.DocumentType))
	if err != nil {
		return err
	}
	defer setup.Close()

	printer := observability.NewPrinter(os.Stderr)
	var onProgress pipeline.ProgressCallback
	if cfg.Verbose {
		onProgress = func(event pipeline.StageEvent) {
			printer.PrintStageResult(event.Result)
		}
	}

	orchestrator := pipeline.NewDefaultOrchestrator(setup.rules, setup.content, setup.legal, setup.options(onProgress))

	result, err := orchestrator.Run(ctx, validation.NewContext(req, setup.corrector))
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer.PrintPipelineResult(result)
	}

	if err := writeResult(validateOutputFile, result); err != nil {
		return err
	}

	if !result.Valid {
		return fmt.Errorf("document failed validation (score %.2f)", result.Score)
	}
	return nil
}

// loadRequest reads, schema-validates and unmarshals one request payload.
func loadRequest(path string) (*types.ValidationRequest, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read request: %w", err)
	}

	if err := schemas.ValidateRequestJSON(data); err != nil {
		return nil, err
	}

	var req types.ValidationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request JSON: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return &req, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeResult(path string, result any) error {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	out = append(out, '\n')

	if path == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
