package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcin/taxdoc-validator/internal/config"
	"github.com/marcin/taxdoc-validator/internal/observability"
	"github.com/marcin/taxdoc-validator/internal/pipeline"
	"github.com/marcin/taxdoc-validator/internal/schemas"
	"github.com/marcin/taxdoc-validator/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Validate multiple documents concurrently",
	Long:  "Runs a JSON array of validation requests through the pipeline with bounded concurrency and writes the results, in request order, as a JSON array. Exits non-zero when any document does not pass.",
	RunE:  runBatch,
}

var (
	batchRequestsFile  string
	batchOutputFile    string
	batchConfigFile    string
	batchProvider      string
	batchAPIKey        string
	batchRulebookFile  string
	batchConcurrency   int
	batchNoCorrections bool
	batchVerbose       bool
)

func init() {
	batchCmd.Flags().StringVarP(&batchRequestsFile, "requests", "r", "", "Path to a JSON array of ValidationRequest objects, or '-' for stdin (required)")
	batchCmd.Flags().StringVarP(&batchOutputFile, "out", "o", "", "Path to write the result array JSON (default stdout)")
	batchCmd.Flags().StringVarP(&batchConfigFile, "config", "c", "", "Path to a JSON config file")
	batchCmd.Flags().StringVar(&batchProvider, "provider", "", "LLM provider: gemini or anthropic (default gemini)")
	batchCmd.Flags().StringVar(&batchAPIKey, "api-key", "", "API key (overrides GEMINI_API_KEY / ANTHROPIC_API_KEY env vars)")
	batchCmd.Flags().StringVar(&batchRulebookFile, "rulebook", "", "Path to a YAML rulebook override")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "Maximum documents validated at once (default 4)")
	batchCmd.Flags().BoolVar(&batchNoCorrections, "no-corrections", false, "Validate only; never request document corrections")
	batchCmd.Flags().BoolVarP(&batchVerbose, "verbose", "v", false, "Print a per-document summary while the batch runs")
	_ = batchCmd.MarkFlagRequired("requests")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(_ *cobra.Command, _ []string) error {
	cfg, err := loadMergedConfig(batchConfigFile, &config.Config{
		Provider:      batchProvider,
		APIKey:        batchAPIKey,
		Rulebook:      batchRulebookFile,
		Concurrency:   batchConcurrency,
		NoCorrections: batchNoCorrections,
		Verbose:       batchVerbose,
	})
	if err != nil {
		return err
	}

	requests, err := loadRequests(batchRequestsFile)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		return fmt.Errorf("request array is empty")
	}

	ctx := context.Background()
	// Document types can vary per request; the collaborator receives the
	// type again with every call, so the setup value is only a default.
	setup, err := newPipelineSetup(ctx, cfg, string(requests[0].DocumentType))
	if err != nil {
		return err
	}
	defer setup.Close()

	orchestrator := pipeline.NewDefaultOrchestrator(setup.rules, setup.content, setup.legal, setup.options(nil))

	results, err := orchestrator.RunBatch(ctx, requests, setup.corrector, cfg.Concurrency)
	if err != nil {
		return err
	}

	failed := 0
	printer := observability.NewPrinter(os.Stderr)
	for i, result := range results {
		if !result.Valid {
			failed++
		}
		if cfg.Verbose {
			fmt.Fprintf(os.Stderr, "Document %d:\n", i+1)
			printer.PrintPipelineResult(result)
		}
	}

	if err := writeResult(batchOutputFile, results); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) failed validation", failed, len(results))
	}
	return nil
}

// loadRequests reads and schema-validates a JSON array of requests. Each
// element is checked individually so failures name the offending index.
func loadRequests(path string) ([]types.ValidationRequest, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read requests: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request array: %w", err)
	}

	requests := make([]types.ValidationRequest, 0, len(raw))
	for i, element := range raw {
		if err := schemas.ValidateRequestJSON(element); err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		var req types.ValidationRequest
		if err := json.Unmarshal(element, &req); err != nil {
			return nil, fmt.Errorf("request %d: failed to unmarshal: %w", i, err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}
