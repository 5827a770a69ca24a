package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/marcin/taxdoc-validator/internal/config"
	"github.com/marcin/taxdoc-validator/internal/correction"
	"github.com/marcin/taxdoc-validator/internal/llm"
	"github.com/marcin/taxdoc-validator/internal/pipeline"
	"github.com/marcin/taxdoc-validator/internal/validation"
)

// pipelineSetup bundles everything a validation command needs to run: the
// rulebook, the orchestrator inputs and the optional LLM collaborator.
type pipelineSetup struct {
	cfg       *config.Config
	rules     *validation.Rulebook
	client    llm.Client
	corrector correction.Requester
	content   correction.Judge
	legal     correction.Judge
}

// Close releases the collaborator client, if one was created.
func (s *pipelineSetup) Close() {
	if s.client != nil {
		_ = s.client.Close()
	}
}

// options builds orchestrator options from the merged configuration.
func (s *pipelineSetup) options(onProgress pipeline.ProgressCallback) pipeline.Options {
	return pipeline.Options{
		MaxIterations: s.cfg.MaxIterations,
		OnProgress:    onProgress,
	}
}

// loadMergedConfig loads the optional config file and applies the CLI flag
// overrides on top. Flags win over the file; the file wins over defaults.
func loadMergedConfig(configFile string, override *config.Config) (*config.Config, error) {
	cfg := &config.Config{}
	if configFile != "" {
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if override.Provider != "" {
		cfg.Provider = override.Provider
	}
	if override.APIKey != "" {
		cfg.APIKey = override.APIKey
	}
	if override.Rulebook != "" {
		cfg.Rulebook = override.Rulebook
	}
	if override.MaxIterations != 0 {
		cfg.MaxIterations = override.MaxIterations
	}
	if override.CallTimeoutSeconds != 0 {
		cfg.CallTimeoutSeconds = override.CallTimeoutSeconds
	}
	if override.Concurrency != 0 {
		cfg.Concurrency = override.Concurrency
	}
	if override.NoCorrections {
		cfg.NoCorrections = true
	}
	if override.Verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newPipelineSetup resolves the rulebook and, when an API key is available,
// the LLM collaborator. Without a key the pipeline still runs: the
// deterministic validators are unaffected and the model-backed checks
// degrade to neutral results.
func newPipelineSetup(ctx context.Context, cfg *config.Config, documentType string) (*pipelineSetup, error) {
	setup := &pipelineSetup{cfg: cfg, rules: validation.DefaultRulebook()}

	if cfg.Rulebook != "" {
		rules, err := validation.LoadRulebook(cfg.Rulebook)
		if err != nil {
			return nil, err
		}
		setup.rules = rules
	}

	apiKey := resolveAPIKey(cfg)
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "Warning: no API key configured; running deterministic checks only")
		return setup, nil
	}

	client, err := llm.NewClient(ctx, llmConfig(cfg.Provider), apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	setup.client = client

	collab := correction.NewLLMCollaborator(client, documentType, time.Duration(cfg.CallTimeoutSeconds)*time.Second)
	setup.content = collab
	setup.legal = collab.LegalOpinion()
	if !cfg.NoCorrections {
		setup.corrector = collab
	}

	return setup, nil
}

// resolveAPIKey prefers the explicit key, then the provider's conventional
// environment variable.
func resolveAPIKey(cfg *config.Config) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	if cfg.Provider == string(llm.ProviderAnthropic) {
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return os.Getenv("GEMINI_API_KEY")
}

func llmConfig(provider string) *llm.Config {
	if provider == string(llm.ProviderAnthropic) {
		return llm.DefaultAnthropicConfig()
	}
	return llm.DefaultGeminiConfig()
}
