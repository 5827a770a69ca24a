// Package main provides the entry point for the taxdoc_validator CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taxdoc_validator",
	Short: "B+R and IP Box documentation validator",
	Long:  "taxdoc_validator runs generated tax-relief documentation (project cards, annual summaries, IP Box reports) through staged structural, legal, financial and content-quality validation with optional LLM-driven correction.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
