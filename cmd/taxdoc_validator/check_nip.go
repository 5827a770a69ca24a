package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcin/taxdoc-validator/internal/validation"
)

var checkNipCmd = &cobra.Command{
	Use:   "check-nip [identifier...]",
	Short: "Check tax identifier checksums",
	Long:  "Validates NIP identifiers against the weighted checksum. Identifiers are given as arguments, or extracted from a document with --file. Exits non-zero when any identifier is invalid.",
	RunE:  runCheckNip,
}

var checkNipFile string

func init() {
	checkNipCmd.Flags().StringVarP(&checkNipFile, "file", "f", "", "Extract and check every identifier found in this document")

	rootCmd.AddCommand(checkNipCmd)
}

func runCheckNip(_ *cobra.Command, args []string) error {
	candidates := args

	if checkNipFile != "" {
		data, err := os.ReadFile(checkNipFile)
		if err != nil {
			return fmt.Errorf("failed to read document: %w", err)
		}
		found := validation.FindTaxIdentifiers(string(data))
		if len(found) == 0 {
			return fmt.Errorf("no tax identifiers found in %s", checkNipFile)
		}
		candidates = append(candidates, found...)
	}

	if len(candidates) == 0 {
		return fmt.Errorf("no identifiers given (pass them as arguments or use --file)")
	}

	invalid := 0
	for _, candidate := range candidates {
		digits := validation.NormalizeTaxID(candidate)
		switch {
		case len(digits) != 10:
			invalid++
			fmt.Printf("%-20s INVALID (expected 10 digits, got %d)\n", candidate, len(digits))
		case !validation.ValidateTaxIDChecksum(digits):
			invalid++
			fmt.Printf("%-20s INVALID (checksum mismatch)\n", candidate)
		default:
			fmt.Printf("%-20s OK\n", candidate)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d identifier(s) invalid", invalid, len(candidates))
	}
	return nil
}
