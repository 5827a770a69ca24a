package validation

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/marcin/taxdoc-validator/internal/types"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// LegalCriterion is one statutory criterion with its keyword set.
type LegalCriterion struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Declaration is a required boilerplate phrase.
type Declaration struct {
	Name   string `yaml:"name"`
	Phrase string `yaml:"phrase"`
}

// DocumentRules holds the per-document-type requirements.
type DocumentRules struct {
	RequiredSections []string `yaml:"required_sections"`
}

// Rulebook is the configuration data structure driving the rule-based
// validators. It is passed explicitly into validator constructors; there is
// no global registry.
type Rulebook struct {
	DocumentTypes     map[string]DocumentRules `yaml:"document_types"`
	LegalCriteria     []LegalCriterion         `yaml:"legal_criteria"`
	CostCategories    []string                 `yaml:"cost_categories"`
	Declarations      []Declaration            `yaml:"declarations"`
	MinDocumentLength int                      `yaml:"min_document_length"`
}

// DefaultRulebook returns the rulebook embedded in the binary.
// Panics if the embedded YAML is malformed, which is a build defect.
func DefaultRulebook() *Rulebook {
	rules, err := parseRulebook(defaultRulesYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rulebook is invalid: %v", err))
	}
	return rules
}

// LoadRulebook reads a rulebook override from a YAML file.
func LoadRulebook(path string) (*Rulebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rulebook %s: %w", path, err)
	}
	rules, err := parseRulebook(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rulebook %s: %w", path, err)
	}
	return rules, nil
}

func parseRulebook(data []byte) (*Rulebook, error) {
	var rules Rulebook
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, err
	}
	if rules.MinDocumentLength <= 0 {
		rules.MinDocumentLength = 100
	}
	return &rules, nil
}

// RequiredSections returns the ordered section set for a document type.
// Unknown types have no section requirements.
func (r *Rulebook) RequiredSections(docType types.DocumentType) []string {
	if dt, ok := r.DocumentTypes[string(docType)]; ok {
		return dt.RequiredSections
	}
	return nil
}
