package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRequestJSON = `{
  "document": "# Project Overview\n\nSome text.",
  "document_type": "project_card",
  "project_record": {
    "tax_id": "1234563218",
    "fiscal_year": 2024
  },
  "financial_breakdown": {
    "category_totals": {"salaries": 100.0},
    "grand_total": 100.0,
    "nexus_components": {"a": 100.0, "b": 0, "c": 0, "d": 0},
    "nexus_stated": 1.0
  }
}`

func TestValidateRequestJSON_Valid(t *testing.T) {
	err := ValidateRequestJSON([]byte(validRequestJSON))
	assert.NoError(t, err)
}

func TestValidateRequestJSON_MissingDocument(t *testing.T) {
	payload := `{
		"document_type": "project_card",
		"project_record": {"tax_id": "1234563218", "fiscal_year": 2024},
		"financial_breakdown": {
			"category_totals": {},
			"grand_total": 0,
			"nexus_components": {"a": 0, "b": 0, "c": 0, "d": 0},
			"nexus_stated": 1.0
		}
	}`

	err := ValidateRequestJSON([]byte(payload))
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateRequestJSON_UnknownDocumentType(t *testing.T) {
	payload := `{
		"document": "text",
		"document_type": "grant_application",
		"project_record": {"tax_id": "1234563218", "fiscal_year": 2024},
		"financial_breakdown": {
			"category_totals": {},
			"grand_total": 0,
			"nexus_components": {"a": 0, "b": 0, "c": 0, "d": 0},
			"nexus_stated": 1.0
		}
	}`

	err := ValidateRequestJSON([]byte(payload))
	assert.Error(t, err)
}

func TestValidateRequestJSON_NegativeNexusComponent(t *testing.T) {
	payload := `{
		"document": "text",
		"document_type": "ipbox_report",
		"project_record": {"tax_id": "1234563218", "fiscal_year": 2024},
		"financial_breakdown": {
			"category_totals": {},
			"grand_total": 0,
			"nexus_components": {"a": -5, "b": 0, "c": 0, "d": 0},
			"nexus_stated": 1.0
		}
	}`

	err := ValidateRequestJSON([]byte(payload))
	assert.Error(t, err)
}

func TestValidateRequestJSON_MalformedJSON(t *testing.T) {
	err := ValidateRequestJSON([]byte(`{not json`))
	assert.Error(t, err)
}
