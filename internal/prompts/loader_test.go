package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("correction.json", "repair-document")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "corrected document text")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("correction.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat_ReplacesPlaceholders(t *testing.T) {
	template := "Type: {{.DocumentType}}, Year: {{.FiscalYear}}"
	result := Format(template, map[string]string{
		"DocumentType": "project_card",
		"FiscalYear":   "2024",
	})
	assert.Equal(t, "Type: project_card, Year: 2024", result)
}

func TestList_JudgePrompts(t *testing.T) {
	ClearCache()

	keys, err := List("judge.json")
	require.NoError(t, err)
	assert.Contains(t, keys, "judge-content-quality")
}
