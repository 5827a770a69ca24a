package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock_Plain(t *testing.T) {
	input := `{"valid": true}`
	assert.Equal(t, `{"valid": true}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_JSONFence(t *testing.T) {
	input := "```json\n{\"valid\": true}\n```"
	assert.Equal(t, `{"valid": true}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_GenericFence(t *testing.T) {
	input := "```\n{\"valid\": true}\n```"
	assert.Equal(t, `{"valid": true}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_FenceWithLanguage(t *testing.T) {
	input := "```javascript\n{\"valid\": true}\n```"
	assert.Equal(t, `{"valid": true}`, CleanJSONBlock(input))
}

func TestCleanJSONBlock_SurroundingWhitespace(t *testing.T) {
	input := "\n\n  ```json\n{\"a\": 1}\n```  \n"
	assert.Equal(t, `{"a": 1}`, CleanJSONBlock(input))
}
