package correction

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/marcin/taxdoc-validator/internal/llm"
	"github.com/marcin/taxdoc-validator/internal/prompts"
)

// DefaultCallTimeout bounds a single collaborator call. Timeouts are
// treated as recoverable collaborator failures, not pipeline faults.
const DefaultCallTimeout = 90 * time.Second

// maxIssuesInPrompt caps how many findings are sent with a repair request.
const maxIssuesInPrompt = 5

// LLMCollaborator implements both the Requester and Judge contracts on top
// of an LLM client.
type LLMCollaborator struct {
	client       llm.Client
	documentType string
	callTimeout  time.Duration
}

// NewLLMCollaborator creates a collaborator backed by the given client.
// A non-positive timeout falls back to DefaultCallTimeout.
func NewLLMCollaborator(client llm.Client, documentType string, callTimeout time.Duration) *LLMCollaborator {
	if callTimeout <= 0 {
		callTimeout = DefaultCallTimeout
	}
	return &LLMCollaborator{
		client:       client,
		documentType: documentType,
		callTimeout:  callTimeout,
	}
}

// Repair asks the collaborator for a corrected document. At most the first
// five issues are included in the prompt.
func (c *LLMCollaborator) Repair(ctx context.Context, document string, issues []string, hint string) (string, error) {
	if len(issues) > maxIssuesInPrompt {
		issues = issues[:maxIssuesInPrompt]
	}

	var sb strings.Builder
	for i, issue := range issues {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue))
	}

	template := prompts.MustGet("correction.json", "repair-document")
	prompt := prompts.Format(template, map[string]string{
		"DocumentType": c.documentType,
		"Issues":       sb.String(),
		"Hint":         hint,
		"Document":     document,
	})

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	// TierAdvanced: rewriting a full document needs the strongest model.
	corrected, err := c.client.GenerateContent(callCtx, prompt, llm.TierAdvanced)
	if err != nil {
		return "", &CollaboratorError{Message: "repair request failed", Cause: err}
	}

	corrected = stripFences(corrected)
	if strings.TrimSpace(corrected) == "" {
		return "", &CollaboratorError{Message: "repair produced an empty document"}
	}

	return corrected, nil
}

// Judge asks the collaborator for a structured content-quality verdict.
func (c *LLMCollaborator) Judge(ctx context.Context, document string, documentType string, fiscalYear int) (*Judgement, error) {
	return c.judgeWithPrompt(ctx, "judge.json", "judge-content-quality", document, documentType, fiscalYear)
}

// LegalOpinion returns a Judge view of the collaborator that asks for a
// statutory-adequacy opinion instead of a content-quality verdict.
func (c *LLMCollaborator) LegalOpinion() Judge {
	return legalOpinionJudge{c}
}

type legalOpinionJudge struct {
	collab *LLMCollaborator
}

func (j legalOpinionJudge) Judge(ctx context.Context, document string, documentType string, fiscalYear int) (*Judgement, error) {
	return j.collab.judgeWithPrompt(ctx, "correction.json", "legal-opinion", document, documentType, fiscalYear)
}

func (c *LLMCollaborator) judgeWithPrompt(ctx context.Context, promptFile, promptKey, document, documentType string, fiscalYear int) (*Judgement, error) {
	template := prompts.MustGet(promptFile, promptKey)
	prompt := prompts.Format(template, map[string]string{
		"DocumentType": documentType,
		"FiscalYear":   strconv.Itoa(fiscalYear),
		"Document":     document,
	})

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	jsonResp, err := c.client.GenerateJSON(callCtx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &CollaboratorError{Message: "judge request failed", Cause: err}
	}

	jsonResp = llm.CleanJSONBlock(jsonResp)

	var judgement Judgement
	if err := json.Unmarshal([]byte(jsonResp), &judgement); err != nil {
		return nil, &CollaboratorError{
			Message: fmt.Sprintf("failed to parse judge response (content: %s)", jsonResp),
			Cause:   err,
		}
	}

	// Clamp score into valid range
	if judgement.Score < 0.0 {
		judgement.Score = 0.0
	}
	if judgement.Score > 1.0 {
		judgement.Score = 1.0
	}

	return &judgement, nil
}

// stripFences removes markdown code fences the model may wrap the corrected
// document in despite instructions.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := text[:idx]
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
