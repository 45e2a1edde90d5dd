package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencitizen/welfare-assistant/apimodels"
	"github.com/opencitizen/welfare-assistant/internal/metadata"
)

func TestRenderPromptSubstitutesPlaceholders(t *testing.T) {
	cfg := &metadata.PromptConfig{
		ID:       "p1",
		LlmModel: "gpt-4o",
		Messages: []metadata.PromptMessage{
			{Role: "system", Content: "Sei un assistente per {topic}."},
			{Role: "user", Content: "Domanda: {question}"},
		},
		RequiredParameters: []string{"topic", "question"},
		ModelParameters:    metadata.ModelParams{TopP: 0.9, Temperature: 0.2, MaxTokens: 500},
	}

	prompt, err := renderPrompt(cfg, map[string]string{
		"topic":    "assegno unico",
		"question": "cos'è?",
	}, StatusInvalidCompletionPrompt)
	require.NoError(t, err)

	assert.Equal(t, "Sei un assistente per assegno unico.", prompt.System)
	assert.Equal(t, "Domanda: cos'è?", prompt.User)
	assert.Equal(t, "gpt-4o", prompt.Params.Model)
	assert.Equal(t, int64(500), prompt.Params.MaxTokens)
}

func TestRenderPromptMissingPlaceholderFailsFast(t *testing.T) {
	cfg := &metadata.PromptConfig{
		ID:                 "p1",
		Messages:           []metadata.PromptMessage{{Role: "system", Content: "no placeholders here"}},
		RequiredParameters: []string{"question"},
	}

	_, err := renderPrompt(cfg, map[string]string{"question": "q"}, StatusInvalidEnrichmentPrompt)
	require.Error(t, err)

	var pipelineErr *PipelineError
	require.ErrorAs(t, err, &pipelineErr)
	assert.Equal(t, StatusInvalidEnrichmentPrompt, pipelineErr.Status)
	assert.Contains(t, pipelineErr.Message, "{question}")
}

func TestRenderPromptPlaceholderMaySpanMessages(t *testing.T) {
	cfg := &metadata.PromptConfig{
		ID: "p1",
		Messages: []metadata.PromptMessage{
			{Role: "system", Content: "Contesto: {context}"},
			{Role: "user", Content: "{question}"},
		},
		RequiredParameters: []string{"context", "question"},
	}

	_, err := renderPrompt(cfg, map[string]string{"context": "c", "question": "q"}, StatusInvalidCompletionPrompt)
	assert.NoError(t, err)
}

func TestFormatHistory(t *testing.T) {
	history := []apimodels.Interaction{
		{Question: "ciao", Answer: "ciao!"},
		{Question: "come funziona?", Answer: "così."},
	}
	rendered := formatHistory(history)
	assert.Contains(t, rendered, "Utente: ciao")
	assert.Contains(t, rendered, "Assistente: così.")

	assert.Equal(t, "nessuna conversazione precedente", formatHistory(nil))
}
