package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/opencitizen/welfare-assistant/internal/config"
)

// Mistral is the Mistral-class backend, reached through Mistral's
// OpenAI-compatible chat endpoint. It produces completions only; embeddings
// stay on the OpenAI-class backend.
type Mistral struct {
	client *openai.Client
}

var _ Backend = (*Mistral)(nil)

func NewMistral(cfg *config.MistralConfig) (*Mistral, error) {
	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.APIEndpoint),
	)
	return &Mistral{client: client}, nil
}

func (m *Mistral) Name() string { return "mistral" }

func (m *Mistral) GenerateAnswer(ctx context.Context, prompt Prompt) (*AnswerPayload, error) {
	content, finishReason, err := chatCompletion(ctx, m.client, prompt)
	if err != nil {
		return nil, err
	}
	return parseAnswer(content, finishReason)
}

func (m *Mistral) GenerateEnrichment(ctx context.Context, prompt Prompt) (*EnrichmentPayload, error) {
	content, _, err := chatCompletion(ctx, m.client, prompt)
	if err != nil {
		return nil, err
	}
	return parseEnrichment(content)
}

func (m *Mistral) ClassifyIntent(ctx context.Context, prompt Prompt) (string, error) {
	content, _, err := chatCompletion(ctx, m.client, prompt)
	if err != nil {
		return "", err
	}
	return parseIntent(content)
}

func (m *Mistral) ApplicationStatusAnswer(ctx context.Context, prompt Prompt) (*StatusPayload, error) {
	content, _, err := chatCompletion(ctx, m.client, prompt)
	if err != nil {
		return nil, err
	}
	return parseStatus(content)
}
