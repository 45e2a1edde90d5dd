package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/opencitizen/welfare-assistant/internal/config"
)

// OpenAI is the OpenAI-class backend (OpenAI or Azure OpenAI). It is also the
// designated Embedder for the whole pipeline.
type OpenAI struct {
	client *openai.Client
	cfg    *config.OpenAIConfig
}

var _ Backend = (*OpenAI)(nil)
var _ Embedder = (*OpenAI)(nil)

func NewOpenAI(cfg *config.OpenAIConfig) (*OpenAI, error) {
	var client *openai.Client

	switch cfg.Provider {
	case "azure":
		client = openai.NewClient(
			azure.WithEndpoint(cfg.APIEndpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.APIKey),
		)
	default: // "openai"
		client = openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.APIEndpoint),
		)
	}

	return &OpenAI{
		client: client,
		cfg:    cfg,
	}, nil
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) GenerateAnswer(ctx context.Context, prompt Prompt) (*AnswerPayload, error) {
	content, finishReason, err := chatCompletion(ctx, o.client, prompt)
	if err != nil {
		return nil, err
	}
	return parseAnswer(content, finishReason)
}

func (o *OpenAI) GenerateEnrichment(ctx context.Context, prompt Prompt) (*EnrichmentPayload, error) {
	content, _, err := chatCompletion(ctx, o.client, prompt)
	if err != nil {
		return nil, err
	}
	return parseEnrichment(content)
}

func (o *OpenAI) ClassifyIntent(ctx context.Context, prompt Prompt) (string, error) {
	content, _, err := chatCompletion(ctx, o.client, prompt)
	if err != nil {
		return "", err
	}
	return parseIntent(content)
}

func (o *OpenAI) ApplicationStatusAnswer(ctx context.Context, prompt Prompt) (*StatusPayload, error) {
	content, _, err := chatCompletion(ctx, o.client, prompt)
	if err != nil {
		return nil, err
	}
	return parseStatus(content)
}

func (o *OpenAI) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.F[openai.EmbeddingNewParamsInputUnion](
			openai.EmbeddingNewParamsInputArrayOfStrings{text}),
		Model: openai.F(o.cfg.EmbeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding response carried no vectors")
	}
	return resp.Data[0].Embedding, nil
}
