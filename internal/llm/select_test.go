package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubBackend struct {
	name string
}

func (s *stubBackend) Name() string { return s.name }
func (s *stubBackend) GenerateAnswer(context.Context, Prompt) (*AnswerPayload, error) {
	return nil, nil
}
func (s *stubBackend) GenerateEnrichment(context.Context, Prompt) (*EnrichmentPayload, error) {
	return nil, nil
}
func (s *stubBackend) ClassifyIntent(context.Context, Prompt) (string, error) { return "", nil }
func (s *stubBackend) ApplicationStatusAnswer(context.Context, Prompt) (*StatusPayload, error) {
	return nil, nil
}

func TestForModelSelectsMistralByPrefix(t *testing.T) {
	registry := NewRegistry(&stubBackend{name: "openai"}, &stubBackend{name: "mistral"})

	assert.Equal(t, "mistral", registry.ForModel("mistral-large-latest").Name())
	assert.Equal(t, "mistral", registry.ForModel("Mistral-7B").Name())
	assert.Equal(t, "openai", registry.ForModel("gpt-4o").Name())
}

func TestForModelDefaultsUnknownToOpenAI(t *testing.T) {
	registry := NewRegistry(&stubBackend{name: "openai"}, &stubBackend{name: "mistral"})

	assert.Equal(t, "openai", registry.ForModel("gpt-4o-typo").Name())
	assert.Equal(t, "openai", registry.ForModel("").Name())
}
