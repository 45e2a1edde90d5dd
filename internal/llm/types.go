package llm

import "context"

// ModelParameters are the per-prompt generation settings resolved from the
// prompt configuration store.
type ModelParameters struct {
	Model       string
	TopP        float64
	Temperature float64
	MaxTokens   int64
	Stop        []string
}

// Prompt is a fully assembled system/user message pair ready to send.
type Prompt struct {
	System string
	User   string
	Params ModelParameters
}

// AnswerPayload is the structured reply of a retrieval-augmented completion.
type AnswerPayload struct {
	Response     string `json:"response"`
	References   []int  `json:"references"`
	FinishReason string `json:"-"`
}

// EnrichmentPayload is the structured reply of a query rewrite.
type EnrichmentPayload struct {
	StandaloneQuestion string `json:"standalone_question"`
	EndConversation    bool   `json:"end_conversation"`
}

// StatusPayload is the structured reply of a status completion over
// case-management application details.
type StatusPayload struct {
	HasAnswer bool   `json:"has_answer"`
	Answer    string `json:"answer"`
}

// Backend is the capability set shared by the interchangeable LLM families.
// Embeddings are deliberately not part of it: they always come from the
// designated Embedder regardless of which Backend produces completions.
type Backend interface {
	Name() string
	GenerateAnswer(ctx context.Context, prompt Prompt) (*AnswerPayload, error)
	GenerateEnrichment(ctx context.Context, prompt Prompt) (*EnrichmentPayload, error)
	ClassifyIntent(ctx context.Context, prompt Prompt) (string, error)
	ApplicationStatusAnswer(ctx context.Context, prompt Prompt) (*StatusPayload, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
