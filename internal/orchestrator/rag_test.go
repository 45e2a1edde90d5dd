package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencitizen/welfare-assistant/internal/llm"
	"github.com/opencitizen/welfare-assistant/internal/metadata"
	"github.com/opencitizen/welfare-assistant/internal/search"
)

func newAnswerer(embedder *fakeEmbedder, searchFake *fakeSearch) *RetrievalAugmentedAnswerer {
	return NewRetrievalAugmentedAnswerer(embedder, searchFake, "documents-staging", "documents", 5, 0, defaultAnswer)
}

func completionPrompt() *metadata.PromptConfig {
	return promptWith(completionPromptID, "gpt-4o",
		"Answer {question} using {context}", "question", "context")
}

func TestAnswerResolvesReferencesToLinks(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float64{0.1}}
	searchFake := &fakeSearch{hits: []search.Hit{
		{RerankerScore: 2.0, ChunkID: "c1", ChunkText: "testo", Filename: "doc.pdf"},
	}}
	backend := &fakeBackend{answer: &llm.AnswerPayload{
		Response:     "L'assegno unico spetta ai nuclei familiari.",
		References:   []int{1},
		FinishReason: "stop",
	}}

	final, err := newAnswerer(embedder, searchFake).Answer(
		context.Background(), "cos'è l'assegno unico?", []string{"auu"}, backend, completionPrompt(), "production")
	require.NoError(t, err)

	assert.Equal(t, []string{"doc.pdf"}, final.Links)
	assert.Equal(t, []int{1}, final.References)
	assert.Equal(t, "stop", final.FinishReason)
	require.Len(t, final.Evidence, 1)
	assert.Equal(t, "c1", final.Evidence[0].ChunkID)
}

func TestAnswerUnresolvableReferenceIsHardError(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float64{0.1}}
	searchFake := &fakeSearch{hits: []search.Hit{
		{RerankerScore: 2.0, ChunkID: "c1", ChunkText: "testo", Filename: "doc.pdf"},
	}}
	backend := &fakeBackend{answer: &llm.AnswerPayload{
		Response:   "risposta",
		References: []int{1, 7},
	}}

	_, err := newAnswerer(embedder, searchFake).Answer(
		context.Background(), "domanda", []string{"auu"}, backend, completionPrompt(), "production")
	require.ErrorIs(t, err, ErrUnresolvableReference)
}

func TestAnswerEmptyEvidenceSkipsCompletion(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float64{0.1}}
	searchFake := &fakeSearch{hits: []search.Hit{
		{RerankerScore: 0, ChunkID: "below-threshold"},
	}}
	backend := &fakeBackend{}

	final, err := newAnswerer(embedder, searchFake).Answer(
		context.Background(), "domanda", []string{"auu"}, backend, completionPrompt(), "production")
	require.NoError(t, err)

	assert.Equal(t, defaultAnswer, final.Answer)
	assert.Empty(t, final.Links)
	assert.Empty(t, final.References)
	assert.Empty(t, final.FinishReason)
	assert.Zero(t, backend.answerCalls, "completion backend must not be invoked")
}

func TestAnswerWithoutCitationsReturnsDefault(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float64{0.1}}
	searchFake := &fakeSearch{hits: []search.Hit{
		{RerankerScore: 2.0, ChunkID: "c1", ChunkText: "testo", Filename: "doc.pdf"},
	}}
	backend := &fakeBackend{answer: &llm.AnswerPayload{
		Response:     "prosa non verificabile",
		References:   nil,
		FinishReason: "stop",
	}}

	final, err := newAnswerer(embedder, searchFake).Answer(
		context.Background(), "domanda", []string{"auu"}, backend, completionPrompt(), "production")
	require.NoError(t, err)

	assert.Equal(t, defaultAnswer, final.Answer)
	assert.Empty(t, final.Links)
	assert.Empty(t, final.References)
}

func TestAnswerUnrecognizedEnvironment(t *testing.T) {
	embedder := &fakeEmbedder{}
	searchFake := &fakeSearch{}

	_, err := newAnswerer(embedder, searchFake).Answer(
		context.Background(), "domanda", []string{"auu"}, &fakeBackend{}, completionPrompt(), "qa")
	require.Error(t, err)

	var pipelineErr *PipelineError
	require.ErrorAs(t, err, &pipelineErr)
	assert.Equal(t, 400, pipelineErr.Status)
	assert.Zero(t, embedder.calls)
	assert.Zero(t, searchFake.calls)
}

func TestAnswerMissingPlaceholderFailsWith432(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float64{0.1}}
	searchFake := &fakeSearch{hits: []search.Hit{
		{RerankerScore: 2.0, ChunkID: "c1", ChunkText: "testo", Filename: "doc.pdf"},
	}}
	backend := &fakeBackend{}
	broken := promptWith(completionPromptID, "gpt-4o", "Answer {question}", "question", "context")

	_, err := newAnswerer(embedder, searchFake).Answer(
		context.Background(), "domanda", []string{"auu"}, backend, broken, "production")
	require.Error(t, err)

	var pipelineErr *PipelineError
	require.ErrorAs(t, err, &pipelineErr)
	assert.Equal(t, StatusInvalidCompletionPrompt, pipelineErr.Status)
	assert.Zero(t, backend.answerCalls)
}
