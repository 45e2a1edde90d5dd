package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/opencitizen/welfare-assistant/internal/llm"
	"github.com/opencitizen/welfare-assistant/internal/metadata"
	"github.com/opencitizen/welfare-assistant/internal/search"
)

// FinalAnswer is the outcome of one retrieval-augmented completion.
type FinalAnswer struct {
	Answer       string
	Links        []string
	References   []int
	FinishReason string
	Evidence     []EvidenceItem
}

// RetrievalAugmentedAnswerer fetches embeddings and search results for a
// standalone question, builds the evidence context, invokes the completion
// backend and reconciles its citations against the evidence.
//
// The embedder is fixed: embeddings always come from the designated backend
// regardless of which backend produces the completion.
type RetrievalAugmentedAnswerer struct {
	embedder           llm.Embedder
	search             SearchProvider
	stagingIndex       string
	productionIndex    string
	topK               int
	relevanceThreshold float64
	defaultAnswer      string
}

func NewRetrievalAugmentedAnswerer(embedder llm.Embedder, searchClient SearchProvider, stagingIndex, productionIndex string, topK int, relevanceThreshold float64, defaultAnswer string) *RetrievalAugmentedAnswerer {
	return &RetrievalAugmentedAnswerer{
		embedder:           embedder,
		search:             searchClient,
		stagingIndex:       stagingIndex,
		productionIndex:    productionIndex,
		topK:               topK,
		relevanceThreshold: relevanceThreshold,
		defaultAnswer:      defaultAnswer,
	}
}

func (r *RetrievalAugmentedAnswerer) indexFor(environment string) (string, error) {
	switch environment {
	case "staging":
		return r.stagingIndex, nil
	case "production":
		return r.productionIndex, nil
	default:
		return "", newConfigError(http.StatusBadRequest, "unrecognized environment %q", environment)
	}
}

func (r *RetrievalAugmentedAnswerer) Answer(ctx context.Context, question string, tags []string, backend llm.Backend, promptCfg *metadata.PromptConfig, environment string) (*FinalAnswer, error) {
	indexName, err := r.indexFor(environment)
	if err != nil {
		return nil, err
	}

	embedding, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := r.search.Search(ctx, search.Params{
		Query:     question,
		Embedding: embedding,
		Tags:      tags,
		IndexName: indexName,
		TopK:      r.topK,
	})
	if err != nil {
		return nil, err
	}

	evidence := BuildContext(hits, r.relevanceThreshold)
	if len(evidence) == 0 {
		slog.Info("no evidence survived relevance filter, skipping completion", "question", question)
		return &FinalAnswer{
			Answer:     r.defaultAnswer,
			Links:      []string{},
			References: []int{},
		}, nil
	}

	prompt, err := renderPrompt(promptCfg, map[string]string{
		"question": question,
		"context":  serializeEvidence(evidence),
	}, StatusInvalidCompletionPrompt)
	if err != nil {
		return nil, err
	}

	payload, err := backend.GenerateAnswer(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	// An answer without grounded citations is not trusted, whatever prose
	// the model produced.
	if len(payload.References) == 0 {
		slog.Warn("completion carried no references, returning default answer")
		return &FinalAnswer{
			Answer:       r.defaultAnswer,
			Links:        []string{},
			References:   []int{},
			FinishReason: payload.FinishReason,
			Evidence:     evidence,
		}, nil
	}

	links, err := reconcileReferences(payload.References, evidence)
	if err != nil {
		return nil, err
	}

	return &FinalAnswer{
		Answer:       payload.Response,
		Links:        links,
		References:   payload.References,
		FinishReason: payload.FinishReason,
		Evidence:     evidence,
	}, nil
}

// reconcileReferences maps each cited reference number to its evidence item's
// filename. A citation that resolves to nothing is a data-integrity error.
func reconcileReferences(references []int, evidence []EvidenceItem) ([]string, error) {
	byRef := make(map[int]EvidenceItem, len(evidence))
	for _, item := range evidence {
		byRef[item.Reference] = item
	}

	links := make([]string, 0, len(references))
	for _, ref := range references {
		if item, ok := byRef[ref]; ok {
			links = append(links, item.Filename)
		}
	}
	if len(links) != len(references) {
		return nil, fmt.Errorf("%w: cited %v against %d evidence items", ErrUnresolvableReference, references, len(evidence))
	}
	return links, nil
}
