package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opencitizen/welfare-assistant/apimodels"
	"github.com/opencitizen/welfare-assistant/internal/llm"
	"github.com/opencitizen/welfare-assistant/internal/metadata"
)

// EnrichmentResult is the explicit outcome of a query rewrite. When
// Terminated is set the standalone question must not be used; Reason, when
// non-empty, is shown to the user verbatim.
type EnrichmentResult struct {
	StandaloneQuestion string
	Terminated         bool
	Reason             string
}

// QueryEnricher rewrites a raw question plus conversation history into a
// standalone question.
type QueryEnricher struct {
	contentFilteredMessage string
}

func NewQueryEnricher(contentFilteredMessage string) *QueryEnricher {
	return &QueryEnricher{contentFilteredMessage: contentFilteredMessage}
}

// Enrich runs the rewrite prompt. Content-filter rejections (400-class) and
// connectivity failures from the backend are contained as a graceful
// conversation termination rather than propagated; other failures propagate.
func (e *QueryEnricher) Enrich(ctx context.Context, backend llm.Backend, promptCfg *metadata.PromptConfig, question, topic string, history []apimodels.Interaction) (*EnrichmentResult, error) {
	prompt, err := renderPrompt(promptCfg, map[string]string{
		"question":     question,
		"topic":        topic,
		"chat_history": formatHistory(history),
	}, StatusInvalidEnrichmentPrompt)
	if err != nil {
		return nil, err
	}

	payload, err := backend.GenerateEnrichment(ctx, prompt)
	if err != nil {
		if llm.IsContentFiltered(err) || llm.IsConnectivity(err) {
			slog.Warn("enrichment rejected, terminating conversation", "backend", backend.Name(), "error", err)
			return &EnrichmentResult{
				Terminated: true,
				Reason:     e.contentFilteredMessage,
			}, nil
		}
		return nil, fmt.Errorf("enrichment failed: %w", err)
	}

	if payload.EndConversation {
		return &EnrichmentResult{Terminated: true}, nil
	}
	return &EnrichmentResult{StandaloneQuestion: payload.StandaloneQuestion}, nil
}
