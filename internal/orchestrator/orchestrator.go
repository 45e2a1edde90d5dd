// Package orchestrator implements the query pipeline: curated-answer lookup,
// query enrichment, the optional application-status sub-flow, and
// retrieval-augmented completion, with curated answers always taking
// precedence over generated ones.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/opencitizen/welfare-assistant/apimodels"
	"github.com/opencitizen/welfare-assistant/internal/metadata"
)

// Prompt definition types resolvable through a request's prompt_refs.
const (
	PromptEnrichment       = "enrichment"
	PromptCompletion       = "completion"
	PromptStatusIntent     = "status_intent"
	PromptStatusCompletion = "status_completion"
)

type Orchestrator struct {
	meta     MetadataProvider
	curated  *CuratedAnswerService
	enricher *QueryEnricher
	rag      *RetrievalAugmentedAnswerer
	status   *ApplicationStatusFlow
	backends BackendSelector

	// defaultTermination is shown when enrichment ends the conversation
	// without supplying its own reason.
	defaultTermination string
}

func New(meta MetadataProvider, curated *CuratedAnswerService, enricher *QueryEnricher, rag *RetrievalAugmentedAnswerer, status *ApplicationStatusFlow, backends BackendSelector, defaultTermination string) *Orchestrator {
	return &Orchestrator{
		meta:               meta,
		curated:            curated,
		enricher:           enricher,
		rag:                rag,
		status:             status,
		backends:           backends,
		defaultTermination: defaultTermination,
	}
}

// NormalizeQuery appends the supplementary card text to the question and
// lowercases the result. Idempotent: re-applying it to its own output with
// empty card text yields the same string.
func NormalizeQuery(query, cardText string) string {
	combined := query
	if cardText != "" {
		combined = combined + " " + cardText
	}
	return strings.ToLower(combined)
}

// HandleQuery runs one full orchestration. The request is never mutated; the
// rewritten standalone question is threaded explicitly through later stages.
func (o *Orchestrator) HandleQuery(ctx context.Context, req *apimodels.QueryRequest) (*apimodels.OrchestrationResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	startTime := time.Now()

	question := NormalizeQuery(req.Query, req.CardText)
	topic := req.Tags[0]

	tagInfo, err := o.resolveTag(ctx, req.Tags, topic)
	if err != nil {
		return nil, err
	}

	// curated first pass: vetted answers beat everything else
	if tagInfo.EnableCuratedQA {
		hit, err := o.curated.TryAnswer(ctx, question, topic)
		if err != nil {
			return nil, err
		}
		if hit != nil {
			slog.Info("curated answer accepted", "topic", topic, "curated_pass", 1, "duration", time.Since(startTime))
			return &apimodels.OrchestrationResult{
				AnswerText: hit.Text,
				CuratedAnswer: &apimodels.CuratedAnswerPayload{
					Text:      hit.Text,
					Auxiliary: hit.Auxiliary,
				},
			}, nil
		}
	}

	prompts, err := o.fetchPromptConfigs(ctx, req, tagInfo)
	if err != nil {
		return nil, err
	}
	backend := o.backends.ForModel(req.LlmModelID)

	standalone := question
	enriched := false
	if tagInfo.EnableEnrichment {
		result, err := o.enricher.Enrich(ctx, backend, prompts[PromptEnrichment], question, topic, req.Interactions)
		if err != nil {
			return nil, err
		}
		if result.Terminated {
			reason := result.Reason
			if reason == "" {
				reason = o.defaultTermination
			}
			slog.Info("conversation terminated during enrichment", "topic", topic)
			return &apimodels.OrchestrationResult{AnswerText: reason}, nil
		}
		standalone = result.StandaloneQuestion
		enriched = true
	}

	// curated second pass, only when enrichment actually rewrote the question
	if enriched && standalone != question && tagInfo.EnableCuratedQA {
		hit, err := o.curated.TryAnswer(ctx, standalone, topic)
		if err != nil {
			return nil, err
		}
		if hit != nil {
			slog.Info("curated answer accepted", "topic", topic, "curated_pass", 2, "duration", time.Since(startTime))
			return &apimodels.OrchestrationResult{
				AnswerText:         hit.Text,
				StandaloneQuestion: standalone,
				CuratedAnswer: &apimodels.CuratedAnswerPayload{
					Text:       hit.Text,
					SecondPass: true,
					Auxiliary:  hit.Auxiliary,
				},
			}, nil
		}
	}

	// status-flow gate
	if tagInfo.StatusMonitoringQuestionID != "" {
		outcome, err := o.status.Run(ctx, req, standalone, topic, backend, prompts[PromptStatusIntent], prompts[PromptStatusCompletion])
		if err != nil {
			return nil, err
		}
		if !outcome.FallThrough {
			slog.Info("status flow produced terminal event", "event", outcome.Event, "duration", time.Since(startTime))
			return &apimodels.OrchestrationResult{
				StandaloneQuestion: standalone,
				MonitorFormApplication: &apimodels.MonitorFormPayload{
					Event:        outcome.Event,
					AnswerText:   outcome.AnswerText,
					Applications: outcome.Applications,
				},
			}, nil
		}
	}

	final, err := o.rag.Answer(ctx, standalone, req.Tags, backend, prompts[PromptCompletion], req.Environment)
	if err != nil {
		return nil, err
	}

	slog.Info("completion answered", "topic", topic, "references", len(final.References), "duration", time.Since(startTime))
	return &apimodels.OrchestrationResult{
		AnswerText:         final.Answer,
		StandaloneQuestion: standalone,
		LlmAnswer: &apimodels.LlmAnswerPayload{
			Text:         final.Answer,
			Links:        final.Links,
			References:   final.References,
			FinishReason: final.FinishReason,
			Evidence:     evidenceToAPI(final.Evidence),
		},
	}, nil
}

func validateRequest(req *apimodels.QueryRequest) error {
	switch {
	case strings.TrimSpace(req.Query) == "":
		return newConfigError(http.StatusBadRequest, "query cannot be empty")
	case len(req.Tags) == 0:
		return newConfigError(http.StatusBadRequest, "at least one tag is required")
	case req.LlmModelID == "":
		return newConfigError(http.StatusBadRequest, "llm_model_id is required")
	case req.Environment == "":
		return newConfigError(http.StatusBadRequest, "environment is required")
	}
	return nil
}

func (o *Orchestrator) resolveTag(ctx context.Context, tags []string, topic string) (*metadata.TagInfo, error) {
	infos, err := o.meta.GetTagInfo(ctx, tags)
	if err != nil {
		return nil, fmt.Errorf("resolve tag metadata: %w", err)
	}
	for i := range infos {
		if infos[i].Name == topic {
			return &infos[i], nil
		}
	}
	return nil, newConfigError(http.StatusBadRequest, "unknown tag %q", topic)
}

// fetchPromptConfigs resolves the versioned prompt definitions named by the
// request and checks that the enrichment and completion definitions were
// authored for the requested backend. A mismatch is a configuration error,
// never a silent override.
func (o *Orchestrator) fetchPromptConfigs(ctx context.Context, req *apimodels.QueryRequest, tagInfo *metadata.TagInfo) (map[string]*metadata.PromptConfig, error) {
	refs := make(map[string]apimodels.PromptRef, len(req.PromptRefs))
	for _, ref := range req.PromptRefs {
		refs[ref.Type] = ref
	}

	prompts := make(map[string]*metadata.PromptConfig)
	required := []string{PromptEnrichment, PromptCompletion}
	if tagInfo.StatusMonitoringQuestionID != "" {
		required = append(required, PromptStatusIntent, PromptStatusCompletion)
	}

	for _, promptType := range required {
		ref, ok := refs[promptType]
		if !ok {
			// the tag's status monitoring question doubles as the
			// intent prompt when the request doesn't pin one
			if promptType == PromptStatusIntent {
				ref = apimodels.PromptRef{Type: promptType, ID: tagInfo.StatusMonitoringQuestionID}
			} else {
				return nil, newConfigError(http.StatusBadRequest, "missing prompt reference for type %q", promptType)
			}
		}
		cfg, err := o.meta.GetPromptConfig(ctx, ref.ID, ref.Version)
		if err != nil {
			return nil, fmt.Errorf("fetch %s prompt: %w", promptType, err)
		}
		prompts[promptType] = cfg
	}

	for _, promptType := range []string{PromptEnrichment, PromptCompletion} {
		if model := prompts[promptType].LlmModel; model != req.LlmModelID {
			return nil, newConfigError(http.StatusBadRequest,
				"requested model %q does not match %s prompt model %q", req.LlmModelID, promptType, model)
		}
	}
	return prompts, nil
}

func evidenceToAPI(items []EvidenceItem) []apimodels.Evidence {
	out := make([]apimodels.Evidence, len(items))
	for i, item := range items {
		out[i] = apimodels.Evidence{
			Reference: item.Reference,
			ChunkID:   item.ChunkID,
			Text:      item.Text,
			Filename:  item.Filename,
			Caption:   item.Caption,
			Score:     item.Score,
			Tags:      item.Tags,
		}
	}
	return out
}
