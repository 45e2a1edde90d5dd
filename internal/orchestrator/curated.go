package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tidwall/sjson"
)

// CuratedAnswer is a pre-authored answer accepted by the curated-QA backend.
// Auxiliary is the raw answer object with the duplicated answer text removed.
type CuratedAnswer struct {
	Text      string
	Auxiliary json.RawMessage
}

// CuratedAnswerService looks up pre-authored answers for a question within a
// topic. A missing topic mapping or a low-confidence match yields no answer;
// a backend failure is a real failure and propagates.
type CuratedAnswerService struct {
	meta                MetadataProvider
	cqa                 CuratedProvider
	confidenceThreshold float64
	noResultSentinel    string
}

func NewCuratedAnswerService(meta MetadataProvider, cqaClient CuratedProvider, confidenceThreshold float64, noResultSentinel string) *CuratedAnswerService {
	return &CuratedAnswerService{
		meta:                meta,
		cqa:                 cqaClient,
		confidenceThreshold: confidenceThreshold,
		noResultSentinel:    noResultSentinel,
	}
}

func (s *CuratedAnswerService) TryAnswer(ctx context.Context, question, topic string) (*CuratedAnswer, error) {
	project, err := s.meta.CQAProjectForTopic(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("resolve curated QA project: %w", err)
	}
	if project == nil {
		slog.Info("no curated QA project mapped for topic", "topic", topic)
		return nil, nil
	}

	result, err := s.cqa.Query(ctx, question, project.ProjectName, project.DeploymentName)
	if err != nil {
		return nil, err
	}
	if result == nil || result.Answer == s.noResultSentinel || result.Confidence < s.confidenceThreshold {
		return nil, nil
	}

	auxiliary, err := sjson.DeleteBytes(result.Raw, "answer")
	if err != nil {
		return nil, fmt.Errorf("strip answer from curated payload: %w", err)
	}
	return &CuratedAnswer{
		Text:      result.Answer,
		Auxiliary: auxiliary,
	}, nil
}
