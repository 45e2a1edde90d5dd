package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/opencitizen/welfare-assistant/apimodels"
	"github.com/opencitizen/welfare-assistant/internal/casemgmt"
	"github.com/opencitizen/welfare-assistant/internal/llm"
	"github.com/opencitizen/welfare-assistant/internal/metadata"
)

// Terminal events of the application-status flow.
const (
	EventNotAuthenticated = "user_not_authenticated"
	EventShowAnswerText   = "show_answer_text"
	EventShowAnswerList   = "show_answer_list"
)

// intentOther is the classifier's fallback intent; anything else is treated
// as a status-check intent.
const intentOther = "other"

// StatusOutcome is the result of one status-flow run. FallThrough means the
// flow declined to answer and the pipeline continues to retrieval.
type StatusOutcome struct {
	FallThrough  bool
	Event        string
	AnswerText   string
	Applications json.RawMessage
}

// ApplicationStatusFlow answers "what is the status of my application" by
// querying the case-management system instead of the document index.
type ApplicationStatusFlow struct {
	meta  MetadataProvider
	cases CaseProvider
}

func NewApplicationStatusFlow(meta MetadataProvider, cases CaseProvider) *ApplicationStatusFlow {
	return &ApplicationStatusFlow{meta: meta, cases: cases}
}

func (f *ApplicationStatusFlow) Run(ctx context.Context, req *apimodels.QueryRequest, question, topic string, backend llm.Backend, intentPrompt, statusPrompt *metadata.PromptConfig) (*StatusOutcome, error) {
	intent, err := f.classifyIntent(ctx, backend, intentPrompt, question)
	if err != nil {
		return nil, err
	}
	if intent == intentOther {
		return &StatusOutcome{FallThrough: true}, nil
	}
	slog.Info("status-check intent recognized", "intent", intent)

	if req.Token == "" && req.UserFiscalCode == "" {
		return &StatusOutcome{Event: EventNotAuthenticated}, nil
	}

	appType, err := f.meta.ApplicationTypeForTag(ctx, topic)
	if err != nil {
		return nil, err
	}
	if appType == nil {
		slog.Warn("no application type mapped for tag, falling through", "tag", topic)
		return &StatusOutcome{FallThrough: true}, nil
	}

	applications, err := f.cases.GetApplicationsByFiscalCode(ctx, req.UserFiscalCode, req.Token, appType.AppTypeCode, appType.StatusFilter)
	if err != nil {
		return nil, err
	}
	matches := filterByProcedure(applications, appType.ProcedureCode)

	switch len(matches) {
	case 0:
		// nothing to monitor, answer normally
		return &StatusOutcome{FallThrough: true}, nil
	case 1:
		return f.answerSingle(ctx, req, question, backend, statusPrompt, matches[0])
	default:
		serialized, err := json.Marshal(matches)
		if err != nil {
			return nil, fmt.Errorf("serialize candidate applications: %w", err)
		}
		return &StatusOutcome{Event: EventShowAnswerList, Applications: serialized}, nil
	}
}

func (f *ApplicationStatusFlow) classifyIntent(ctx context.Context, backend llm.Backend, intentPrompt *metadata.PromptConfig, question string) (string, error) {
	prompt, err := renderPrompt(intentPrompt, map[string]string{
		"question": question,
	}, StatusInvalidCompletionPrompt)
	if err != nil {
		return "", err
	}
	intent, err := backend.ClassifyIntent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("intent classification failed: %w", err)
	}
	return intent, nil
}

func (f *ApplicationStatusFlow) answerSingle(ctx context.Context, req *apimodels.QueryRequest, question string, backend llm.Backend, statusPrompt *metadata.PromptConfig, app casemgmt.Application) (*StatusOutcome, error) {
	details, err := f.cases.GetApplicationDetails(ctx, app.CaseNumber, app.InstanceSeq, req.Token)
	if err != nil {
		return nil, err
	}

	prompt, err := renderPrompt(statusPrompt, map[string]string{
		"question":    question,
		"application": string(details),
	}, StatusInvalidCompletionPrompt)
	if err != nil {
		return nil, err
	}

	payload, err := backend.ApplicationStatusAnswer(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("status completion failed: %w", err)
	}
	if !payload.HasAnswer {
		return &StatusOutcome{FallThrough: true}, nil
	}
	return &StatusOutcome{Event: EventShowAnswerText, AnswerText: payload.Answer}, nil
}

func filterByProcedure(applications []casemgmt.Application, procedureCode string) []casemgmt.Application {
	matches := make([]casemgmt.Application, 0, len(applications))
	for _, app := range applications {
		if app.ProcedureCode == procedureCode {
			matches = append(matches, app)
		}
	}
	return matches
}
