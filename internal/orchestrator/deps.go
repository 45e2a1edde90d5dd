package orchestrator

import (
	"context"
	"encoding/json"

	"github.com/opencitizen/welfare-assistant/internal/casemgmt"
	"github.com/opencitizen/welfare-assistant/internal/cqa"
	"github.com/opencitizen/welfare-assistant/internal/llm"
	"github.com/opencitizen/welfare-assistant/internal/metadata"
	"github.com/opencitizen/welfare-assistant/internal/search"
)

// Collaborator handles are injected behind these interfaces so the pipeline
// never reaches for ambient clients and every stage can be faked in tests.

type SearchProvider interface {
	Search(ctx context.Context, p search.Params) ([]search.Hit, error)
}

type CuratedProvider interface {
	Query(ctx context.Context, question, projectName, deploymentName string) (*cqa.Result, error)
}

type CaseProvider interface {
	GetApplicationsByFiscalCode(ctx context.Context, fiscalCode, token, appTypeCode, statusFilter string) ([]casemgmt.Application, error)
	GetApplicationDetails(ctx context.Context, caseNumber string, instanceSeq int, token string) (json.RawMessage, error)
}

type MetadataProvider interface {
	GetTagInfo(ctx context.Context, tagNames []string) ([]metadata.TagInfo, error)
	GetPromptConfig(ctx context.Context, promptID, version string) (*metadata.PromptConfig, error)
	CQAProjectForTopic(ctx context.Context, topic string) (*metadata.CQAProject, error)
	ApplicationTypeForTag(ctx context.Context, tag string) (*metadata.ApplicationType, error)
}

type BackendSelector interface {
	ForModel(modelID string) llm.Backend
}
