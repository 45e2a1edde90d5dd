// Package metadata reads tag and prompt configuration from the shared
// Postgres database. The data is owned and refreshed by the back-office
// tooling; this provider only reads, and caches the small lookup tables that
// change rarely.
package metadata

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opencitizen/welfare-assistant/internal/config"
)

// TagInfo carries the per-tag feature flags driving the pipeline.
type TagInfo struct {
	Name                       string
	Description                string
	EnableCuratedQA            bool
	EnableEnrichment           bool
	StatusMonitoringQuestionID string
}

// PromptMessage is one templated message of a prompt definition.
type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ModelParams are the generation settings stored with a prompt definition.
type ModelParams struct {
	TopP        float64  `json:"top_p"`
	Temperature float64  `json:"temperature"`
	MaxTokens   int64    `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// PromptConfig is one versioned prompt definition.
type PromptConfig struct {
	ID                 string
	Version            string
	LlmModel           string
	Messages           []PromptMessage
	RequiredParameters []string
	ModelParameters    ModelParams
}

// CQAProject maps a topic to its curated-QA project/deployment pair.
type CQAProject struct {
	ProjectName    string
	DeploymentName string
}

// ApplicationType maps a tag to the case-management codes used by the
// application-status flow.
type ApplicationType struct {
	AppTypeCode   string
	ProcedureCode string
	StatusFilter  string
}

type Provider struct {
	pool         *pgxpool.Pool
	cqaCache     *lru.Cache[string, *CQAProject]
	appTypeCache *lru.Cache[string, *ApplicationType]
}

func NewProvider(ctx context.Context, cfg *config.MetadataConfig) (*Provider, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect metadata database: %w", err)
	}

	cqaCache, err := lru.New[string, *CQAProject](cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	appTypeCache, err := lru.New[string, *ApplicationType](cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Provider{
		pool:         pool,
		cqaCache:     cqaCache,
		appTypeCache: appTypeCache,
	}, nil
}

func (p *Provider) Close() {
	p.pool.Close()
}

// GetTagInfo returns metadata for the named tags. Unknown names are simply
// absent from the result.
func (p *Provider) GetTagInfo(ctx context.Context, tagNames []string) ([]TagInfo, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT name, description, enable_curated_qa, enable_enrichment,
		       COALESCE(status_monitoring_question_id, '')
		FROM tags
		WHERE name = ANY($1)`, tagNames)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var infos []TagInfo
	for rows.Next() {
		var info TagInfo
		if err := rows.Scan(&info.Name, &info.Description, &info.EnableCuratedQA,
			&info.EnableEnrichment, &info.StatusMonitoringQuestionID); err != nil {
			return nil, fmt.Errorf("scan tag row: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// GetPromptConfig resolves a prompt definition, pinned to version when
// non-empty, otherwise the latest version.
func (p *Provider) GetPromptConfig(ctx context.Context, promptID, version string) (*PromptConfig, error) {
	query := `
		SELECT id, version, llm_model, messages, required_parameters, model_parameters
		FROM prompts
		WHERE id = $1`
	args := []any{promptID}
	if version != "" {
		query += ` AND version = $2`
		args = append(args, version)
	} else {
		query += ` ORDER BY version DESC LIMIT 1`
	}

	cfg := &PromptConfig{}
	err := p.pool.QueryRow(ctx, query, args...).Scan(
		&cfg.ID, &cfg.Version, &cfg.LlmModel,
		&cfg.Messages, &cfg.RequiredParameters, &cfg.ModelParameters)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("prompt %q version %q not found", promptID, version)
	}
	if err != nil {
		return nil, fmt.Errorf("query prompt %q: %w", promptID, err)
	}
	return cfg, nil
}

// CQAProjectForTopic maps a topic to its curated-QA project. Returns nil with
// no error when the topic has no mapping.
func (p *Provider) CQAProjectForTopic(ctx context.Context, topic string) (*CQAProject, error) {
	if cached, ok := p.cqaCache.Get(topic); ok {
		return cached, nil
	}

	proj := &CQAProject{}
	err := p.pool.QueryRow(ctx, `
		SELECT project_name, deployment_name
		FROM cqa_projects
		WHERE topic = $1`, topic).Scan(&proj.ProjectName, &proj.DeploymentName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query cqa project for topic %q: %w", topic, err)
	}

	p.cqaCache.Add(topic, proj)
	return proj, nil
}

// ApplicationTypeForTag maps a tag to its case-management codes. Returns nil
// with no error when the tag has no mapping.
func (p *Provider) ApplicationTypeForTag(ctx context.Context, tag string) (*ApplicationType, error) {
	if cached, ok := p.appTypeCache.Get(tag); ok {
		return cached, nil
	}

	appType := &ApplicationType{}
	err := p.pool.QueryRow(ctx, `
		SELECT app_type_code, procedure_code, COALESCE(status_filter, '')
		FROM application_types
		WHERE tag = $1`, tag).Scan(&appType.AppTypeCode, &appType.ProcedureCode, &appType.StatusFilter)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query application type for tag %q: %w", tag, err)
	}

	p.appTypeCache.Add(tag, appType)
	return appType, nil
}
