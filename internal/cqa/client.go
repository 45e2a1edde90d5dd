// Package cqa is the client for the curated question-answering backend that
// serves pre-authored, human-vetted answers.
package cqa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/opencitizen/welfare-assistant/internal/config"
	"github.com/opencitizen/welfare-assistant/internal/httpx"
)

// Result is the top-ranked curated answer for a question. Raw carries the
// full backend answer object for downstream auditing.
type Result struct {
	Answer     string
	Confidence float64
	Raw        json.RawMessage
}

type Client struct {
	endpoint string
	apiKey   string
	http     *httpx.Client
}

func NewClient(cfg *config.CQAConfig, retryCfg config.RetryConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     httpx.New(cfg.Timeout, retryCfg),
	}
}

type queryRequest struct {
	Question       string `json:"question"`
	ProjectName    string `json:"project_name"`
	DeploymentName string `json:"deployment_name"`
	RankerType     string `json:"ranker_type"`
}

type queryResponse struct {
	Answers []json.RawMessage `json:"answers"`
}

// Query asks the backend for the best pre-authored answer to question within
// the given project/deployment. Returns nil when the backend has none.
func (c *Client) Query(ctx context.Context, question, projectName, deploymentName string) (*Result, error) {
	var resp queryResponse
	err := c.http.DoJSON(ctx, http.MethodPost, c.endpoint+"/query",
		map[string]string{"api-key": c.apiKey},
		queryRequest{
			Question:       question,
			ProjectName:    projectName,
			DeploymentName: deploymentName,
			RankerType:     "QuestionOnly",
		},
		&resp,
	)
	if err != nil {
		return nil, fmt.Errorf("curated QA query failed: %w", err)
	}
	if len(resp.Answers) == 0 {
		return nil, nil
	}

	var top struct {
		Answer     string  `json:"answer"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal(resp.Answers[0], &top); err != nil {
		return nil, fmt.Errorf("decode curated answer: %w", err)
	}
	return &Result{
		Answer:     top.Answer,
		Confidence: top.Confidence,
		Raw:        resp.Answers[0],
	}, nil
}
