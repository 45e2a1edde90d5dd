// Package search is the client for the document index service. The index is
// externally owned; this client only speaks its hybrid-search contract.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/opencitizen/welfare-assistant/internal/config"
	"github.com/opencitizen/welfare-assistant/internal/httpx"
)

// Hit is one raw search result before relevance filtering.
type Hit struct {
	Score         float64   `json:"score"`
	RerankerScore float64   `json:"reranker_score"`
	Captions      []Caption `json:"captions"`
	ChunkID       string    `json:"chunk_id"`
	ChunkText     string    `json:"chunk_text"`
	Filename      string    `json:"filename"`
	Tags          []string  `json:"tags"`
}

type Caption struct {
	Text string `json:"text"`
}

// Params is one hybrid query: full text plus its embedding, restricted to
// documents whose tag set intersects Tags. IndexName is decided by the caller
// (staging vs production).
type Params struct {
	Query     string
	Embedding []float64
	Tags      []string
	IndexName string
	TopK      int
}

type Client struct {
	endpoint string
	apiKey   string
	http     *httpx.Client
}

func NewClient(cfg *config.SearchConfig, retryCfg config.RetryConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     httpx.New(cfg.Timeout, retryCfg),
	}
}

type searchRequest struct {
	Query     string    `json:"query"`
	Embedding []float64 `json:"embedding,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Top       int       `json:"top,omitempty"`
	// Semantic asks the index to rerank results with its semantic ranker;
	// hits then carry a reranker score alongside the retrieval score.
	Semantic bool `json:"semantic"`
}

type searchResponse struct {
	Results []Hit `json:"results"`
}

func (c *Client) Search(ctx context.Context, p Params) ([]Hit, error) {
	if p.IndexName == "" {
		return nil, fmt.Errorf("search index name cannot be empty")
	}

	reqURL := fmt.Sprintf("%s/indexes/%s/search", c.endpoint, url.PathEscape(p.IndexName))
	var resp searchResponse
	err := c.http.DoJSON(ctx, http.MethodPost, reqURL,
		map[string]string{"api-key": c.apiKey},
		searchRequest{
			Query:     p.Query,
			Embedding: p.Embedding,
			Tags:      p.Tags,
			Top:       p.TopK,
			Semantic:  true,
		},
		&resp,
	)
	if err != nil {
		return nil, fmt.Errorf("index query failed: %w", err)
	}

	slog.Debug("search completed", "index", p.IndexName, "hits", len(resp.Results))
	return resp.Results, nil
}
