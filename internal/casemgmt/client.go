// Package casemgmt is the client for the external case-management system
// holding citizens' benefit applications.
package casemgmt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/opencitizen/welfare-assistant/internal/config"
	"github.com/opencitizen/welfare-assistant/internal/httpx"
)

// Application is one submitted benefit application, as listed by the
// case-management search endpoint.
type Application struct {
	CaseNumber     string `json:"case_number"`
	InstanceSeq    int    `json:"instance_seq"`
	ProtocolNumber string `json:"protocol_number"`
	ProcedureCode  string `json:"procedure_code"`
	Status         string `json:"status"`
	SubmittedAt    string `json:"submitted_at,omitempty"`
}

type Client struct {
	endpoint string
	apiKey   string
	http     *httpx.Client
}

func NewClient(cfg *config.CaseMgmtConfig, retryCfg config.RetryConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     httpx.New(cfg.Timeout, retryCfg),
	}
}

func (c *Client) headers(token string) map[string]string {
	h := map[string]string{"Authorization": "Bearer " + token}
	if c.apiKey != "" {
		h["api-key"] = c.apiKey
	}
	return h
}

type applicationsResponse struct {
	Applications []Application `json:"applications"`
}

// GetApplicationsByFiscalCode lists a citizen's applications of the given
// application type, optionally narrowed by status.
func (c *Client) GetApplicationsByFiscalCode(ctx context.Context, fiscalCode, token, appTypeCode, statusFilter string) ([]Application, error) {
	q := url.Values{}
	q.Set("fiscal_code", fiscalCode)
	q.Set("app_type", appTypeCode)
	if statusFilter != "" {
		q.Set("status", statusFilter)
	}

	var resp applicationsResponse
	err := c.http.DoJSON(ctx, http.MethodGet, c.endpoint+"/applications?"+q.Encode(), c.headers(token), nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("application lookup failed: %w", err)
	}
	return resp.Applications, nil
}

// GetApplicationDetails fetches the full status record of one application.
// The shape is owned by the case-management system, so it stays opaque here
// and is handed to the status-completion prompt as-is.
func (c *Client) GetApplicationDetails(ctx context.Context, caseNumber string, instanceSeq int, token string) (json.RawMessage, error) {
	reqURL := fmt.Sprintf("%s/applications/%s/%d", c.endpoint, url.PathEscape(caseNumber), instanceSeq)

	var details json.RawMessage
	err := c.http.DoJSON(ctx, http.MethodGet, reqURL, c.headers(token), nil, &details)
	if err != nil {
		return nil, fmt.Errorf("application details fetch failed: %w", err)
	}
	return details, nil
}
