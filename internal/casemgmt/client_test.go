package casemgmt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencitizen/welfare-assistant/internal/config"
)

func testClient(endpoint string) *Client {
	return NewClient(&config.CaseMgmtConfig{
		Endpoint: endpoint,
		Timeout:  time.Second,
	}, config.RetryConfig{MaxAttempts: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond})
}

func TestGetApplicationsByFiscalCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/applications", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.Equal(t, "RSSMRA80A01H501U", r.URL.Query().Get("fiscal_code"))
		assert.Equal(t, "AUU", r.URL.Query().Get("app_type"))
		assert.Equal(t, "active", r.URL.Query().Get("status"))

		json.NewEncoder(w).Encode(map[string]any{
			"applications": []map[string]any{{
				"case_number":    "42",
				"instance_seq":   1,
				"procedure_code": "AUU-01",
				"status":         "in lavorazione",
			}},
		})
	}))
	defer srv.Close()

	apps, err := testClient(srv.URL).GetApplicationsByFiscalCode(
		context.Background(), "RSSMRA80A01H501U", "token-123", "AUU", "active")
	require.NoError(t, err)

	require.Len(t, apps, 1)
	assert.Equal(t, "42", apps[0].CaseNumber)
	assert.Equal(t, "AUU-01", apps[0].ProcedureCode)
}

func TestGetApplicationDetailsStaysOpaque(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/applications/42/1", r.URL.Path)
		w.Write([]byte(`{"status":"in lavorazione","custom_field":"x"}`))
	}))
	defer srv.Close()

	details, err := testClient(srv.URL).GetApplicationDetails(context.Background(), "42", 1, "token-123")
	require.NoError(t, err)
	assert.Contains(t, string(details), "custom_field")
}
