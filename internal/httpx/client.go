// Package httpx wraps net/http with the retry policy shared by every
// downstream REST client: exponential backoff on 429/5xx/connection errors,
// honoring a server-supplied Retry-After hint when present.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/opencitizen/welfare-assistant/internal/config"
)

// StatusError is a non-2xx response from a downstream service.
type StatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the response indicates a transient condition.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type Client struct {
	http        *http.Client
	maxAttempts uint
	baseDelay   time.Duration
	maxDelay    time.Duration
}

func New(timeout time.Duration, retryCfg config.RetryConfig) *Client {
	return &Client{
		http:        &http.Client{Timeout: timeout},
		maxAttempts: uint(retryCfg.MaxAttempts),
		baseDelay:   retryCfg.BaseDelay,
		maxDelay:    retryCfg.MaxDelay,
	}
}

// DoJSON sends a JSON request and decodes a JSON response into out (skipped
// when out is nil). The request body is re-marshaled on every attempt. Non-2xx
// responses surface as *StatusError; retries are exhausted before returning.
func (c *Client) DoJSON(ctx context.Context, method, url string, headers map[string]string, body any, out any) error {
	return retry.Do(
		func() error {
			return c.doOnce(ctx, method, url, headers, body, out)
		},
		retry.Context(ctx),
		retry.Attempts(c.maxAttempts),
		retry.Delay(c.baseDelay),
		retry.MaxDelay(c.maxDelay),
		retry.DelayType(c.delayFor),
		retry.RetryIf(isTransient),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			slog.Warn("retrying downstream call", "method", method, "url", url, "attempt", attempt+1, "error", err)
		}),
	)
}

func (c *Client) doOnce(ctx context.Context, method, url string, headers map[string]string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return retry.Unrecoverable(fmt.Errorf("marshal request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return retry.Unrecoverable(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retry.Unrecoverable(fmt.Errorf("decode response body: %w", err))
	}
	return nil
}

// delayFor prefers the server's Retry-After hint over computed backoff.
func (c *Client) delayFor(n uint, err error, cfg *retry.Config) time.Duration {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.RetryAfter > 0 {
		if statusErr.RetryAfter > c.maxDelay {
			return c.maxDelay
		}
		return statusErr.RetryAfter
	}
	return retry.BackOffDelay(n, err, cfg)
}

func isTransient(err error) bool {
	if !retry.IsRecoverable(err) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	// connection failures and timeouts arrive as transport errors
	return true
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
