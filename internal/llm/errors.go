package llm

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/openai/openai-go"
)

// IsContentFiltered reports whether a backend failure is a 400-class API
// rejection, which the chat deployments use for content-filter blocks.
func IsContentFiltered(err error) bool {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return apierr.StatusCode >= 400 && apierr.StatusCode < 500
	}
	return false
}

// IsConnectivity reports whether a backend failure is a transport-level
// problem (DNS, refused connection, timeout) rather than an API error.
func IsConnectivity(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
