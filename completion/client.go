// Package completion provides the HTTP client for the text-completion
// gateway and a generic structured-completion helper that consolidates the
// retry-and-salvage shape shared by every model-backed flow.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/medivoice/medivoice-api/interfaces"
	"github.com/medivoice/medivoice-api/logging"
	"github.com/medivoice/medivoice-api/metrics"
)

// ErrTimeout reports that the gateway did not answer within the bounded
// timeout. Callers treat it exactly like an empty completion; it is never
// propagated raw to a request.
var ErrTimeout = errors.New("completion timed out")

// Compile-time check to ensure GatewayClient implements Completer
var _ interfaces.Completer = (*GatewayClient)(nil)

// GatewayClient talks to the model gateway, an opaque collaborator that
// turns a prompt into free text. The model provider behind it is
// deliberately unspecified.
type GatewayClient struct {
	http *resty.Client
}

// NewGatewayClient creates a gateway client with a bounded timeout.
func NewGatewayClient(baseURL string, timeout time.Duration) *GatewayClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &GatewayClient{http: client}
}

type completionRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
	MinTokens int    `json:"min_tokens"`
}

type completionResponse struct {
	Completion string `json:"completion"`
}

// Complete sends one prompt to the gateway and returns the raw completion
// text, which may be empty. Timeouts surface as ErrTimeout.
func (c *GatewayClient) Complete(ctx context.Context, prompt string, maxTokens, minTokens int) (string, error) {
	requestID := uuid.NewString()

	var out completionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID).
		SetBody(completionRequest{Prompt: prompt, MaxTokens: maxTokens, MinTokens: minTokens}).
		SetResult(&out).
		Post("/v1/complete")

	if err != nil {
		if isTimeout(err) {
			metrics.CompletionRequestsTotal.WithLabelValues("timeout").Inc()
			logging.Warn("Completion gateway timed out", "request_id", requestID)
			return "", ErrTimeout
		}
		metrics.CompletionRequestsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("completion gateway call failed: %w", err)
	}

	if resp.IsError() {
		metrics.CompletionRequestsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("completion gateway returned %s", resp.Status())
	}

	if out.Completion == "" {
		metrics.CompletionRequestsTotal.WithLabelValues("empty").Inc()
		logging.Debug("Completion gateway returned empty output", "request_id", requestID)
		return "", nil
	}

	metrics.CompletionRequestsTotal.WithLabelValues("ok").Inc()
	return out.Completion, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
