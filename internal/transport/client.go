// Package transport implements the client for the remote completion
// endpoint: request building, blocking and streaming calls, SSE frame
// decoding, rate-limit tracking, and the HTTP/network error taxonomy.
//
// The client performs no retries. Rate-limit and server errors are surfaced
// to the caller, which owns the retry policy.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"daybook/internal/logging"

	"github.com/google/uuid"
)

// Config holds client construction parameters.
type Config struct {
	BaseURL   string
	AppSecret string
	UserID    string // optional, for server-side rate limiting
	DeviceID  string // optional, stable per installation
	Timeout   time.Duration
	ResetUnit ResetUnit
}

// Client talks to the remote completion endpoint.
type Client struct {
	baseURL    string
	appSecret  string
	userID     string
	deviceID   string
	httpClient *http.Client
	limits     *RateLimitState
}

// NewClient creates a client. The rate-limit state is scoped to this
// instance, not process-wide.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		appSecret:  cfg.AppSecret,
		userID:     cfg.UserID,
		deviceID:   cfg.DeviceID,
		httpClient: &http.Client{Timeout: timeout},
		limits:     NewRateLimitState(cfg.ResetUnit),
	}
}

// RateLimit returns the most recently observed rate-limit snapshot.
func (c *Client) RateLimit() RateLimit {
	return c.limits.Snapshot()
}

// Send performs a blocking completion call and decodes the full envelope.
func (c *Client) Send(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if c.appSecret == "" {
		return nil, ErrMissingAPIKey
	}

	// Auto-apply timeout if the context has no deadline.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	body := *req
	body.Stream = false

	requestID := uuid.NewString()
	rlog := logging.WithRequestID(logging.CategoryTransport, requestID)
	start := time.Now()
	rlog.Info("send: model=%s messages=%d", body.Model, len(body.Messages))

	httpReq, err := c.newRequest(ctx, &body, requestID)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		rlog.Error("send failed after %v: %v", time.Since(start), err)
		return nil, &NetworkError{Cause: err}
	}
	defer resp.Body.Close()

	c.limits.Update(resp.Header)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		err := c.statusError(resp.StatusCode, raw)
		rlog.Warn("send: status %d after %v: %v", resp.StatusCode, time.Since(start), err)
		return nil, err
	}

	var envelope ChatResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		rlog.Error("send: undecodable 200 body (%d bytes)", len(raw))
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	rlog.Info("send: completed in %v choices=%d", time.Since(start), len(envelope.Choices))
	return &envelope, nil
}

// newRequest builds the POST with the required headers attached.
func (c *Client) newRequest(ctx context.Context, body *ChatRequest, requestID string) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-App-Secret", c.appSecret)
	req.Header.Set("X-Request-ID", requestID)
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-ID", c.deviceID)
	}
	if body.Stream {
		req.Header.Set("Accept", "text/event-stream")
	}
	return req, nil
}

// statusError maps a non-200 status plus body to the error taxonomy.
func (c *Client) statusError(status int, raw []byte) error {
	var eb ErrorBody
	_ = json.Unmarshal(raw, &eb) // best-effort; taxonomy works without it

	message := eb.Message
	if message == "" {
		message = eb.Error
	}
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}

	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusTooManyRequests:
		return &RateLimitedError{
			RetryAfter: time.Duration(eb.RetryAfter) * time.Second,
			Limit:      eb.Limit,
		}
	case status >= 400 && status < 500:
		return &ClientError{Status: status, Message: message}
	case status >= 500 && status < 600:
		return &ServerError{Status: status, Message: message}
	default:
		return &UnexpectedStatusError{Code: status}
	}
}
