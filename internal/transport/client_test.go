package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() *ChatRequest {
	return &ChatRequest{
		Messages:     []ChatMessage{{Role: "user", Content: "add milk to my list"}},
		Model:        "test-model",
		Temperature:  0.2,
		MaxTokens:    256,
		FunctionCall: "auto",
	}
}

func newTestClient(url string) *Client {
	return NewClient(Config{
		BaseURL:   url,
		AppSecret: "secret",
		UserID:    "user-1",
		DeviceID:  "device-1",
		Timeout:   5 * time.Second,
	})
}

func TestSend_Success(t *testing.T) {
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Header().Set("X-RateLimit-Limit", "100")
		w.Header().Set("X-RateLimit-Remaining", "99")
		w.Header().Set("X-RateLimit-Reset", "1767225600") // epoch seconds
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"id": "resp-1", "object": "chat.completion", "created": 1, "model": "test-model",
			"choices": [{"index": 0, "finish_reason": "function_call",
				"message": {"role": "assistant", "function_call": {"name": "manage_tasks", "arguments": "{\"action\":\"create\",\"title\":\"Buy milk\"}"}}}]
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	resp, err := c.Send(context.Background(), testRequest())
	require.NoError(t, err)

	fc := resp.FirstFunctionCall()
	require.NotNil(t, fc)
	assert.Equal(t, "manage_tasks", fc.Name)

	// Required headers were attached.
	assert.Equal(t, "secret", gotHeaders.Get("X-App-Secret"))
	assert.NotEmpty(t, gotHeaders.Get("X-Request-ID"))
	assert.Equal(t, "user-1", gotHeaders.Get("X-User-ID"))
	assert.Equal(t, "device-1", gotHeaders.Get("X-Device-ID"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))

	// Rate-limit state was refreshed.
	rl := c.RateLimit()
	assert.Equal(t, int64(100), rl.Limit)
	assert.Equal(t, int64(99), rl.Remaining)
	assert.Equal(t, time.Unix(1767225600, 0), rl.ResetAt)
}

func TestSend_FreshRequestIDPerCall(t *testing.T) {
	seen := map[string]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[r.Header.Get("X-Request-ID")] = true
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	for i := 0; i < 3; i++ {
		_, err := c.Send(context.Background(), testRequest())
		require.NoError(t, err)
	}
	assert.Len(t, seen, 3)
}

func TestSend_MissingSecret(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://unused.invalid"})
	_, err := c.Send(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestSend_StatusTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 unauthorized",
			status: http.StatusUnauthorized,
			body:   `{"error":"bad secret"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name:   "429 rate limited with structured body",
			status: http.StatusTooManyRequests,
			body:   `{"error":"rate_limited","retryAfter":30,"limit":100}`,
			check: func(t *testing.T, err error) {
				var rle *RateLimitedError
				require.ErrorAs(t, err, &rle)
				assert.Equal(t, 30*time.Second, rle.RetryAfter)
				assert.Equal(t, int64(100), rle.Limit)
			},
		},
		{
			name:   "429 rate limited without body",
			status: http.StatusTooManyRequests,
			body:   ``,
			check: func(t *testing.T, err error) {
				var rle *RateLimitedError
				require.ErrorAs(t, err, &rle)
				assert.Zero(t, rle.RetryAfter)
			},
		},
		{
			name:   "4xx client error carries server message",
			status: http.StatusBadRequest,
			body:   `{"error":"bad_request","message":"messages must not be empty"}`,
			check: func(t *testing.T, err error) {
				var ce *ClientError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, http.StatusBadRequest, ce.Status)
				assert.Equal(t, "messages must not be empty", ce.Message)
			},
		},
		{
			name:   "5xx server error",
			status: http.StatusBadGateway,
			body:   `upstream down`,
			check: func(t *testing.T, err error) {
				var se *ServerError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, http.StatusBadGateway, se.Status)
				assert.Equal(t, "upstream down", se.Message)
			},
		},
		{
			name:   "other status is unexpected",
			status: http.StatusMovedPermanently,
			body:   ``,
			check: func(t *testing.T, err error) {
				var ue *UnexpectedStatusError
				require.ErrorAs(t, err, &ue)
				assert.Equal(t, http.StatusMovedPermanently, ue.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Send(context.Background(), testRequest())
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestSend_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestClient(srv.URL).Send(context.Background(), testRequest())

	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Error(t, errors.Unwrap(ne))
}

func TestSend_InvalidEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`this is not json`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Send(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestSend_MissingRateLimitHeadersTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Send(context.Background(), testRequest())
	require.NoError(t, err)

	rl := c.RateLimit()
	assert.Zero(t, rl.Limit)
	assert.Zero(t, rl.Remaining)
	assert.True(t, rl.ResetAt.IsZero())
}
