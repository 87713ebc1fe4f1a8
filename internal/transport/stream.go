package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"daybook/internal/logging"

	"github.com/google/uuid"
)

// Stream performs a streaming completion call. Frames are delivered on the
// returned channel in arrival order; a frame with Done set is always the
// last one. The error channel carries at most one error. Both channels are
// closed when the stream ends.
//
// Lines that fail to decode are dropped silently: streaming output is
// best-effort incremental rendering, and the authoritative function-call
// reconstruction happens from the concatenated fragments afterwards.
//
// Cancelling ctx stops the stream promptly and releases the connection; no
// frame is emitted after cancellation.
func (c *Client) Stream(ctx context.Context, req *ChatRequest) (<-chan StreamFrame, <-chan error) {
	frames := make(chan StreamFrame, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(frames)
		defer close(errs)

		if c.appSecret == "" {
			errs <- ErrMissingAPIKey
			return
		}

		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
			defer cancel()
		}

		body := *req
		body.Stream = true

		requestID := uuid.NewString()
		rlog := logging.WithRequestID(logging.CategoryTransport, requestID)
		start := time.Now()
		rlog.Info("stream: model=%s messages=%d", body.Model, len(body.Messages))

		httpReq, err := c.newRequest(ctx, &body, requestID)
		if err != nil {
			errs <- err
			return
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			rlog.Error("stream failed after %v: %v", time.Since(start), err)
			errs <- &NetworkError{Cause: err}
			return
		}

		c.limits.Update(resp.Header)

		if resp.StatusCode != http.StatusOK {
			raw, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			err := c.statusError(resp.StatusCode, raw)
			rlog.Warn("stream: status %d: %v", resp.StatusCode, err)
			errs <- err
			return
		}
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		scanDone := make(chan struct{})
		go func() {
			defer close(scanDone)
			for scanner.Scan() {
				line := scanner.Text()
				if !strings.HasPrefix(line, "data:") {
					continue
				}
				data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
				if data == "" {
					continue
				}
				if data == "[DONE]" {
					select {
					case frames <- StreamFrame{Done: true}:
					case <-ctx.Done():
					}
					return
				}

				var chunk ChatResponse
				if err := json.Unmarshal([]byte(data), &chunk); err != nil {
					continue // best-effort: drop undecodable lines
				}
				if len(chunk.Choices) == 0 || chunk.Choices[0].Delta == nil {
					continue
				}
				delta := chunk.Choices[0].Delta
				frame := StreamFrame{
					Role:         delta.Role,
					Content:      delta.Content,
					FunctionCall: delta.FunctionCall,
				}
				select {
				case frames <- frame:
				case <-ctx.Done():
					return
				}
			}
		}()

		select {
		case <-scanDone:
			if ctx.Err() != nil {
				rlog.Warn("stream: cancelled after %v", time.Since(start))
				errs <- ctx.Err()
				return
			}
			if err := scanner.Err(); err != nil {
				rlog.Error("stream: scan error after %v: %v", time.Since(start), err)
				errs <- &NetworkError{Cause: err}
				return
			}
			rlog.Info("stream: completed in %v", time.Since(start))
		case <-ctx.Done():
			// Unblocks the scanner goroutine, which exits on read error.
			resp.Body.Close()
			<-scanDone
			rlog.Warn("stream: cancelled after %v", time.Since(start))
			errs <- ctx.Err()
		}
	}()

	return frames, errs
}
