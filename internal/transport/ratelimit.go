package transport

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// ResetUnit selects how the X-RateLimit-Reset header value is interpreted.
type ResetUnit string

const (
	// ResetAuto applies a magnitude heuristic: values at or above
	// msEpochThreshold are epoch milliseconds, everything else epoch
	// seconds. Epoch seconds stay below 2e9 until 2033 while epoch
	// milliseconds already exceed 1.7e12, so the two ranges cannot
	// collide in practice.
	ResetAuto    ResetUnit = "auto"
	ResetSeconds ResetUnit = "seconds"
	ResetMillis  ResetUnit = "millis"
)

const msEpochThreshold = int64(1e12)

// RateLimit is a point-in-time snapshot of the server's rate-limit window.
type RateLimit struct {
	Limit     int64
	Remaining int64
	ResetAt   time.Time
}

// RateLimitState tracks the most recent rate-limit headers. It is refreshed
// on every call, best-effort, and may be stale between calls. Writes are
// last-writer-wins; staleness is tolerable by design of the callers.
type RateLimitState struct {
	mu   sync.Mutex
	cur  RateLimit
	unit ResetUnit
}

// NewRateLimitState creates rate-limit tracking with the given reset unit
// interpretation. An empty unit means auto.
func NewRateLimitState(unit ResetUnit) *RateLimitState {
	if unit == "" {
		unit = ResetAuto
	}
	return &RateLimitState{unit: unit}
}

// Update refreshes the state from response headers. Missing or malformed
// headers leave the corresponding field untouched.
func (s *RateLimitState) Update(h http.Header) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v := h.Get("X-RateLimit-Limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			s.cur.Limit = n
		}
	}
	if v := h.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			s.cur.Remaining = n
		}
	}
	if v := h.Get("X-RateLimit-Reset"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			s.cur.ResetAt = s.normalizeReset(n)
		}
	}
}

// Snapshot returns the current state.
func (s *RateLimitState) Snapshot() RateLimit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// normalizeReset converts an epoch header value to a time, resolving the
// seconds-vs-milliseconds deployment difference.
func (s *RateLimitState) normalizeReset(epoch int64) time.Time {
	switch s.unit {
	case ResetSeconds:
		return time.Unix(epoch, 0)
	case ResetMillis:
		return time.UnixMilli(epoch)
	default:
		if epoch >= msEpochThreshold {
			return time.UnixMilli(epoch)
		}
		return time.Unix(epoch, 0)
	}
}
