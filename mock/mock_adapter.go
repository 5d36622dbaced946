package mock

import (
	"context"
	"sync"
	"time"

	ddibridge "github.com/clinisafe/ddi-bridge"
)

const (
	MockDefaultMaxRequests = 100
	MockDefaultWindowSecs  = 60
)

// MockSource is a scriptable in-memory SourceAdapter for tests and
// throttle harnesses. Responses are served from the Responses queue in
// order (the last one repeats); Err short-circuits every request with a
// transport-level failure. Executed requests are recorded for assertions.
type MockSource struct {
	RequestsUntilRateLimit int  // after this many requests, serve 429s
	ShouldReturn429Always  bool // if true, always return 429
	Err                    error

	Responses []*ddibridge.NormalizedResponse

	MaxRequests int
	WindowSecs  int64

	mu                  sync.Mutex
	currentRequestCount int
	requests            []*ddibridge.NormalizedRequest
}

func (m *MockSource) SetRateLimitDefaults(maxRequests int, windowSecs int64) {
	if maxRequests == 0 {
		maxRequests = MockDefaultMaxRequests
	}
	if windowSecs == 0 {
		windowSecs = MockDefaultWindowSecs
	}
	m.MaxRequests = maxRequests
	m.WindowSecs = windowSecs
}

func (m *MockSource) ExecuteRequest(ctx context.Context, req *ddibridge.NormalizedRequest) (*ddibridge.NormalizedResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.currentRequestCount++
	m.requests = append(m.requests, req)

	if m.Err != nil {
		return nil, m.Err
	}

	if m.ShouldReturn429Always || (m.RequestsUntilRateLimit > 0 && m.currentRequestCount > m.RequestsUntilRateLimit) {
		return &ddibridge.NormalizedResponse{
			StatusCode: 429,
			Headers:    map[string]string{},
			Data:       []byte(`{"error":"Rate limited"}`),
		}, nil
	}

	if len(m.Responses) > 0 {
		idx := m.currentRequestCount - 1
		if idx >= len(m.Responses) {
			idx = len(m.Responses) - 1
		}
		return m.Responses[idx], nil
	}

	return &ddibridge.NormalizedResponse{
		StatusCode: 200,
		Headers:    map[string]string{},
		Data:       []byte(`{"success":true}`),
	}, nil
}

func (m *MockSource) ParseRateLimitInfo(resp *ddibridge.NormalizedResponse) (*ddibridge.NormalizedRateLimitInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	remaining := m.MaxRequests - m.currentRequestCount
	if remaining < 0 {
		remaining = 0
	}
	var resetAt *int64
	if remaining == 0 {
		future := (time.Now().Unix() + m.WindowSecs) * 1000
		resetAt = &future
	}
	info := &ddibridge.NormalizedRateLimitInfo{
		MaxRequests:       intPtr(m.MaxRequests),
		RemainingRequests: intPtr(remaining),
		ResetRequestsAt:   resetAt,
	}
	return info, nil
}

func (m *MockSource) IsRateLimitError(resp *ddibridge.NormalizedResponse) bool {
	return resp.StatusCode == 429
}

// RequestCount reports how many requests reached the mock.
func (m *MockSource) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentRequestCount
}

// Requests returns a copy of every request the mock executed.
func (m *MockSource) Requests() []*ddibridge.NormalizedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ddibridge.NormalizedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

func intPtr(i int) *int {
	return &i
}
