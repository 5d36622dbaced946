// rxnav_adapter.go
// ----------------
// This adapter integrates with the NLM RxNav interaction API, a public
// drug-drug interaction source keyed by RxNorm concept identifiers.
//
// Key points:
// - No authentication; NLM asks clients to stay under ~20 requests/second.
// - The API sends no rate-limit headers, so the adapter enforces the
//   published ceiling with a local sliding window and synthesizes a 429
//   when the window is full rather than hammering the upstream.
package adapters

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	ddibridge "github.com/clinisafe/ddi-bridge"
)

const (
	RxNavDefaultBaseURL = "https://lhncbc.nlm.nih.gov/RxNav/APIs/api"

	RxNavDefaultMaxRequests = 20
	RxNavDefaultWindowSecs  = 1 // 20 requests per second per NLM guidance

	RxNavDefaultTimeout = 10 * time.Second
)

type RxNavAdapter struct {
	baseURL string
	client  *resty.Client

	mu                sync.Mutex
	requestTimestamps []int64
	maxRequests       int
	windowSecs        int64
}

func NewRxNavAdapter() *RxNavAdapter {
	return &RxNavAdapter{
		baseURL:     RxNavDefaultBaseURL,
		client:      resty.New().SetTimeout(RxNavDefaultTimeout),
		maxRequests: RxNavDefaultMaxRequests,
		windowSecs:  RxNavDefaultWindowSecs,
	}
}

func (a *RxNavAdapter) SetRateLimitDefaults(maxRequests int, windowSecs int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if maxRequests == 0 {
		maxRequests = RxNavDefaultMaxRequests
	}
	if windowSecs == 0 {
		windowSecs = RxNavDefaultWindowSecs
	}
	a.maxRequests = maxRequests
	a.windowSecs = windowSecs
}

func (a *RxNavAdapter) ExecuteRequest(ctx context.Context, req *ddibridge.NormalizedRequest) (*ddibridge.NormalizedResponse, error) {
	if a.isRateLimited() {
		return &ddibridge.NormalizedResponse{
			StatusCode: 429,
			Headers:    map[string]string{},
			Data:       []byte(`{"error":"rxnav local request ceiling reached"}`),
		}, nil
	}

	r := a.client.R().SetContext(ctx)
	for k, v := range req.Headers {
		r.SetHeader(k, v)
	}
	if r.Header.Get("Accept") == "" {
		r.SetHeader("Accept", "application/json")
	}

	resp, err := r.Execute(req.Method, a.baseURL+req.Endpoint)
	if err != nil {
		return nil, err
	}

	a.recordRequest()

	headers := make(map[string]string)
	for k, vals := range resp.Header() {
		if len(vals) > 0 {
			headers[strings.ToLower(k)] = vals[0]
		}
	}

	return &ddibridge.NormalizedResponse{
		StatusCode: resp.StatusCode(),
		Headers:    headers,
		Data:       resp.Body(),
	}, nil
}

// ParseRateLimitInfo reports the local window state; the upstream sends no
// rate-limit headers of its own.
func (a *RxNavAdapter) ParseRateLimitInfo(resp *ddibridge.NormalizedResponse) (*ddibridge.NormalizedRateLimitInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	remaining := a.maxRequests - a.countRecentLocked()
	if remaining < 0 {
		remaining = 0
	}
	maxReq := a.maxRequests
	info := &ddibridge.NormalizedRateLimitInfo{
		MaxRequests:       &maxReq,
		RemainingRequests: &remaining,
	}
	if remaining == 0 && len(a.requestTimestamps) > 0 {
		resetAt := a.requestTimestamps[0] + a.windowSecs*1000
		info.ResetRequestsAt = &resetAt
	}
	return info, nil
}

func (a *RxNavAdapter) IsRateLimitError(resp *ddibridge.NormalizedResponse) bool {
	return resp.StatusCode == 429
}

func (a *RxNavAdapter) isRateLimited() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.countRecentLocked() >= a.maxRequests
}

func (a *RxNavAdapter) recordRequest() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.requestTimestamps = append(a.requestTimestamps, time.Now().UnixMilli())
}

// countRecentLocked prunes timestamps outside the window and returns how
// many remain. Callers must hold a.mu.
func (a *RxNavAdapter) countRecentLocked() int {
	cutoff := time.Now().UnixMilli() - a.windowSecs*1000
	keep := a.requestTimestamps[:0]
	for _, ts := range a.requestTimestamps {
		if ts > cutoff {
			keep = append(keep, ts)
		}
	}
	a.requestTimestamps = keep
	return len(a.requestTimestamps)
}
