package ddibridge

import "context"

// SourceAdapter defines the interface every DDI data source adapter must
// implement. An adapter owns its base URL, transport, and credential
// handling; the bridge owns classification, rate-limit bookkeeping, and
// the optional retry policy.
type SourceAdapter interface {
	ExecuteRequest(ctx context.Context, req *NormalizedRequest) (*NormalizedResponse, error)
	ParseRateLimitInfo(resp *NormalizedResponse) (*NormalizedRateLimitInfo, error)
	IsRateLimitError(resp *NormalizedResponse) bool

	// SetRateLimitDefaults installs the fallback window used until the
	// source reports its own limits via response headers.
	SetRateLimitDefaults(maxRequests int, windowSecs int64)
}
