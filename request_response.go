package ddibridge

// NormalizedRequest is the source-agnostic request shape adapters execute.
// Endpoint is a path (plus query string) relative to the adapter's base URL.
type NormalizedRequest struct {
	Method   string
	Endpoint string
	Headers  map[string]string
	Body     []byte
}

// NormalizedResponse is the source-agnostic response shape. Adapters
// lowercase header names so lookups are uniform.
type NormalizedResponse struct {
	StatusCode int
	Headers    map[string]string
	Data       []byte
}

// NormalizedRateLimitInfo carries whatever rate-limit state an adapter was
// able to parse from a response. All fields are optional; timestamps are
// unix milliseconds.
type NormalizedRateLimitInfo struct {
	MaxRequests       *int
	RemainingRequests *int
	ResetRequestsAt   *int64
}
