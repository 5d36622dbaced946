// drugbank_adapter.go
// -------------------
// This adapter integrates with the DrugBank clinical API, the primary
// drug-drug interaction source. DrugBank authenticates with an opaque API
// key sent as the raw Authorization header value (no Bearer prefix) and
// reports rate limits via x-ratelimit-* headers, plus retry-after on 429.
//
// Key points:
// - The base URL must be HTTPS; a plaintext endpoint is a configuration
//   error at construction time, never a request-time fallback.
// - Credentials come from configuration (static key or a CredentialSource
//   such as an OAuth2 client-credentials flow), never from source text.
// - JWT-shaped keys that are already expired are rejected up front so a
//   doomed request is never sent.
package adapters

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	ddibridge "github.com/clinisafe/ddi-bridge"
	"github.com/clinisafe/ddi-bridge/internal"
	"github.com/clinisafe/ddi-bridge/utils"
)

const (
	DrugBankDefaultBaseURL = "https://api.drugbank.com/v1"

	DrugBankDefaultMaxRequests = 60
	DrugBankDefaultWindowSecs  = 60 // 60 requests per minute unless headers say otherwise

	DrugBankDefaultTimeout = 30 * time.Second
)

type DrugBankAdapter struct {
	baseURL     string
	credentials utils.CredentialSource
	client      *resty.Client

	mu          sync.Mutex
	maxRequests int
	windowSecs  int64
}

// DrugBankOption customizes a DrugBankAdapter at construction.
type DrugBankOption func(*DrugBankAdapter)

// WithBaseURL overrides the default API base. The URL must still be HTTPS.
func WithBaseURL(base string) DrugBankOption {
	return func(d *DrugBankAdapter) { d.baseURL = base }
}

// WithHTTPClient injects a preconfigured resty client (custom TLS config,
// proxies, test transports).
func WithHTTPClient(client *resty.Client) DrugBankOption {
	return func(d *DrugBankAdapter) { d.client = client }
}

// WithCredentialSource replaces the static API key with a dynamic source,
// e.g. utils.NewOAuthCredentialSource for gateway deployments.
func WithCredentialSource(src utils.CredentialSource) DrugBankOption {
	return func(d *DrugBankAdapter) { d.credentials = src }
}

// WithTimeout sets the transport timeout for the default client.
func WithTimeout(timeout time.Duration) DrugBankOption {
	return func(d *DrugBankAdapter) { d.client.SetTimeout(timeout) }
}

func NewDrugBankAdapter(apiKey string, opts ...DrugBankOption) (*DrugBankAdapter, error) {
	d := &DrugBankAdapter{
		baseURL:     DrugBankDefaultBaseURL,
		client:      resty.New().SetTimeout(DrugBankDefaultTimeout),
		maxRequests: DrugBankDefaultMaxRequests,
		windowSecs:  DrugBankDefaultWindowSecs,
	}
	if apiKey != "" {
		d.credentials = utils.StaticCredential(apiKey)
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.credentials == nil {
		return nil, ddibridge.NewConfigError("drugbank: credential required; supply an API key or a credential source")
	}
	if err := utils.CheckCredentialExpiry(apiKey); err != nil {
		return nil, ddibridge.NewConfigError("drugbank: %v", err)
	}

	u, err := url.Parse(d.baseURL)
	if err != nil {
		return nil, ddibridge.NewConfigError("drugbank: invalid base URL %q: %v", d.baseURL, err)
	}
	if u.Scheme != "https" {
		return nil, ddibridge.NewConfigError("drugbank: base URL %q is not HTTPS; refusing unencrypted transport", d.baseURL)
	}

	return d, nil
}

func (d *DrugBankAdapter) ExecuteRequest(ctx context.Context, req *ddibridge.NormalizedRequest) (*ddibridge.NormalizedResponse, error) {
	secret, err := d.credentials(ctx)
	if err != nil {
		return nil, err
	}

	r := d.client.R().SetContext(ctx)
	for k, v := range req.Headers {
		r.SetHeader(k, v)
	}
	r.SetHeader("Authorization", secret)
	if r.Header.Get("Content-Type") == "" && len(req.Body) > 0 {
		r.SetHeader("Content-Type", "application/json")
	}
	if r.Header.Get("Accept") == "" {
		r.SetHeader("Accept", "application/json")
	}
	if len(req.Body) > 0 {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(req.Method, d.baseURL+req.Endpoint)
	if err != nil {
		return nil, err
	}

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

func (d *DrugBankAdapter) ParseRateLimitInfo(resp *ddibridge.NormalizedResponse) (*ddibridge.NormalizedRateLimitInfo, error) {
	h := resp.Headers
	parseInt := func(key string) *int {
		if val, ok := h[key]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				return &i
			}
		}
		return nil
	}

	parseUnixTimestamp := func(key string) *int64 {
		if val, ok := h[key]; ok {
			if ts, err := strconv.ParseInt(val, 10, 64); err == nil {
				ms := internal.UnixToMs(ts)
				return &ms
			}
		}
		return nil
	}

	info := &ddibridge.NormalizedRateLimitInfo{
		MaxRequests:       parseInt("x-ratelimit-limit"),
		RemainingRequests: parseInt("x-ratelimit-remaining"),
		ResetRequestsAt:   parseUnixTimestamp("x-ratelimit-reset"),
	}

	// retry-after is only present when throttled and may be plain seconds
	// or a duration string.
	if val, ok := h["retry-after"]; ok {
		if ms := internal.ParseResetStr(val); ms > 0 {
			future := time.Now().UnixMilli() + ms
			if info.ResetRequestsAt == nil || future > *info.ResetRequestsAt {
				info.ResetRequestsAt = &future
			}
		}
	}

	if info.MaxRequests == nil && info.RemainingRequests == nil && info.ResetRequestsAt == nil {
		if resp.StatusCode == 429 {
			// Throttled without headers: assume the configured window is
			// exhausted until it rolls over.
			d.mu.Lock()
			maxReq := d.maxRequests
			windowSecs := d.windowSecs
			d.mu.Unlock()
			remaining := 0
			resetAt := time.Now().UnixMilli() + windowSecs*1000
			return &ddibridge.NormalizedRateLimitInfo{
				MaxRequests:       &maxReq,
				RemainingRequests: &remaining,
				ResetRequestsAt:   &resetAt,
			}, nil
		}
		// Nothing useful in the headers; keep whatever state we had.
		return nil, nil
	}
	return info, nil
}

func (d *DrugBankAdapter) IsRateLimitError(resp *ddibridge.NormalizedResponse) bool {
	return resp.StatusCode == 429
}

func (d *DrugBankAdapter) SetRateLimitDefaults(maxRequests int, windowSecs int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if maxRequests == 0 {
		maxRequests = DrugBankDefaultMaxRequests
	}
	if windowSecs == 0 {
		windowSecs = DrugBankDefaultWindowSecs
	}
	d.maxRequests = maxRequests
	d.windowSecs = windowSecs
}
