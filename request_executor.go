// request_executor.go
// -------------------
// RequestExecutor turns one logical request into attempts against a source
// and maps every outcome onto the classified error taxonomy.
//
// The default SourceConfig (MaxRetries == 0) performs exactly one attempt:
// an exhausted rate-limit window or a 429 comes back as a RateLimited
// error carrying the suggested wait, and the caller decides what to do
// with it. Setting MaxRetries > 0 engages the exponential-backoff loop,
// which waits out rate limits and retries transport/server errors up to
// the configured budget. All waits respect the request context.
package ddibridge

import (
	"context"
	"time"
)

type RequestExecutor struct {
	sdk *DDIBridge
}

func NewRequestExecutor(sdk *DDIBridge) *RequestExecutor {
	return &RequestExecutor{sdk: sdk}
}

func (re *RequestExecutor) Execute(ctx context.Context, source string, operation func(context.Context) (*NormalizedResponse, error), adapter SourceAdapter) (*NormalizedResponse, error) {
	config := re.sdk.getSourceConfig(source)
	maxRetries := config.MaxRetries
	baseBackoff := config.BaseBackoff
	if baseBackoff == 0 {
		baseBackoff = time.Second
	}

	attempts := 0
	for {
		if !re.sdk.rateLimiter.canProceed(source) {
			delay := re.sdk.rateLimiter.delayBeforeNextRequest(source)
			if maxRetries == 0 {
				re.sdk.logger.Debugw("rate limit window exhausted, signaling caller", "source", source, "retry_after", delay)
				return nil, &ClassifiedError{
					Kind:       KindRateLimited,
					Message:    "rate limit window exhausted",
					RetryAfter: delay,
				}
			}
			if delay > 0 {
				re.sdk.logger.Debugw("waiting for rate limit window", "source", source, "delay", delay)
				if err := sleepContext(ctx, delay); err != nil {
					return nil, NewTransportError(err)
				}
			}
		}

		re.sdk.logger.Debugw("sending request", "source", source, "attempt", attempts+1)
		resp, err := operation(ctx)
		if err != nil {
			if attempts < maxRetries {
				wait := re.calculateBackoff(baseBackoff, attempts)
				re.sdk.logger.Debugw("transport error, retrying", "source", source, "error", err, "backoff", wait, "attempt", attempts+1, "max_retries", maxRetries)
				if serr := sleepContext(ctx, wait); serr != nil {
					return nil, NewTransportError(serr)
				}
				attempts++
				continue
			}
			return nil, NewTransportError(err)
		}

		// Update rate limits if the adapter could parse any from the response.
		if rateInfo, parseErr := adapter.ParseRateLimitInfo(resp); parseErr == nil && rateInfo != nil {
			re.sdk.rateLimiter.UpdateRateLimits(source, rateInfo, config)
		}

		if adapter.IsRateLimitError(resp) {
			if attempts < maxRetries {
				wait := re.waitForRateLimit(source, attempts, baseBackoff)
				re.sdk.logger.Debugw("throttled by source, backing off", "source", source, "backoff", wait, "attempt", attempts+1, "max_retries", maxRetries)
				if serr := sleepContext(ctx, wait); serr != nil {
					return nil, NewTransportError(serr)
				}
				attempts++
				continue
			}
			return resp, ClassifyResponse(resp)
		}

		if resp.StatusCode >= 500 && attempts < maxRetries {
			wait := re.calculateBackoff(baseBackoff, attempts)
			re.sdk.logger.Debugw("server error, retrying", "source", source, "status", resp.StatusCode, "backoff", wait, "attempt", attempts+1, "max_retries", maxRetries)
			if serr := sleepContext(ctx, wait); serr != nil {
				return nil, NewTransportError(serr)
			}
			attempts++
			continue
		}

		if cerr := ClassifyResponse(resp); cerr != nil {
			re.sdk.logger.Debugw("request failed", "source", source, "status", resp.StatusCode, "kind", cerr.Kind)
			return resp, cerr
		}

		if attempts > 0 {
			re.sdk.logger.Debugw("request succeeded after retries", "source", source, "attempts", attempts+1)
		}
		return resp, nil
	}
}

// waitForRateLimit prefers the wait the limiter derived from source
// headers; if none is known, it falls back to exponential backoff.
func (re *RequestExecutor) waitForRateLimit(source string, attempts int, baseBackoff time.Duration) time.Duration {
	if !re.sdk.rateLimiter.canProceed(source) {
		if delay := re.sdk.rateLimiter.delayBeforeNextRequest(source); delay > 0 {
			return delay
		}
	}
	return re.calculateBackoff(baseBackoff, attempts)
}

func (re *RequestExecutor) calculateBackoff(base time.Duration, attempt int) time.Duration {
	backoff := base * (1 << attempt) // base * 2^attempt
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
