// rate_limiter.go
// ----------------
// This file defines the RateLimiter type, which stores and manages rate
// limit information per source. It integrates with the adapter-provided
// NormalizedRateLimitInfo to determine whether a request may proceed
// immediately and, if not, how long the caller would have to wait.
//
// Responsibilities:
// - Storing rate limit info keyed by source name.
// - Checking if requests can proceed based on RemainingRequests and ResetRequestsAt.
// - Calculating the delay before the next allowed request if the window is exhausted.
// - Applying SourceConfig overrides when UseSourceLimits is false.
//
// The limiter only signals. It never sleeps; whether to wait is decided in
// request_executor.go, and only when the caller opted into retries.
package ddibridge

import (
	"sync"
	"time"
)

type RateLimiter struct {
	mu           sync.Mutex
	sourceLimits map[string]*NormalizedRateLimitInfo
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		sourceLimits: make(map[string]*NormalizedRateLimitInfo),
	}
}

// UpdateRateLimits stores rate limit info for a source, applying overrides
// from the SourceConfig if UseSourceLimits is false.
func (r *RateLimiter) UpdateRateLimits(source string, info *NormalizedRateLimitInfo, config *SourceConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info != nil && !config.UseSourceLimits {
		if config.MaxRequestsOverride != nil {
			info.MaxRequests = config.MaxRequestsOverride
			if info.RemainingRequests == nil || *info.RemainingRequests > *info.MaxRequests {
				newRem := *info.MaxRequests
				info.RemainingRequests = &newRem
			}
		}
	}

	r.sourceLimits[source] = info
}

// canProceed reports whether a request to the source may proceed
// immediately. It returns false when the window is exhausted and the reset
// time has not passed yet.
func (r *RateLimiter) canProceed(source string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.sourceLimits[source]
	if !ok || info == nil {
		// No known limits, assume proceed
		return true
	}

	if info.RemainingRequests != nil && *info.RemainingRequests <= 0 {
		if info.ResetRequestsAt != nil && time.Now().UnixMilli() < *info.ResetRequestsAt {
			return false
		}
	}
	return true
}

// delayBeforeNextRequest returns how long the caller would have to wait
// before the source's window resets. Zero means no wait is required.
func (r *RateLimiter) delayBeforeNextRequest(source string) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.sourceLimits[source]
	if !ok || info == nil {
		return 0
	}

	if info.RemainingRequests != nil && *info.RemainingRequests <= 0 && info.ResetRequestsAt != nil {
		nowMs := time.Now().UnixMilli()
		if nowMs < *info.ResetRequestsAt {
			delayMs := *info.ResetRequestsAt - nowMs
			return time.Duration(delayMs) * time.Millisecond
		}
	}

	return 0
}

// GetRateLimitInfo returns a copy of the rate limit info for a source.
func (r *RateLimiter) GetRateLimitInfo(source string) *NormalizedRateLimitInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if info, ok := r.sourceLimits[source]; ok && info != nil {
		copyInfo := *info
		return &copyInfo
	}
	return nil
}
