// config.go
// ----------
// This file defines the SourceConfig structure, which allows per-source
// customization of behavior such as trusting source-reported limits or
// applying local overrides, and opting into the retry executor.
//
// MaxRetries defaults to 0, which means a plain Request performs exactly
// one attempt and never sleeps: rate limiting is signaled back to the
// caller as a classified error, and any backoff is the caller's policy.
// Setting MaxRetries > 0 is the explicit opt-in that engages the
// exponential-backoff loop in request_executor.go.
package ddibridge

import "time"

// SourceConfig allows per-source customization of rate limits and retries.
type SourceConfig struct {
	UseSourceLimits     bool   // trust limits parsed from source responses
	MaxRequestsOverride *int   // override the source-reported max requests if set
	WindowSecsOverride  *int64 // override the source-reported window if set

	MaxRetries  int           // 0 = single attempt, no waiting (the default)
	BaseBackoff time.Duration // initial backoff for the opt-in retry loop
}
