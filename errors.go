// errors.go
// ---------
// This file defines the classified failure taxonomy returned by the SDK.
// Every failure a caller can see is a *ClassifiedError carrying a Kind,
// so callers branch with errors.Is against the exported sentinels instead
// of string-matching messages or inspecting raw status codes.
//
// Kinds:
// - Unauthorized: the upstream rejected the credential (401/403).
// - RateLimited: the upstream throttled us (429) or the local limiter
//   knows the window is exhausted. RetryAfter carries the suggested wait
//   when known; the SDK itself never sleeps on it.
// - ClientOrServerError: any other non-success status.
// - TransportFailure: the request never produced a protocol response
//   (DNS, TLS, timeout, connection reset, context cancellation).
// - MalformedResponse: a success status whose body does not match the
//   expected shape.
// - Config: pre-flight validation failed; no network call was made.
package ddibridge

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrorKind identifies one branch of the failure taxonomy.
type ErrorKind string

const (
	KindUnauthorized      ErrorKind = "unauthorized"
	KindRateLimited       ErrorKind = "rate_limited"
	KindClientOrServer    ErrorKind = "client_or_server_error"
	KindTransportFailure  ErrorKind = "transport_failure"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindConfig            ErrorKind = "config_error"
)

// Sentinels for errors.Is. Each ClassifiedError matches exactly one of these.
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrRateLimited       = errors.New("rate limited")
	ErrClientOrServer    = errors.New("client or server error")
	ErrTransportFailure  = errors.New("transport failure")
	ErrMalformedResponse = errors.New("malformed response")
	ErrConfig            = errors.New("configuration error")
)

// ClassifiedError is the discriminated failure type returned by the SDK
// and the typed clients built on it.
type ClassifiedError struct {
	Kind       ErrorKind
	StatusCode int           // 0 when no protocol response was received
	Message    string
	RetryAfter time.Duration // only meaningful for KindRateLimited, 0 if unknown
	cause      error
}

func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

// Is lets errors.Is(err, ErrRateLimited) and friends work without callers
// having to type-assert.
func (e *ClassifiedError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrClientOrServer:
		return e.Kind == KindClientOrServer
	case ErrTransportFailure:
		return e.Kind == KindTransportFailure
	case ErrMalformedResponse:
		return e.Kind == KindMalformedResponse
	case ErrConfig:
		return e.Kind == KindConfig
	}
	return false
}

// NewConfigError reports a pre-flight validation failure. No network call
// has been made when one of these is returned.
func NewConfigError(format string, args ...interface{}) *ClassifiedError {
	return &ClassifiedError{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// NewTransportError wraps a connection-level failure (DNS, TLS, timeout).
func NewTransportError(err error) *ClassifiedError {
	return &ClassifiedError{Kind: KindTransportFailure, Message: err.Error(), cause: err}
}

// NewMalformedResponseError reports a success status whose body did not
// match the expected shape.
func NewMalformedResponseError(format string, args ...interface{}) *ClassifiedError {
	return &ClassifiedError{Kind: KindMalformedResponse, Message: fmt.Sprintf(format, args...)}
}

// ClassifyResponse maps a non-success NormalizedResponse onto the taxonomy.
// It returns nil for 2xx statuses.
func ClassifyResponse(resp *NormalizedResponse) *ClassifiedError {
	if resp == nil {
		return &ClassifiedError{Kind: KindTransportFailure, Message: "no response received"}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg := string(resp.Data)
	if msg == "" {
		msg = "upstream returned status " + strconv.Itoa(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == 401 || resp.StatusCode == 403:
		return &ClassifiedError{Kind: KindUnauthorized, StatusCode: resp.StatusCode, Message: msg}
	case resp.StatusCode == 429:
		return &ClassifiedError{
			Kind:       KindRateLimited,
			StatusCode: resp.StatusCode,
			Message:    msg,
			RetryAfter: retryAfterFromHeaders(resp.Headers),
		}
	default:
		return &ClassifiedError{Kind: KindClientOrServer, StatusCode: resp.StatusCode, Message: msg}
	}
}

// retryAfterFromHeaders reads a lowercased header map for a retry-after
// value in seconds. Missing or unparseable values yield 0.
func retryAfterFromHeaders(headers map[string]string) time.Duration {
	val, ok := headers["retry-after"]
	if !ok {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
