package ddibridge

import (
	"errors"
	"testing"
	"time"
)

func TestClassifyResponseUnauthorized(t *testing.T) {
	for _, status := range []int{401, 403} {
		err := ClassifyResponse(&NormalizedResponse{StatusCode: status, Data: []byte("bad credential")})
		if err == nil {
			t.Fatalf("status %d: expected error", status)
		}
		if !errors.Is(err, ErrUnauthorized) {
			t.Errorf("status %d: expected ErrUnauthorized, got kind %s", status, err.Kind)
		}
		if errors.Is(err, ErrClientOrServer) {
			t.Errorf("status %d: must not match ErrClientOrServer", status)
		}
		if err.StatusCode != status {
			t.Errorf("status %d: got StatusCode %d", status, err.StatusCode)
		}
	}
}

func TestClassifyResponseRateLimited(t *testing.T) {
	err := ClassifyResponse(&NormalizedResponse{
		StatusCode: 429,
		Headers:    map[string]string{"retry-after": "7"},
		Data:       []byte("slow down"),
	})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if err.RetryAfter != 7*time.Second {
		t.Errorf("expected RetryAfter 7s, got %v", err.RetryAfter)
	}
}

func TestClassifyResponseRateLimitedWithoutRetryAfter(t *testing.T) {
	err := ClassifyResponse(&NormalizedResponse{StatusCode: 429})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if err.RetryAfter != 0 {
		t.Errorf("expected zero RetryAfter, got %v", err.RetryAfter)
	}
}

func TestClassifyResponseGenericStatuses(t *testing.T) {
	for _, status := range []int{400, 404, 422, 500, 503} {
		err := ClassifyResponse(&NormalizedResponse{StatusCode: status})
		if !errors.Is(err, ErrClientOrServer) {
			t.Errorf("status %d: expected ErrClientOrServer, got %v", status, err)
		}
	}
}

func TestClassifyResponseSuccessIsNil(t *testing.T) {
	for _, status := range []int{200, 201, 204} {
		if err := ClassifyResponse(&NormalizedResponse{StatusCode: status}); err != nil {
			t.Errorf("status %d: expected nil, got %v", status, err)
		}
	}
}

func TestConfigErrorMatching(t *testing.T) {
	err := NewConfigError("bad region %q", "mars")
	if !errors.Is(err, ErrConfig) {
		t.Fatal("expected ErrConfig match")
	}
	if errors.Is(err, ErrMalformedResponse) {
		t.Fatal("config error must not match ErrMalformedResponse")
	}
}

func TestTransportErrorWrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := NewTransportError(cause)
	if !errors.Is(err, ErrTransportFailure) {
		t.Fatal("expected ErrTransportFailure match")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to match")
	}
}
