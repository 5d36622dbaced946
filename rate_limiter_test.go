package ddibridge

import (
	"testing"
	"time"
)

func intPtr(i int) *int       { return &i }
func int64Ptr(i int64) *int64 { return &i }

func TestCanProceedWithoutKnownLimits(t *testing.T) {
	r := NewRateLimiter()
	if !r.canProceed("drugbank") {
		t.Fatal("expected canProceed with no stored limits")
	}
	if d := r.delayBeforeNextRequest("drugbank"); d != 0 {
		t.Fatalf("expected zero delay, got %v", d)
	}
}

func TestCanProceedBlocksUntilReset(t *testing.T) {
	r := NewRateLimiter()
	resetAt := time.Now().Add(2 * time.Second).UnixMilli()
	r.UpdateRateLimits("drugbank", &NormalizedRateLimitInfo{
		MaxRequests:       intPtr(60),
		RemainingRequests: intPtr(0),
		ResetRequestsAt:   &resetAt,
	}, &SourceConfig{UseSourceLimits: true})

	if r.canProceed("drugbank") {
		t.Fatal("expected canProceed=false with exhausted window")
	}
	d := r.delayBeforeNextRequest("drugbank")
	if d <= 0 || d > 2*time.Second {
		t.Fatalf("expected delay in (0, 2s], got %v", d)
	}
}

func TestCanProceedAfterResetPassed(t *testing.T) {
	r := NewRateLimiter()
	resetAt := time.Now().Add(-time.Second).UnixMilli()
	r.UpdateRateLimits("drugbank", &NormalizedRateLimitInfo{
		RemainingRequests: intPtr(0),
		ResetRequestsAt:   &resetAt,
	}, &SourceConfig{UseSourceLimits: true})

	if !r.canProceed("drugbank") {
		t.Fatal("expected canProceed once the reset time has passed")
	}
}

func TestUpdateAppliesOverridesWhenNotUsingSourceLimits(t *testing.T) {
	r := NewRateLimiter()
	r.UpdateRateLimits("drugbank", &NormalizedRateLimitInfo{
		MaxRequests:       intPtr(5000),
		RemainingRequests: intPtr(4000),
	}, &SourceConfig{UseSourceLimits: false, MaxRequestsOverride: intPtr(10)})

	info := r.GetRateLimitInfo("drugbank")
	if info == nil || info.MaxRequests == nil || *info.MaxRequests != 10 {
		t.Fatalf("expected overridden max of 10, got %+v", info)
	}
	if info.RemainingRequests == nil || *info.RemainingRequests != 10 {
		t.Fatalf("expected remaining clamped to override, got %+v", info)
	}
}

func TestGetRateLimitInfoUnknownSource(t *testing.T) {
	r := NewRateLimiter()
	if info := r.GetRateLimitInfo("nope"); info != nil {
		t.Fatalf("expected nil info for unknown source, got %+v", info)
	}
}
