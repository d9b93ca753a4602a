package translate

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestPolicyDelayDoublesAndCaps(t *testing.T) {
	p := Policy{BaseDelay: 1 * time.Second, MaxDelay: 5 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 5 * time.Second},
		{10, 5 * time.Second},
	}
	for _, tt := range tests {
		if got := p.delay(tt.attempt); got != tt.want {
			t.Errorf("delay(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}

func TestPolicyZeroValueDefaults(t *testing.T) {
	var p Policy
	if got := p.attempts(); got != 3 {
		t.Errorf("attempts() = %d, want 3", got)
	}
	if got := p.delay(1); got != 1*time.Second {
		t.Errorf("delay(1) = %s, want 1s", got)
	}
	if got := p.maxDelay(); got != 30*time.Second {
		t.Errorf("maxDelay() = %s, want 30s", got)
	}
}

func TestDefaultRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit", &RateLimitError{RetryAfter: time.Second}, true},
		{"network failure", &TransportError{Err: errors.New("connection refused")}, true},
		{"server error", &TransportError{Status: http.StatusBadGateway}, true},
		{"client error", &TransportError{Status: http.StatusUnauthorized}, false},
		{"mismatch", &MismatchError{Chunk: 1, Expected: 5, Actual: 3}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		if got := DefaultRetryable(tt.err); got != tt.want {
			t.Errorf("%s: DefaultRetryable = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPolicyCustomRetryable(t *testing.T) {
	p := Policy{Retryable: func(error) bool { return false }}
	if p.retryable(&RateLimitError{}) {
		t.Fatal("custom Retryable must override the default")
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d, ok := parseRetryAfter("12"); !ok || d != 12*time.Second {
		t.Errorf("parseRetryAfter(12) = %s, %v", d, ok)
	}
	if _, ok := parseRetryAfter(""); ok {
		t.Error("empty Retry-After reported as present")
	}
	if _, ok := parseRetryAfter("-3"); ok {
		t.Error("negative Retry-After reported as present")
	}
	httpDate := time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)
	if d, ok := parseRetryAfter(httpDate); !ok || d <= 0 || d > 30*time.Second {
		t.Errorf("parseRetryAfter(HTTP date) = %s, %v", d, ok)
	}
}

func TestParseRetryInfo(t *testing.T) {
	body := []byte(`{"error":{"details":[{"@type":"type.googleapis.com/google.rpc.RetryInfo","retryDelay":"21s"}]}}`)
	if got := parseRetryInfo(body); got != 21*time.Second {
		t.Errorf("parseRetryInfo = %s, want 21s", got)
	}
	if got := parseRetryInfo([]byte("not json")); got != 0 {
		t.Errorf("parseRetryInfo(garbage) = %s, want 0", got)
	}
}

func TestRetryDelayFromPrefersHeader(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "5")
	body := []byte(`{"error":{"details":[{"@type":"RetryInfo","retryDelay":"40s"}]}}`)
	if got := retryDelayFrom(h, body); got != 5*time.Second {
		t.Errorf("retryDelayFrom = %s, want 5s", got)
	}
	if got := retryDelayFrom(http.Header{}, body); got != 40*time.Second {
		t.Errorf("retryDelayFrom (no header) = %s, want 40s", got)
	}
}

func TestRateLimitStatePauseExpires(t *testing.T) {
	rl := &rateLimitState{}
	if rl.isPaused() {
		t.Fatal("fresh state reports paused")
	}
	rl.pause(-time.Second)
	if err := rl.waitIfPaused(context.Background()); err != nil {
		t.Fatalf("waitIfPaused: %v", err)
	}
	if rl.isPaused() {
		t.Fatal("expired pause not cleared")
	}
}
