package security

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(1, 2, discardLogger())
	defer rl.Stop()

	if !rl.Allow("203.0.113.1") {
		t.Error("first request should be allowed")
	}
	if !rl.Allow("203.0.113.1") {
		t.Error("second request within burst should be allowed")
	}
	if rl.Allow("203.0.113.1") {
		t.Error("third request should exceed the burst")
	}
}

func TestRateLimiter_PerIPBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 1, discardLogger())
	defer rl.Stop()

	if !rl.Allow("203.0.113.1") {
		t.Error("first IP should be allowed")
	}
	if rl.Allow("203.0.113.1") {
		t.Error("first IP should now be limited")
	}
	if !rl.Allow("203.0.113.2") {
		t.Error("a different IP has its own bucket")
	}
	if rl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rl.Len())
	}
}

func TestRateLimiter_EntryCap(t *testing.T) {
	rl := NewRateLimiterWithConfig(1, 1, 3, discardLogger())
	defer rl.Stop()

	for i := 0; i < 10; i++ {
		rl.Allow(fmt.Sprintf("203.0.113.%d", i))
	}

	if got := rl.Len(); got > 3 {
		t.Errorf("Len() = %d, want at most the cap of 3", got)
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 1, discardLogger())
	rl.Stop()
	rl.Stop()
}
