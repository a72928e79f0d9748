package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemory_AllowsUpToMax(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemory(3, time.Minute, func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := limiter.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if res.Remaining != 3-(i+1) {
			t.Errorf("request %d: expected remaining %d, got %d", i+1, 3-(i+1), res.Remaining)
		}
	}

	res, err := limiter.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Allowed {
		t.Error("4th request within window should be denied")
	}
	if res.Remaining != 0 {
		t.Errorf("expected remaining 0, got %d", res.Remaining)
	}
}

func TestMemory_WindowResetReplacesRecord(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemory(1, time.Minute, func() time.Time { return now })
	ctx := context.Background()

	if res, _ := limiter.Allow(ctx, "ip"); !res.Allowed {
		t.Fatal("first request should be allowed")
	}
	if res, _ := limiter.Allow(ctx, "ip"); res.Allowed {
		t.Fatal("second request within window should be denied")
	}

	// Advance past the window boundary: fresh record with count 1.
	now = now.Add(time.Minute + time.Second)
	res, _ := limiter.Allow(ctx, "ip")
	if !res.Allowed {
		t.Error("request after window expiry should be allowed")
	}
	if got, want := res.ResetAt, now.Add(time.Minute); !got.Equal(want) {
		t.Errorf("expected reset at %s, got %s", want, got)
	}
}

func TestMemory_KeysAreIndependent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemory(1, time.Minute, func() time.Time { return now })
	ctx := context.Background()

	if res, _ := limiter.Allow(ctx, "a"); !res.Allowed {
		t.Fatal("first request for key a should be allowed")
	}
	if res, _ := limiter.Allow(ctx, "b"); !res.Allowed {
		t.Error("key b should have its own window")
	}
	if res, _ := limiter.Allow(ctx, "a"); res.Allowed {
		t.Error("key a should be exhausted")
	}
}
