package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestThrottle(t *testing.T) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginThrottle(client), mr
}

func TestLoginThrottle_BelowThreshold(t *testing.T) {
	throttle, _ := newTestThrottle(t)
	ctx := context.Background()

	blocked, err := throttle.TooManyFailures(ctx, "sue")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if blocked {
		t.Fatalf("expected fresh username to be unblocked")
	}

	for i := 0; i < maxFailures-1; i++ {
		if err := throttle.RecordFailure(ctx, "sue"); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	blocked, err = throttle.TooManyFailures(ctx, "sue")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if blocked {
		t.Fatalf("blocked one failure before the threshold")
	}
}

func TestLoginThrottle_AtThreshold(t *testing.T) {
	throttle, _ := newTestThrottle(t)
	ctx := context.Background()

	for i := 0; i < maxFailures; i++ {
		if err := throttle.RecordFailure(ctx, "sue"); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	blocked, err := throttle.TooManyFailures(ctx, "sue")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !blocked {
		t.Fatalf("expected username to be blocked at threshold")
	}

	// Other usernames are unaffected.
	blocked, err = throttle.TooManyFailures(ctx, "bob")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if blocked {
		t.Fatalf("unrelated username blocked")
	}
}

func TestLoginThrottle_ResetClears(t *testing.T) {
	throttle, _ := newTestThrottle(t)
	ctx := context.Background()

	for i := 0; i < maxFailures; i++ {
		if err := throttle.RecordFailure(ctx, "sue"); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}
	if err := throttle.Reset(ctx, "sue"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	blocked, err := throttle.TooManyFailures(ctx, "sue")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if blocked {
		t.Fatalf("expected reset to clear the counter")
	}
}

func TestLoginThrottle_WindowExpires(t *testing.T) {
	throttle, mr := newTestThrottle(t)
	ctx := context.Background()

	for i := 0; i < maxFailures; i++ {
		if err := throttle.RecordFailure(ctx, "sue"); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}

	mr.FastForward(failureWindow)

	blocked, err := throttle.TooManyFailures(ctx, "sue")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if blocked {
		t.Fatalf("expected window expiry to unblock the username")
	}
}
