package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oliverjern/genregenius/internal/shared"
)

// fakeSleeper records requested sleep durations without sleeping.
type fakeSleeper struct {
	slept []time.Duration
}

func (f *fakeSleeper) sleep(ctx context.Context, d time.Duration) error {
	f.slept = append(f.slept, d)
	return nil
}

func testPolicy(s *fakeSleeper) RetryPolicy {
	p := DefaultRetryPolicy()
	p.sleep = s.sleep
	return p
}

func TestRetryPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("Success First Attempt", func(t *testing.T) {
		sleeper := &fakeSleeper{}
		calls := 0

		err := testPolicy(sleeper).Do(ctx, func(context.Context) error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 attempt, got %d", calls)
		}
		if len(sleeper.slept) != 0 {
			t.Errorf("expected no sleeps, got %v", sleeper.slept)
		}
	})

	t.Run("Throttled Then Success Honors Retry Hint", func(t *testing.T) {
		sleeper := &fakeSleeper{}
		calls := 0

		err := testPolicy(sleeper).Do(ctx, func(context.Context) error {
			calls++
			if calls == 1 {
				return &ThrottleError{Status: 429, RetryAfter: 7 * time.Second}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("expected success after retry, got %v", err)
		}
		if calls != 2 {
			t.Errorf("expected 2 attempts, got %d", calls)
		}
		if len(sleeper.slept) != 1 || sleeper.slept[0] != 7*time.Second {
			t.Errorf("expected one 7s wait from retry hint, got %v", sleeper.slept)
		}
	})

	t.Run("Throttled Without Hint Uses Fallback Then Escalates", func(t *testing.T) {
		sleeper := &fakeSleeper{}

		err := testPolicy(sleeper).Do(ctx, func(context.Context) error {
			return &ThrottleError{Status: 429}
		})
		if !errors.Is(err, shared.ErrRateLimited) {
			t.Fatalf("expected rate limited error, got %v", err)
		}
		if len(sleeper.slept) != 2 {
			t.Fatalf("expected 2 waits for 3 attempts, got %v", sleeper.slept)
		}
		if sleeper.slept[0] != 5*time.Second || sleeper.slept[1] != 10*time.Second {
			t.Errorf("expected escalating 5s, 10s backoff, got %v", sleeper.slept)
		}
	})

	t.Run("Backoff Capped", func(t *testing.T) {
		sleeper := &fakeSleeper{}
		p := testPolicy(sleeper)
		p.MaxAttempts = 6
		p.ThrottleFallback = 20 * time.Second

		err := p.Do(ctx, func(context.Context) error {
			return &ThrottleError{Status: 429}
		})
		if !errors.Is(err, shared.ErrRateLimited) {
			t.Fatalf("expected rate limited error, got %v", err)
		}
		for _, d := range sleeper.slept {
			if d > 30*time.Second {
				t.Errorf("backoff %v exceeds 30s cap", d)
			}
		}
	})

	t.Run("Transient Uses Fixed Delay", func(t *testing.T) {
		sleeper := &fakeSleeper{}

		err := testPolicy(sleeper).Do(ctx, func(context.Context) error {
			return &TransientError{Cause: errors.New("connection reset")}
		})
		if !errors.Is(err, shared.ErrTransient) {
			t.Fatalf("expected transient error, got %v", err)
		}
		for _, d := range sleeper.slept {
			if d != 2*time.Second {
				t.Errorf("expected fixed 2s transient delay, got %v", d)
			}
		}
	})

	t.Run("Client Error Not Retried", func(t *testing.T) {
		sleeper := &fakeSleeper{}
		calls := 0

		err := testPolicy(sleeper).Do(ctx, func(context.Context) error {
			calls++
			return &ClientError{Status: 404, Body: "not found"}
		})
		if !errors.Is(err, shared.ErrClient) {
			t.Fatalf("expected client error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected exactly 1 attempt, got %d", calls)
		}
	})

	t.Run("Cancellation Stops Retries", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		p := DefaultRetryPolicy()
		p.sleep = sleepCtx

		err := p.Do(cancelled, func(context.Context) error {
			return &ThrottleError{Status: 429}
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		retryAfter string
		want       error
	}{
		{"OK", 200, "", nil},
		{"Created", 201, "", nil},
		{"Throttled", 429, "3", shared.ErrRateLimited},
		{"Service Unavailable", 503, "", shared.ErrRateLimited},
		{"Gateway Timeout", 504, "", shared.ErrRateLimited},
		{"Server Error", 500, "", shared.ErrTransient},
		{"Not Found", 404, "", shared.ErrClient},
		{"Bad Request", 400, "", shared.ErrClient},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyStatus(tc.status, tc.retryAfter, "")
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("status %d: expected %v, got %v", tc.status, tc.want, err)
			}
		})
	}

	t.Run("Retry Hint Parsed", func(t *testing.T) {
		err := classifyStatus(429, "12", "")
		var throttle *ThrottleError
		if !errors.As(err, &throttle) {
			t.Fatalf("expected ThrottleError, got %T", err)
		}
		if throttle.RetryAfter != 12*time.Second {
			t.Errorf("expected 12s retry hint, got %v", throttle.RetryAfter)
		}
	})
}
