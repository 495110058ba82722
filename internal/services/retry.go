package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oliverjern/genregenius/internal/shared"
)

// ThrottleError is an upstream "too many requests" response.
// RetryAfter carries the upstream's advertised retry hint, zero when absent.
type ThrottleError struct {
	Status     int
	RetryAfter time.Duration
}

func (e *ThrottleError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("throttled (status %d, retry after %s)", e.Status, e.RetryAfter)
	}
	return fmt.Sprintf("throttled (status %d)", e.Status)
}

func (e *ThrottleError) Unwrap() error { return shared.ErrRateLimited }

// TransientError is a timeout, connection reset or 5xx response that may
// succeed on retry.
type TransientError struct {
	Cause error
}

func (e *TransientError) Error() string { return fmt.Sprintf("transient failure: %v", e.Cause) }
func (e *TransientError) Unwrap() error { return shared.ErrTransient }

// ClientError is a well-formed error response indicating the request itself
// is invalid. Never retried.
type ClientError struct {
	Status int
	Body   string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("client error (status %d): %s", e.Status, e.Body)
}

func (e *ClientError) Unwrap() error { return shared.ErrClient }

// retryState tracks where an in-flight request sits in the retry loop.
type retryState int

const (
	stateIdle retryState = iota
	stateWaiting
	stateAttempting
	stateSucceeded
	stateThrottled
	stateFailed
)

// RetryPolicy governs retries for a single upstream request: bounded attempts
// for throttling (honoring the upstream retry hint, otherwise an escalating
// backoff) and bounded short-delay retries for transient network failures.
//
// The zero value is unusable; construct with DefaultRetryPolicy and override
// fields as needed. sleep is injectable for tests.
type RetryPolicy struct {
	MaxAttempts      int           // Total attempts, including the first
	TransientDelay   time.Duration // Fixed delay between transient retries
	ThrottleFallback time.Duration // Backoff when no retry hint is advertised
	MaxBackoff       time.Duration // Cap on escalating throttle backoff

	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy mirrors the upstream etiquette both catalogs ask for:
// a handful of attempts, short transient delays, and throttle backoff capped
// at 30 seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:      3,
		TransientDelay:   2 * time.Second,
		ThrottleFallback: 5 * time.Second,
		MaxBackoff:       30 * time.Second,
		sleep:            sleepCtx,
	}
}

// Do runs attempt until it succeeds, exhausts the attempt budget, or fails
// with a non-retriable error. The returned error unwraps to one of
// shared.ErrRateLimited, shared.ErrTransient or shared.ErrClient.
func (p RetryPolicy) Do(ctx context.Context, attempt func(context.Context) error) error {
	if p.sleep == nil {
		p.sleep = sleepCtx
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}

	state := stateIdle
	backoff := p.ThrottleFallback
	var lastErr error

	for tries := 0; tries < p.MaxAttempts; tries++ {
		switch state {
		case stateIdle:
			// First attempt goes straight through; pacing happened upstream.
		case stateThrottled:
			state = stateWaiting
			wait := backoff
			var throttle *ThrottleError
			if errors.As(lastErr, &throttle) && throttle.RetryAfter > 0 {
				wait = throttle.RetryAfter
			}
			if wait > p.MaxBackoff {
				wait = p.MaxBackoff
			}
			if err := p.sleep(ctx, wait); err != nil {
				return err
			}
			backoff *= 2
		case stateFailed:
			state = stateWaiting
			if err := p.sleep(ctx, p.TransientDelay); err != nil {
				return err
			}
		}

		state = stateAttempting
		err := attempt(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		switch {
		case errors.Is(err, shared.ErrClient):
			return err
		case errors.Is(err, shared.ErrRateLimited):
			state = stateThrottled
		case errors.Is(err, shared.ErrTransient):
			state = stateFailed
		default:
			// Unknown errors (cancellation, marshalling) are not retried.
			return err
		}
	}

	return lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
