// Package backoff retries backend invocations failing with a
// transient failure using an exponential backoff policy.
package backoff

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/altroute/altroute/internal/model"
)

// Policy is an exponential backoff policy.
//
// The n-th retry (starting from zero) waits InitialDelay * Ratio^n, so the
// worst case time spent sleeping is the sum of a geometric series.
type Policy struct {
	// RetryCount is the number of retries we perform after the first
	// attempt, therefore we invoke the backend at most RetryCount+1 times.
	RetryCount int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// Ratio is the multiplier applied to the delay after each retry.
	Ratio float64
}

// ErrInvalidPolicy indicates that a [Policy] is not valid.
var ErrInvalidPolicy = errors.New("backoff: invalid policy")

// Validate returns an error when the policy cannot be used. The zero
// value is valid and means that we never retry.
func (p Policy) Validate() error {
	switch {
	case p.RetryCount < 0:
		return fmt.Errorf("%w: negative retry count: %d", ErrInvalidPolicy, p.RetryCount)
	case p.InitialDelay < 0:
		return fmt.Errorf("%w: negative initial delay: %s", ErrInvalidPolicy, p.InitialDelay)
	case p.RetryCount > 0 && p.Ratio <= 0:
		return fmt.Errorf("%w: non-positive ratio: %f", ErrInvalidPolicy, p.Ratio)
	default:
		return nil
	}
}

// Delay returns the delay to wait before the given retry (starting from zero).
func (p Policy) Delay(attempt int) time.Duration {
	return time.Duration(float64(p.InitialDelay) * math.Pow(p.Ratio, float64(attempt)))
}

// WorstCaseDelay returns the overall time spent sleeping when all the
// attempts fail, i.e., InitialDelay * (1 - Ratio^RetryCount) / (1 - Ratio).
func (p Policy) WorstCaseDelay() time.Duration {
	if p.Ratio == 1 {
		return p.InitialDelay * time.Duration(p.RetryCount)
	}
	n := float64(p.RetryCount)
	return time.Duration(float64(p.InitialDelay) * (1 - math.Pow(p.Ratio, n)) / (1 - p.Ratio))
}

// Run invokes fn and retries as long as fn returns a transient failure and
// we have not exhausted the retries allowed by the policy. Attempts are
// strictly sequential. Run returns the last result obtained, which is the
// first non-transient result or the last transient failure.
//
// If ctx is done while we are waiting to retry, Run stops retrying and
// returns the last result it obtained.
func Run[T any](ctx context.Context, policy Policy, fn func(ctx context.Context) model.Result[T]) model.Result[T] {
	result := fn(ctx)
	for attempt := 0; attempt < policy.RetryCount && result.IsTransient(); attempt++ {
		if !sleep(ctx, policy.Delay(attempt)) {
			break
		}
		metricRetries.Inc()
		result = fn(ctx)
	}
	return result
}

// sleep waits for the given delay and returns false if ctx is done first.
func sleep(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
