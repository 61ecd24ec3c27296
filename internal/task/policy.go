// Package task builds validated purchase-task specifications: the durable
// requests to repeatedly attempt buying one plan configuration at one
// datacenter until success or retry exhaustion.
package task

import (
	"fmt"

	"ecosniper/internal/domain"
)

// UnlimitedAttempts is the sentinel MaxAttempts value meaning the task
// retries until it succeeds or is deleted. It is the only negative value
// a policy accepts.
const UnlimitedAttempts = -1

// Bounds for RetryPolicy fields, matched by the executing backend.
const (
	MaxAttemptsLimit   = 100
	MinIntervalSeconds = 5
	MaxIntervalSeconds = 600
)

// RetryPolicy encodes how a purchase task is retried over time.
type RetryPolicy struct {
	// MaxAttempts is the attempt budget in [-1, 100]; -1 means
	// unlimited and is not a count.
	MaxAttempts int `json:"maxRetries"`

	// IntervalSeconds is the pause between attempts in [5, 600].
	IntervalSeconds int `json:"taskInterval"`
}

// DefaultRetryPolicy is unlimited attempts every 60 seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: UnlimitedAttempts, IntervalSeconds: 60}
}

// Validate rejects out-of-range values. The builder refuses to clamp:
// a policy the user did not write must never reach the backend.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < UnlimitedAttempts || p.MaxAttempts > MaxAttemptsLimit {
		return fmt.Errorf("%w: max attempts %d outside [%d, %d]",
			domain.ErrValidation, p.MaxAttempts, UnlimitedAttempts, MaxAttemptsLimit)
	}
	if p.IntervalSeconds < MinIntervalSeconds || p.IntervalSeconds > MaxIntervalSeconds {
		return fmt.Errorf("%w: interval %ds outside [%ds, %ds]",
			domain.ErrValidation, p.IntervalSeconds, MinIntervalSeconds, MaxIntervalSeconds)
	}
	return nil
}

// Unlimited reports whether the policy retries without an attempt budget.
func (p RetryPolicy) Unlimited() bool { return p.MaxAttempts == UnlimitedAttempts }
