package worker

import "time"

// RetryPolicy decides how long the worker waits before putting a failed
// delivery back on the stream. The attempt budget itself lives with the job
// registry; the queue only paces redeliveries.
type RetryPolicy struct {
	Backoff func(attempt int) time.Duration
}

// FixedBackoff waits the same duration between every attempt.
func FixedBackoff(d time.Duration) func(int) time.Duration {
	return func(int) time.Duration {
		return d
	}
}

// ExponentialBackoff doubles the wait per attempt, capped at max.
func ExponentialBackoff(base, max time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		d := base << (attempt - 1)
		if d > max || d <= 0 {
			return max
		}
		return d
	}
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	if p.Backoff == nil {
		return 0
	}
	return p.Backoff(attempt)
}
