package resilience

import "time"

// RetryPolicy retries transient failures with a fixed backoff between
// attempts. Rate limit errors are not retried; backing off a few hundred
// milliseconds does not clear a quota.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

func NewRetryPolicy(maxRetries int, backoff time.Duration) RetryPolicy {
	if maxRetries <= 0 {
		maxRetries = 2
	}
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	return RetryPolicy{MaxRetries: maxRetries, Backoff: backoff}
}

func (r RetryPolicy) Do(fn func() error) error {
	attempts := r.MaxRetries + 1
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(r.Backoff)
		}
		if err = fn(); err == nil {
			return nil
		}
		if IsRateLimit(err) {
			return err
		}
	}
	return err
}
