package retry

import "time"

// BackoffStrategy determines how long to wait before a retry attempt
type BackoffStrategy interface {
	// NextDelay returns the delay before the given attempt (1-based)
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff increases the delay multiplicatively with each attempt,
// capped at MaxDelay.
type ExponentialBackoff struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultExponentialBackoff returns an exponential backoff starting at one
// second, doubling, capped at thirty seconds.
func DefaultExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// NextDelay returns the delay before the given attempt
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return b.InitialDelay
	}

	delay := float64(b.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= b.Multiplier
		if time.Duration(delay) >= b.MaxDelay {
			return b.MaxDelay
		}
	}
	return time.Duration(delay)
}

// ConstantBackoff waits the same delay before every attempt
type ConstantBackoff struct {
	Delay time.Duration
}

// NextDelay returns the configured delay regardless of attempt
func (b *ConstantBackoff) NextDelay(attempt int) time.Duration {
	return b.Delay
}
