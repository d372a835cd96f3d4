package channel

import (
	"math"
	"math/rand"
	"time"
)

const (
	// backoffFactor grows the reconnect delay per attempt.
	backoffFactor = 1.5

	// maxBackoff caps the deterministic component of the delay.
	maxBackoff = 30 * time.Second

	// cooldownPeriod is how long after reconnect exhaustion the attempt
	// counter stays saturated before resetting to zero.
	cooldownPeriod = 30 * time.Second
)

// backoffDelay computes the reconnect delay for the given 1-based attempt:
// min(base * 1.5^(attempt-1), 30s) plus random jitter in [0, jitterBound).
func backoffDelay(base time.Duration, attempt int, jitterBound time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	d := time.Duration(float64(base) * math.Pow(backoffFactor, float64(attempt-1)))
	if d > maxBackoff || d <= 0 {
		d = maxBackoff
	}
	return d + jitter(jitterBound)
}

// jitter returns a random duration in [0, bound).
func jitter(bound time.Duration) time.Duration {
	if bound <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(bound)))
}
