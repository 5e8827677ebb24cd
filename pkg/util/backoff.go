package util

import (
	"math/rand"
	"time"
)

// BackoffWithJitter returns an exponential delay for the given 1-based attempt,
// capped at max and reduced by up to 50% jitter.
func BackoffWithJitter(min, max time.Duration, attempt int) time.Duration {
	if min <= 0 {
		min = 50 * time.Millisecond
	}
	if max < min {
		max = min
	}
	if attempt < 1 {
		attempt = 1
	}
	exp := max
	if attempt < 32 {
		if d := min * time.Duration(1<<uint(attempt-1)); d > 0 && d < max {
			exp = d
		}
	}
	half := int64(exp) / 2
	if half <= 0 {
		return exp
	}
	return exp - time.Duration(rand.Int63n(half))
}
