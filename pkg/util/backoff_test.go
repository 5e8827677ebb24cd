package util

import (
	"testing"
	"time"
)

func TestBackoffWithJitterBounds(t *testing.T) {
	min, max := 100*time.Millisecond, time.Second
	for attempt := 1; attempt <= 40; attempt++ {
		exp := min << uint(attempt-1)
		if attempt >= 32 || exp > max || exp <= 0 {
			exp = max
		}
		for i := 0; i < 20; i++ {
			got := BackoffWithJitter(min, max, attempt)
			if got > exp || got < exp/2 {
				t.Fatalf("attempt %d: %v outside [%v, %v]", attempt, got, exp/2, exp)
			}
		}
	}
}

func TestBackoffWithJitterDefaults(t *testing.T) {
	got := BackoffWithJitter(0, 0, 0)
	if got <= 0 || got > 50*time.Millisecond {
		t.Fatalf("unexpected backoff %v", got)
	}
}
