package channel

import (
	"math"
	"testing"
	"time"
)

func TestBackoffDelay_MonotoneWithoutJitter(t *testing.T) {
	base := 5 * time.Second

	prev := time.Duration(0)
	for attempt := 1; attempt <= 20; attempt++ {
		d := backoffDelay(base, attempt, 0)
		if d < prev {
			t.Fatalf("delay decreased: attempt %d = %v, previous = %v", attempt, d, prev)
		}
		if d > maxBackoff {
			t.Fatalf("attempt %d: delay %v exceeds cap %v", attempt, d, maxBackoff)
		}
		prev = d
	}
}

func TestBackoffDelay_Formula(t *testing.T) {
	base := 2 * time.Second

	for attempt := 1; attempt <= 5; attempt++ {
		want := time.Duration(float64(base) * math.Pow(1.5, float64(attempt-1)))
		if want > maxBackoff {
			want = maxBackoff
		}
		if got := backoffDelay(base, attempt, 0); got != want {
			t.Errorf("attempt %d: delay = %v, want %v", attempt, got, want)
		}
	}
}

func TestBackoffDelay_Cap(t *testing.T) {
	if got := backoffDelay(time.Hour, 1, 0); got != maxBackoff {
		t.Errorf("delay = %v, want cap %v", got, maxBackoff)
	}
	if got := backoffDelay(time.Second, 100, 0); got != maxBackoff {
		t.Errorf("attempt 100: delay = %v, want cap %v", got, maxBackoff)
	}
}

func TestBackoffDelay_JitterBounds(t *testing.T) {
	base := time.Second
	bound := 500 * time.Millisecond

	for attempt := 1; attempt <= 5; attempt++ {
		det := backoffDelay(base, attempt, 0)
		for i := 0; i < 50; i++ {
			d := backoffDelay(base, attempt, bound)
			if d < det {
				t.Fatalf("attempt %d: jittered delay %v below deterministic component %v", attempt, d, det)
			}
			if d >= det+bound {
				t.Fatalf("attempt %d: jittered delay %v at or above %v", attempt, d, det+bound)
			}
		}
	}
}

func TestJitter_ZeroBound(t *testing.T) {
	if got := jitter(0); got != 0 {
		t.Errorf("jitter(0) = %v, want 0", got)
	}
	if got := jitter(-time.Second); got != 0 {
		t.Errorf("jitter(-1s) = %v, want 0", got)
	}
}
