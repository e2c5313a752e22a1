package jitter

import (
	"testing"
	"time"
)

func TestDurationBounds(t *testing.T) {
	base := 100 * time.Millisecond
	for i := 0; i < 100; i++ {
		d := Duration(base, DefaultJitter)
		if d < base || d > base+base/2 {
			t.Fatalf("duration %v out of [%v, %v]", d, base, base+base/2)
		}
	}
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{10, 5 * time.Second},
	}

	for _, tt := range tests {
		got := ExponentialBackoff(time.Second, 5*time.Second, tt.attempt, 0)
		if got != tt.want {
			t.Errorf("attempt %d: got %v, want %v", tt.attempt, got, tt.want)
		}
	}
}
