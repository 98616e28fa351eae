package motion

import (
	"math"
	"testing"
)

func TestEasingEndpoints(t *testing.T) {
	for name, e := range map[string]Easing{"linear": Linear, "expo": ExponentialInOut} {
		if got := e(0); got != 0 {
			t.Errorf("%s(0) = %v, want 0", name, got)
		}
		if got := e(1); got != 1 {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
	}
}

func TestExponentialInOutShape(t *testing.T) {
	if got := ExponentialInOut(0.5); got != 0.5 {
		t.Errorf("f(0.5) = %v, want 0.5", got)
	}
	// Slow at the ends, fast in the middle.
	if got := ExponentialInOut(0.1); got >= 0.1 {
		t.Errorf("f(0.1) = %v, want < 0.1", got)
	}
	if got := ExponentialInOut(0.9); got <= 0.9 {
		t.Errorf("f(0.9) = %v, want > 0.9", got)
	}
	for _, k := range []float64{0.05, 0.2, 0.35, 0.45} {
		if d := ExponentialInOut(k) + ExponentialInOut(1-k) - 1; math.Abs(d) > 1e-12 {
			t.Errorf("f(%v) + f(%v) = 1%+g, want symmetric", k, 1-k, d)
		}
	}
}

func TestExponentialInOutMonotonic(t *testing.T) {
	prev := 0.0
	for i := 1; i <= 1000; i++ {
		v := ExponentialInOut(float64(i) / 1000)
		if v < prev {
			t.Fatalf("not monotonic at k=%v: %v < %v", float64(i)/1000, v, prev)
		}
		prev = v
	}
}

func TestExponentialInOutClamps(t *testing.T) {
	if got := ExponentialInOut(-1); got != 0 {
		t.Errorf("f(-1) = %v, want 0", got)
	}
	if got := ExponentialInOut(2); got != 1 {
		t.Errorf("f(2) = %v, want 1", got)
	}
}
