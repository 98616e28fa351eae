package motion

import "math"

// Easing maps linear progress k in [0, 1] to eased progress. Every easing
// returns exactly 0 at k=0 and exactly 1 at k=1.
type Easing func(k float64) float64

// Linear is the identity easing.
func Linear(k float64) float64 { return k }

// ExponentialInOut starts and ends slowly and moves fastest at the midpoint.
// It is symmetric: f(1-k) = 1 - f(k).
func ExponentialInOut(k float64) float64 {
	switch {
	case k <= 0:
		return 0
	case k >= 1:
		return 1
	}
	k *= 2
	if k < 1 {
		return 0.5 * math.Pow(1024, k-1)
	}
	return 0.5 * (2 - math.Pow(2, -10*(k-1)))
}
