package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Clamp01 clamps v into [0,1]. NaN becomes 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Approach moves cur toward target by at most step, never overshooting.
func Approach(cur, target, step float64) float64 {
	if cur < target {
		return math.Min(target, cur+step)
	}
	if cur > target {
		return math.Max(target, cur-step)
	}
	return cur
}
