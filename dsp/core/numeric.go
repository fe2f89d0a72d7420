package core

import "math"

// NearlyEqual reports whether a and b agree within eps, taken as an
// absolute bound near zero and a relative bound elsewhere.
func NearlyEqual(a, b, eps float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := max(1, math.Abs(a), math.Abs(b))
	return diff <= eps*scale
}

// IsProbability reports whether v lies in [0, 1]. NaN does not.
func IsProbability(v float64) bool {
	return v >= 0 && v <= 1
}
