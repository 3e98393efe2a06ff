//go:build !fastmath

package dynamics

import "math"

func mathExp(x float64) float64 {
	return math.Exp(x)
}

func mathLog10(x float64) float64 {
	return math.Log10(x)
}

func mathPow10(x float64) float64 {
	return math.Pow(10, x)
}
