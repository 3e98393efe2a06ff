// Package distortion provides stateless waveshaping curves and the filtered
// stages, tone stack and cabinet filter that wrap them into an amp.
package distortion

import "math"

// DefaultSoftClipThreshold is the knee used by Overdrive stages.
const DefaultSoftClipThreshold = 0.7

// SoftClip is linear up to threshold and compresses the excess above it
// reciprocally, approaching threshold+1 asymptotically.
func SoftClip(x, threshold float64) float64 {
	a := math.Abs(x)
	if a <= threshold {
		return x
	}
	excess := a - threshold
	return math.Copysign(threshold+excess/(1+excess), x)
}

// FastTanh is a rational tanh approximation. It saturates to ±1 outside
// [-3, 3], where the approximation reaches exactly ±1.
func FastTanh(x float64) float64 {
	switch {
	case x < -3:
		return -1
	case x > 3:
		return 1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// Tube drives x and adds an even-order term before saturating, so positive
// and negative half-waves clip differently.
func Tube(x, drive, asymmetry float64) float64 {
	d := x * drive
	return FastTanh(d + asymmetry*d*d)
}

// Bitcrush quantizes x down onto a grid of 2^bits steps per unit. bits below
// 1 is treated as 1.
func Bitcrush(x, bits float64) float64 {
	levels := math.Exp2(math.Max(1, bits))
	return math.Floor(x*levels) / levels
}

// Waveshape applies s/(1+|s|) to s = x*drive.
func Waveshape(x, drive float64) float64 {
	s := x * drive
	return s / (1 + math.Abs(s))
}
