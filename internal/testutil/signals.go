// Package testutil holds deterministic signals and tolerance checks shared
// by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// Sine returns n samples of amp*sin(2*pi*freq*i/sampleRate).
func Sine(n int, freqHz, amp, sampleRate float64) []float64 {
	out := make([]float64, n)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amp * math.Sin(step*float64(i))
	}
	return out
}

// Noise returns n samples of uniform noise in [-amp, amp] from a fixed seed.
func Noise(seed int64, amp float64, n int) []float64 {
	out := make([]float64, n)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amp
	}
	return out
}

// Impulse returns n samples with a single 1 at pos.
func Impulse(n, pos int) []float64 {
	out := make([]float64, n)
	if pos >= 0 && pos < n {
		out[pos] = 1
	}
	return out
}

// Constant returns n copies of v.
func Constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Alternating returns n samples that flip sign every period samples,
// starting at +amp. Its zero-crossing rate is close to 1/period.
func Alternating(n, period int, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		if (i/period)%2 == 0 {
			out[i] = amp
		} else {
			out[i] = -amp
		}
	}
	return out
}

// Interleave merges equal-length channels into one frame-major slice.
func Interleave(channels ...[]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}
	frames := len(channels[0])
	out := make([]float64, frames*len(channels))
	for c, ch := range channels {
		for f := 0; f < frames && f < len(ch); f++ {
			out[f*len(channels)+c] = ch[f]
		}
	}
	return out
}

// RMS returns the root mean square of x, 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}
