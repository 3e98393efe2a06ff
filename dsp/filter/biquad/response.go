package biquad

import (
	"math"
	"math/cmplx"
)

// DCGain returns H(1), the gain at 0 Hz. It is the sum of an impulse
// response that converges.
func (c Coefficients) DCGain() float64 {
	den := 1 + c.A1 + c.A2
	if den == 0 {
		return math.Inf(1)
	}
	return (c.B0 + c.B1 + c.B2) / den
}

// Response evaluates H(e^jw) at freqHz.
func (c Coefficients) Response(freqHz, sampleRate float64) complex128 {
	w := 2 * math.Pi * freqHz / sampleRate
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1

	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := 1 + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2
	return num / den
}

// MagnitudeDB returns 20*log10(|H|) at freqHz.
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz, sampleRate)))
}
