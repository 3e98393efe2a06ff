// Package design derives biquad coefficients from musical parameters using
// the Audio EQ Cookbook formulas.
package design

import (
	"fmt"
	"math"

	"github.com/RJF-72/WarriorPlug-Ins/dsp/filter/biquad"
)

// DefaultQ is the Butterworth quality factor.
const DefaultQ = 1 / math.Sqrt2

// Type selects a filter response.
type Type int

const (
	LowPass Type = iota
	HighPass
	BandPass
	Notch
	AllPass
	LowShelf
	HighShelf
	Peak
)

var typeNames = [...]string{
	LowPass:   "LowPass",
	HighPass:  "HighPass",
	BandPass:  "BandPass",
	Notch:     "Notch",
	AllPass:   "AllPass",
	LowShelf:  "LowShelf",
	HighShelf: "HighShelf",
	Peak:      "Peak",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Biquad designs a section of type t centered (or cornered) at freq Hz.
// gainDB is only used by the shelf and peak types. BandPass has 0 dB gain at
// the center frequency.
func Biquad(t Type, freq, q, gainDB, sampleRate float64) (biquad.Coefficients, error) {
	if sampleRate <= 0 || !isFinite(sampleRate) {
		return biquad.Coefficients{}, fmt.Errorf("design: sample rate must be > 0 and finite: %f", sampleRate)
	}
	if freq <= 0 || freq >= sampleRate/2 || !isFinite(freq) {
		return biquad.Coefficients{}, fmt.Errorf("design: frequency must be in (0, %g): %f", sampleRate/2, freq)
	}
	if q <= 0 || !isFinite(q) {
		return biquad.Coefficients{}, fmt.Errorf("design: Q must be > 0 and finite: %f", q)
	}
	if !isFinite(gainDB) {
		return biquad.Coefficients{}, fmt.Errorf("design: gain must be finite: %f", gainDB)
	}

	w0 := 2 * math.Pi * freq / sampleRate
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a := math.Pow(10, gainDB/40)

	var b0, b1, b2, a0, a1, a2 float64

	switch t {
	case LowPass:
		b0 = (1 - cw) / 2
		b1 = 1 - cw
		b2 = b0
		a0, a1, a2 = 1+alpha, -2*cw, 1-alpha
	case HighPass:
		b0 = (1 + cw) / 2
		b1 = -(1 + cw)
		b2 = b0
		a0, a1, a2 = 1+alpha, -2*cw, 1-alpha
	case BandPass:
		b0, b1, b2 = alpha, 0, -alpha
		a0, a1, a2 = 1+alpha, -2*cw, 1-alpha
	case Notch:
		b0, b1, b2 = 1, -2*cw, 1
		a0, a1, a2 = 1+alpha, -2*cw, 1-alpha
	case AllPass:
		b0, b1, b2 = 1-alpha, -2*cw, 1+alpha
		a0, a1, a2 = 1+alpha, -2*cw, 1-alpha
	case Peak:
		b0, b1, b2 = 1+alpha*a, -2*cw, 1-alpha*a
		a0, a1, a2 = 1+alpha/a, -2*cw, 1-alpha/a
	case LowShelf:
		s := 2 * math.Sqrt(a) * alpha
		b0 = a * ((a + 1) - (a-1)*cw + s)
		b1 = 2 * a * ((a - 1) - (a+1)*cw)
		b2 = a * ((a + 1) - (a-1)*cw - s)
		a0 = (a + 1) + (a-1)*cw + s
		a1 = -2 * ((a - 1) + (a+1)*cw)
		a2 = (a + 1) + (a-1)*cw - s
	case HighShelf:
		s := 2 * math.Sqrt(a) * alpha
		b0 = a * ((a + 1) + (a-1)*cw + s)
		b1 = -2 * a * ((a - 1) + (a+1)*cw)
		b2 = a * ((a + 1) + (a-1)*cw - s)
		a0 = (a + 1) - (a-1)*cw + s
		a1 = 2 * ((a - 1) - (a+1)*cw)
		a2 = (a + 1) - (a-1)*cw - s
	default:
		return biquad.Coefficients{}, fmt.Errorf("design: unknown filter type %v", t)
	}

	return normalize(b0, b1, b2, a0, a1, a2), nil
}

// MustBiquad is Biquad for parameters known to be valid. It panics on error.
func MustBiquad(t Type, freq, q, gainDB, sampleRate float64) biquad.Coefficients {
	c, err := Biquad(t, freq, q, gainDB, sampleRate)
	if err != nil {
		panic(err)
	}
	return c
}

func normalize(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	inv := 1 / a0
	return biquad.Coefficients{
		B0: b0 * inv,
		B1: b1 * inv,
		B2: b2 * inv,
		A1: a1 * inv,
		A2: a2 * inv,
	}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
