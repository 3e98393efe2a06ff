package fx

import (
	"fmt"
	"math"

	"github.com/RJF-72/WarriorPlug-Ins/dsp/filter/biquad"
	"github.com/RJF-72/WarriorPlug-Ins/dsp/filter/design"
)

// eqBandRangeDB maps a band gain of ±1 to the shelf and peak designs.
const eqBandRangeDB = 12.0

// EQ is the 3-band equalizer. The signal path adds each band's gain times
// the input; the shelf and peak coefficients are designed and kept for
// display but not run.
type EQ struct {
	base

	sampleRate float64

	lowGain  float64
	midGain  float64
	highGain float64
	lowFreq  float64
	highFreq float64

	low, mid, high biquad.Coefficients
}

// NewEQ returns a flat EQ with band edges at 250 Hz and 4 kHz.
func NewEQ(sampleRate float64) (*EQ, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("eq sample rate must be > 0 and finite: %f", sampleRate)
	}
	e := &EQ{sampleRate: sampleRate, lowFreq: 250, highFreq: 4000}
	e.base = newBase(NameEQ,
		control{name: "lowGain", min: -1, max: 1, unit: "dB", value: &e.lowGain},
		control{name: "midGain", min: -1, max: 1, unit: "dB", value: &e.midGain},
		control{name: "highGain", min: -1, max: 1, unit: "dB", value: &e.highGain},
		control{name: "lowFreq", min: 20, max: 2000, unit: "Hz", value: &e.lowFreq},
		control{name: "highFreq", min: 1000, max: 20000, unit: "Hz", value: &e.highFreq},
	)
	e.updateCoefficients()
	return e, nil
}

// SetParameter sets a band gain or edge frequency and redesigns the stored
// coefficients.
func (e *EQ) SetParameter(name string, value float64) {
	if e.set(name, value) {
		e.updateCoefficients()
	}
}

// Coefficients returns the stored low shelf, mid peak and high shelf
// sections.
func (e *EQ) Coefficients() (low, mid, high biquad.Coefficients) {
	return e.low, e.mid, e.high
}

// ProcessAudio implements Effect.
func (e *EQ) ProcessAudio(in, out []float64, frames, channels int) {
	n := frames * channels
	if e.bypass(in, out, n) {
		return
	}
	gain := 1 + e.lowGain + e.midGain + e.highGain
	for i, x := range in[:n] {
		out[i] = x * gain
	}
}

// Reset is a no-op; the signal path holds no state.
func (e *EQ) Reset() {}

func (e *EQ) updateCoefficients() {
	nyq := 0.45 * e.sampleRate
	lo := math.Min(e.lowFreq, nyq)
	hi := math.Min(e.highFreq, nyq)
	center := math.Sqrt(lo * hi)

	e.low = designOrIdentity(design.LowShelf, lo, e.lowGain*eqBandRangeDB, e.sampleRate)
	e.mid = designOrIdentity(design.Peak, center, e.midGain*eqBandRangeDB, e.sampleRate)
	e.high = designOrIdentity(design.HighShelf, hi, e.highGain*eqBandRangeDB, e.sampleRate)
}

func designOrIdentity(t design.Type, freq, gainDB, sampleRate float64) biquad.Coefficients {
	c, err := design.Biquad(t, freq, design.DefaultQ, gainDB, sampleRate)
	if err != nil {
		return biquad.Identity
	}
	return c
}
