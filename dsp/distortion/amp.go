package distortion

import (
	"fmt"
	"math"

	"github.com/RJF-72/WarriorPlug-Ins/dsp/filter/biquad"
	"github.com/RJF-72/WarriorPlug-Ins/dsp/filter/design"
)

// NumStages is the number of gain stages in an Amp.
const NumStages = 3

const (
	bassHz         = 200.0
	midHz          = 1000.0
	trebleHz       = 5000.0
	toneQ          = 0.7
	defaultCabHz   = 4000.0
	maxToneGainDB  = 24.0
	cabSecondScale = 1.5
	cabSecondQ     = 1.0
)

// Amp chains up to three gain stages, a bass/mid/treble tone stack and an
// optional two-pole cabinet low-pass.
type Amp struct {
	sampleRate float64

	inputGain  float64
	outputGain float64

	stages  [NumStages]*Stage
	enabled [NumStages]bool

	bass, mid, treble *biquad.Filter

	cabEnabled bool
	cabHz      float64
	cab1, cab2 *biquad.Filter
}

// NewAmp returns an amp with the first stage enabled, a flat tone stack and
// the cabinet filter off.
func NewAmp(sampleRate float64) (*Amp, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("amp sample rate must be > 0 and finite: %f", sampleRate)
	}

	a := &Amp{
		sampleRate: sampleRate,
		inputGain:  1,
		outputGain: 1,
		bass:       biquad.New(biquad.Identity),
		mid:        biquad.New(biquad.Identity),
		treble:     biquad.New(biquad.Identity),
		cab1:       biquad.New(biquad.Identity),
		cab2:       biquad.New(biquad.Identity),
	}
	for i := range a.stages {
		s, err := NewStage(sampleRate)
		if err != nil {
			return nil, err
		}
		a.stages[i] = s
	}
	a.enabled[0] = true

	if err := a.SetToneStack(0, 0, 0); err != nil {
		return nil, err
	}
	if err := a.SetCabinet(false, defaultCabHz); err != nil {
		return nil, err
	}
	return a, nil
}

// Stage returns gain stage i, or nil when i is out of range.
func (a *Amp) Stage(i int) *Stage {
	if i < 0 || i >= NumStages {
		return nil
	}
	return a.stages[i]
}

// EnableStage switches stage i in or out of the signal path.
func (a *Amp) EnableStage(i int, on bool) {
	if i >= 0 && i < NumStages {
		a.enabled[i] = on
	}
}

// SetInputGain sets the gain applied before the stages, in dB.
func (a *Amp) SetInputGain(db float64) { a.inputGain = math.Pow(10, db/20) }

// SetOutputGain sets the gain applied after the cabinet, in dB.
func (a *Amp) SetOutputGain(db float64) { a.outputGain = math.Pow(10, db/20) }

// SetToneStack sets the bass shelf (200 Hz), mid peak (1 kHz) and treble
// shelf (5 kHz) gains in dB.
func (a *Amp) SetToneStack(bassDB, midDB, trebleDB float64) error {
	for _, g := range []float64{bassDB, midDB, trebleDB} {
		if math.Abs(g) > maxToneGainDB || math.IsNaN(g) {
			return fmt.Errorf("tone stack gain must be in [-%g, %g]: %f", maxToneGainDB, maxToneGainDB, g)
		}
	}

	nyq := 0.45 * a.sampleRate
	bands := []struct {
		f   *biquad.Filter
		typ design.Type
		hz  float64
		db  float64
	}{
		{a.bass, design.LowShelf, bassHz, bassDB},
		{a.mid, design.Peak, midHz, midDB},
		{a.treble, design.HighShelf, trebleHz, trebleDB},
	}
	for _, b := range bands {
		c, err := design.Biquad(b.typ, math.Min(b.hz, nyq), toneQ, b.db, a.sampleRate)
		if err != nil {
			return fmt.Errorf("tone stack: %w", err)
		}
		b.f.SetCoefficients(c)
	}
	return nil
}

// SetCabinet toggles the cabinet filter and sets its cutoff.
func (a *Amp) SetCabinet(enabled bool, cutoffHz float64) error {
	nyq := 0.45 * a.sampleRate
	c1, err := design.Biquad(design.LowPass, math.Min(cutoffHz, nyq), toneQ, 0, a.sampleRate)
	if err != nil {
		return fmt.Errorf("cabinet: %w", err)
	}
	c2, err := design.Biquad(design.LowPass, math.Min(cutoffHz*cabSecondScale, nyq), cabSecondQ, 0, a.sampleRate)
	if err != nil {
		return fmt.Errorf("cabinet: %w", err)
	}
	a.cab1.SetCoefficients(c1)
	a.cab2.SetCoefficients(c2)
	a.cabEnabled = enabled
	a.cabHz = cutoffHz
	return nil
}

// Cabinet reports whether the cabinet filter is on and its cutoff in Hz.
func (a *Amp) Cabinet() (bool, float64) { return a.cabEnabled, a.cabHz }

// ProcessSample runs one sample through the amp.
func (a *Amp) ProcessSample(x float64) float64 {
	y := x * a.inputGain
	for i, s := range a.stages {
		if a.enabled[i] {
			y = s.ProcessSample(y)
		}
	}

	y = a.bass.ProcessSample(y)
	y = a.mid.ProcessSample(y)
	y = a.treble.ProcessSample(y)

	if a.cabEnabled {
		y = a.cab2.ProcessSample(a.cab1.ProcessSample(y))
	}
	return y * a.outputGain
}

// ProcessBlock processes buf in place.
func (a *Amp) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = a.ProcessSample(x)
	}
}

// Reset clears all filter history.
func (a *Amp) Reset() {
	for _, s := range a.stages {
		s.Reset()
	}
	for _, f := range []*biquad.Filter{a.bass, a.mid, a.treble, a.cab1, a.cab2} {
		f.Reset()
	}
}
