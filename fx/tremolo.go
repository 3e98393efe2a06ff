package fx

import "github.com/RJF-72/WarriorPlug-Ins/dsp/modulation"

// Tremolo modulates amplitude with a sine LFO. All channels of a frame get
// the same gain.
type Tremolo struct {
	base

	rate  float64
	depth float64

	trem *modulation.Tremolo
}

// NewTremolo returns a Tremolo at 5 Hz and depth 0.5.
func NewTremolo(sampleRate float64) (*Tremolo, error) {
	trem, err := modulation.NewTremolo(sampleRate, 5, 0.5)
	if err != nil {
		return nil, err
	}
	t := &Tremolo{rate: 5, depth: 0.5, trem: trem}
	t.base = newBase(NameTremolo,
		control{name: "rate", min: 0.1, max: 20, unit: "Hz", value: &t.rate},
		control{name: "depth", min: 0, max: 1, value: &t.depth},
	)
	return t, nil
}

// SetParameter sets rate or depth.
func (t *Tremolo) SetParameter(name string, value float64) {
	if !t.set(name, value) {
		return
	}
	lfo := t.trem.LFO()
	// rate is clamped below any supported Nyquist frequency.
	_ = lfo.SetRate(t.rate)
	lfo.SetDepth(t.depth)
}

// ProcessAudio implements Effect.
func (t *Tremolo) ProcessAudio(in, out []float64, frames, channels int) {
	n := frames * channels
	if t.bypass(in, out, n) {
		return
	}
	for f := 0; f < frames; f++ {
		g := t.trem.NextGain()
		off := f * channels
		for c := 0; c < channels; c++ {
			out[off+c] = in[off+c] * g
		}
	}
}

// Reset rewinds the LFO.
func (t *Tremolo) Reset() { t.trem.Reset() }
