package fx

import "math"

// Distortion drives the signal into tanh saturation and rolls off highs with
// a one-pole blend against the previous output.
type Distortion struct {
	base

	drive float64
	tone  float64
	level float64

	// state holds the previous output per channel.
	state []float64
}

// NewDistortion returns a Distortion with drive 0.5, tone 0.5 and level 0.7.
func NewDistortion() *Distortion {
	d := &Distortion{drive: 0.5, tone: 0.5, level: 0.7}
	d.base = newBase(NameDistortion,
		control{name: "drive", min: 0, max: 1, value: &d.drive},
		control{name: "tone", min: 0, max: 1, value: &d.tone},
		control{name: "level", min: 0, max: 1, value: &d.level},
	)
	return d
}

// SetParameter sets drive, tone or level.
func (d *Distortion) SetParameter(name string, value float64) { d.set(name, value) }

// ProcessAudio implements Effect.
func (d *Distortion) ProcessAudio(in, out []float64, frames, channels int) {
	n := frames * channels
	if d.bypass(in, out, n) || n == 0 {
		return
	}
	if len(d.state) != channels {
		d.state = make([]float64, channels)
	}

	amount := 1 + d.drive*20
	tone := d.tone
	for i, x := range in[:n] {
		ch := i % channels
		y := math.Tanh(x * amount)
		y = y*tone + d.state[ch]*(1-tone)
		d.state[ch] = y
		out[i] = y * d.level
	}
}

// Reset clears the tone filter state.
func (d *Distortion) Reset() {
	for i := range d.state {
		d.state[i] = 0
	}
}
