package fx

import "github.com/RJF-72/WarriorPlug-Ins/dsp/delay"

var reverbLengths = [3]int{2048, 3072, 4096}

// reverbFeedbackScale sets each line's share of roomSize*damping.
var reverbFeedbackScale = [3]float64{1, 0.8, 0.6}

const reverbWetScale = 0.33

// Reverb is a three-line feedback delay network. The lines run over the
// interleaved stream; their lengths are even, so stereo channels stay apart.
type Reverb struct {
	base

	roomSize float64
	damping  float64
	wetLevel float64
	dryLevel float64

	lines [3]*delay.Line
}

// NewReverb returns a Reverb with roomSize 0.5, damping 0.5, wetLevel 0.3
// and dryLevel 0.7.
func NewReverb() *Reverb {
	r := &Reverb{roomSize: 0.5, damping: 0.5, wetLevel: 0.3, dryLevel: 0.7}
	r.base = newBase(NameReverb,
		control{name: "roomSize", min: 0, max: 1, value: &r.roomSize},
		control{name: "damping", min: 0, max: 1, value: &r.damping},
		control{name: "wetLevel", min: 0, max: 1, value: &r.wetLevel},
		control{name: "dryLevel", min: 0, max: 1, value: &r.dryLevel},
	)
	for i, n := range reverbLengths {
		// Lengths are positive constants.
		r.lines[i], _ = delay.New(n)
	}
	return r
}

// SetParameter sets roomSize, damping, wetLevel or dryLevel.
func (r *Reverb) SetParameter(name string, value float64) { r.set(name, value) }

// ProcessAudio implements Effect.
func (r *Reverb) ProcessAudio(in, out []float64, frames, channels int) {
	n := frames * channels
	if r.bypass(in, out, n) {
		return
	}

	var fb [3]float64
	for i, s := range reverbFeedbackScale {
		fb[i] = r.roomSize * r.damping * s
	}
	for i, x := range in[:n] {
		var sum float64
		for j, l := range r.lines {
			sum += l.ProcessSample(x, float64(reverbLengths[j]), fb[j])
		}
		out[i] = x*r.dryLevel + sum*reverbWetScale*r.wetLevel
	}
}

// Reset clears the delay lines.
func (r *Reverb) Reset() {
	for _, l := range r.lines {
		l.Reset()
	}
}
