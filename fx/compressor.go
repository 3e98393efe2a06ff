package fx

import (
	"math"

	"github.com/RJF-72/WarriorPlug-Ins/dsp/dynamics"
)

// Compressor adapts the dynamics engine to chain parameters: threshold is a
// linear amplitude, attack and release are seconds and makeupGain is a
// linear multiplier. Channels share one detector.
type Compressor struct {
	base

	threshold  float64
	ratio      float64
	attack     float64
	release    float64
	makeupGain float64

	engine *dynamics.Compressor
}

// NewCompressor returns a Compressor with threshold 0.7, ratio 4:1, attack
// 3 ms, release 100 ms and unity makeup gain.
func NewCompressor(sampleRate float64) (*Compressor, error) {
	engine, err := dynamics.NewCompressor(sampleRate)
	if err != nil {
		return nil, err
	}
	c := &Compressor{
		threshold:  0.7,
		ratio:      4,
		attack:     0.003,
		release:    0.1,
		makeupGain: 1,
		engine:     engine,
	}
	c.base = newBase(NameCompressor,
		control{name: "threshold", min: 0, max: 1, value: &c.threshold},
		control{name: "ratio", min: 1, max: 20, unit: ":1", value: &c.ratio},
		control{name: "attack", min: 0.001, max: 1, unit: "s", value: &c.attack},
		control{name: "release", min: 0.01, max: 5, unit: "s", value: &c.release},
		control{name: "makeupGain", min: 0, max: 4, unit: "x", value: &c.makeupGain},
	)
	c.apply()
	return c, nil
}

// SetParameter sets threshold, ratio, attack, release or makeupGain.
func (c *Compressor) SetParameter(name string, value float64) {
	if c.set(name, value) {
		c.apply()
	}
}

// GainReduction returns the engine's most recent gain in dB.
func (c *Compressor) GainReduction() float64 { return c.engine.GainReduction() }

// ProcessAudio implements Effect.
func (c *Compressor) ProcessAudio(in, out []float64, frames, channels int) {
	n := frames * channels
	if c.bypass(in, out, n) {
		return
	}
	for i, x := range in[:n] {
		out[i] = c.engine.ProcessSample(x) * c.makeupGain
	}
}

// Reset clears the envelope.
func (c *Compressor) Reset() { c.engine.Reset() }

// apply pushes the clamped parameters into the engine. Every clamped value
// lies inside the engine's accepted ranges.
func (c *Compressor) apply() {
	_ = c.engine.SetThreshold(math.Min(0, dynamics.LinearToDB(c.threshold)))
	_ = c.engine.SetRatio(c.ratio)
	_ = c.engine.SetAttack(c.attack * 1000)
	_ = c.engine.SetRelease(c.release * 1000)
}
