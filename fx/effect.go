package fx

import "math"

// Effect names as used by presets, the registry and parameter ids.
const (
	NameDistortion = "Distortion"
	NameReverb     = "Reverb"
	NameCompressor = "Compressor"
	NameEQ         = "3-Band EQ"
	NameAmp        = "Amp"
	NameTremolo    = "Tremolo"
)

// Parameter describes one effect control. It is a copy; changing it does not
// affect the effect.
type Parameter struct {
	Name        string
	Value       float64
	Min         float64
	Max         float64
	Unit        string
	Automatable bool
}

// Effect is one stateful processor in a chain.
//
// ProcessAudio reads frames*channels interleaved samples from in and writes
// the same count to out. in and out must not overlap. A disabled effect
// copies in to out.
type Effect interface {
	Name() string
	ProcessAudio(in, out []float64, frames, channels int)
	SetParameter(name string, value float64)
	Parameter(name string) float64
	Parameters() []Parameter
	Reset()
	Enabled() bool
	SetEnabled(enabled bool)
}

// control binds a parameter description to the field holding its value.
type control struct {
	name  string
	min   float64
	max   float64
	unit  string
	value *float64
}

// base carries the bookkeeping shared by all effects.
type base struct {
	name     string
	enabled  bool
	controls []control
}

func newBase(name string, controls ...control) base {
	return base{name: name, enabled: true, controls: controls}
}

func (b *base) Name() string { return b.name }

func (b *base) Enabled() bool { return b.enabled }

func (b *base) SetEnabled(enabled bool) { b.enabled = enabled }

func (b *base) Parameter(name string) float64 {
	if c := b.lookup(name); c != nil {
		return *c.value
	}
	return 0
}

func (b *base) Parameters() []Parameter {
	out := make([]Parameter, len(b.controls))
	for i, c := range b.controls {
		out[i] = Parameter{
			Name:        c.name,
			Value:       *c.value,
			Min:         c.min,
			Max:         c.max,
			Unit:        c.unit,
			Automatable: true,
		}
	}
	return out
}

// set clamps v into the control's range and stores it. It reports whether
// the name is known and v was a number.
func (b *base) set(name string, v float64) bool {
	c := b.lookup(name)
	if c == nil || math.IsNaN(v) {
		return false
	}
	*c.value = math.Max(c.min, math.Min(c.max, v))
	return true
}

func (b *base) lookup(name string) *control {
	for i := range b.controls {
		if b.controls[i].name == name {
			return &b.controls[i]
		}
	}
	return nil
}

// bypass copies in to out when the effect is disabled and reports whether
// it did.
func (b *base) bypass(in, out []float64, n int) bool {
	if b.enabled {
		return false
	}
	copy(out[:n], in[:n])
	return true
}
