// Package modulation provides the low-frequency oscillator and the
// amplitude modulator built on it.
package modulation

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// Waveform selects the LFO shape.
type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Square
	Sawtooth
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "Sine"
	case Triangle:
		return "Triangle"
	case Square:
		return "Square"
	case Sawtooth:
		return "Sawtooth"
	default:
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
}

// Value evaluates waveform w at phase radians. The result is in [-1, 1];
// unknown waveforms yield 0.
func (w Waveform) Value(phase float64) float64 {
	switch w {
	case Sine:
		return math.Sin(phase)
	case Triangle:
		p := phase / twoPi
		p -= math.Floor(p)
		if p < 0.5 {
			return 4*p - 1
		}
		return 3 - 4*p
	case Square:
		if math.Sin(phase) > 0 {
			return 1
		}
		return -1
	case Sawtooth:
		p := phase / twoPi
		return 2 * (p - math.Floor(p+0.5))
	default:
		return 0
	}
}

// LFO is a phase accumulator wrapping at 2π.
type LFO struct {
	sampleRate float64
	rateHz     float64
	depth      float64
	waveform   Waveform

	phase float64
	inc   float64
}

// NewLFO returns a 1 Hz full-depth sine LFO.
func NewLFO(sampleRate float64) (*LFO, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("lfo sample rate must be > 0 and finite: %f", sampleRate)
	}
	l := &LFO{sampleRate: sampleRate, depth: 1, waveform: Sine}
	if err := l.SetRate(1); err != nil {
		return nil, err
	}
	return l, nil
}

// SetRate sets the frequency in Hz.
func (l *LFO) SetRate(hz float64) error {
	if hz < 0 || hz >= l.sampleRate/2 || math.IsNaN(hz) {
		return fmt.Errorf("lfo rate must be in [0, %g): %f", l.sampleRate/2, hz)
	}
	l.rateHz = hz
	l.inc = twoPi * hz / l.sampleRate
	return nil
}

// Rate returns the frequency in Hz.
func (l *LFO) Rate() float64 { return l.rateHz }

// SetDepth sets the output scale, clamped to [0, 1].
func (l *LFO) SetDepth(depth float64) { l.depth = math.Max(0, math.Min(1, depth)) }

// Depth returns the output scale.
func (l *LFO) Depth() float64 { return l.depth }

// SetWaveform selects the shape.
func (l *LFO) SetWaveform(w Waveform) { l.waveform = w }

// Waveform returns the shape.
func (l *LFO) Waveform() Waveform { return l.waveform }

// SetPhase moves the accumulator to phase radians, wrapped into [0, 2π).
func (l *LFO) SetPhase(phase float64) {
	l.phase = math.Mod(phase, twoPi)
	if l.phase < 0 {
		l.phase += twoPi
	}
}

// Phase returns the accumulator in radians.
func (l *LFO) Phase() float64 { return l.phase }

// Next returns the current value scaled by depth and advances the phase.
func (l *LFO) Next() float64 {
	v := l.waveform.Value(l.phase) * l.depth
	l.phase += l.inc
	if l.phase >= twoPi {
		l.phase -= twoPi
	}
	return v
}

// ProcessBlock fills dst with consecutive LFO values.
func (l *LFO) ProcessBlock(dst []float64) {
	for i := range dst {
		dst[i] = l.Next()
	}
}

// Reset rewinds the phase to zero.
func (l *LFO) Reset() { l.phase = 0 }
