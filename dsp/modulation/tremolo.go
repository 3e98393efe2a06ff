package modulation

// Tremolo modulates amplitude with an LFO. At depth d the gain swings
// between 1-d and 1.
type Tremolo struct {
	lfo *LFO
}

// NewTremolo returns a tremolo at rateHz and depth with a sine LFO.
func NewTremolo(sampleRate, rateHz, depth float64) (*Tremolo, error) {
	l, err := NewLFO(sampleRate)
	if err != nil {
		return nil, err
	}
	if err := l.SetRate(rateHz); err != nil {
		return nil, err
	}
	l.SetDepth(depth)
	return &Tremolo{lfo: l}, nil
}

// LFO exposes the modulator for rate, depth and shape changes.
func (t *Tremolo) LFO() *LFO { return t.lfo }

// NextGain returns the current gain and advances the LFO by one sample.
// Interleaved callers apply one gain to every channel of a frame.
func (t *Tremolo) NextGain() float64 {
	d := t.lfo.depth
	// Map the unscaled [-1, 1] wave onto [1-d, 1].
	w := t.lfo.waveform.Value(t.lfo.phase)
	t.lfo.Next()
	return 1 - d*0.5*(1-w)
}

// ProcessSample applies the current gain to x and advances the LFO.
func (t *Tremolo) ProcessSample(x float64) float64 {
	return x * t.NextGain()
}

// ProcessBlock modulates buf in place.
func (t *Tremolo) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = t.ProcessSample(x)
	}
}

// Reset rewinds the LFO.
func (t *Tremolo) Reset() { t.lfo.Reset() }
