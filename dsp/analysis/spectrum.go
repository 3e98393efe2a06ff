package analysis

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Analyzer measures the power spectrum of the most recent frames of a block.
// It owns its FFT plan and scratch buffers; it is not safe for concurrent use.
type Analyzer struct {
	size       int
	sampleRate float64

	plan   *algofft.Plan[complex128]
	window []float64

	frame []float64
	spec  []complex128
	time  []complex128
	re    []float64
	im    []float64
	power []float64
}

// NewAnalyzer returns an analyzer with a Hann-windowed FFT of size points.
// size must be a power of two >= 16.
func NewAnalyzer(size int, sampleRate float64) (*Analyzer, error) {
	if size < 16 || size&(size-1) != 0 {
		return nil, fmt.Errorf("analyzer size must be a power of two >= 16: %d", size)
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("analyzer sample rate must be > 0 and finite: %f", sampleRate)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("analyzer: failed to create FFT plan: %w", err)
	}

	bins := size/2 + 1
	a := &Analyzer{
		size:       size,
		sampleRate: sampleRate,
		plan:       plan,
		window:     make([]float64, size),
		frame:      make([]float64, size),
		spec:       make([]complex128, size),
		time:       make([]complex128, size),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
		power:      make([]float64, bins),
	}
	for i := range a.window {
		a.window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(size))
	}
	return a, nil
}

// Size returns the FFT length.
func (a *Analyzer) Size() int { return a.size }

// Features returns Compute(block) with CentroidHz and SpreadHz filled in from
// the last Size() frames of block, downmixed across channels. Shorter blocks
// are zero-padded at the front.
func (a *Analyzer) Features(block []float64, channels int) (Features, error) {
	f := Compute(block)
	if channels < 1 {
		return f, fmt.Errorf("analyzer channels must be >= 1: %d", channels)
	}

	a.downmix(block, channels)
	vecmath.MulBlockInPlace(a.frame, a.window)
	for i, v := range a.frame {
		a.time[i] = complex(v, 0)
	}
	if err := a.plan.Forward(a.spec, a.time); err != nil {
		return f, fmt.Errorf("analyzer: forward FFT: %w", err)
	}

	for k := range a.power {
		a.re[k] = real(a.spec[k])
		a.im[k] = imag(a.spec[k])
	}
	vecmath.Power(a.power, a.re, a.im)

	binHz := a.sampleRate / float64(a.size)
	var total, weighted float64
	for k, p := range a.power {
		total += p
		weighted += p * float64(k) * binHz
	}
	if total == 0 {
		return f, nil
	}
	centroid := weighted / total

	var variance float64
	for k, p := range a.power {
		d := float64(k)*binHz - centroid
		variance += p * d * d
	}

	f.CentroidHz = centroid
	f.SpreadHz = math.Sqrt(variance / total)
	return f, nil
}

func (a *Analyzer) downmix(block []float64, channels int) {
	clear(a.frame)

	frames := len(block) / channels
	start := max(0, frames-a.size)
	offset := a.size - (frames - start)
	scale := 1 / float64(channels)

	for i := start; i < frames; i++ {
		var sum float64
		for c := range channels {
			sum += block[i*channels+c]
		}
		a.frame[offset+i-start] = sum * scale
	}
}
