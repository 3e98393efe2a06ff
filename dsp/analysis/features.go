// Package analysis computes the block features used for genre
// classification: RMS energy, zero-crossing rate, the cheap spectral proxies
// derived from them, and FFT-based spectral centroid and spread.
package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	centroidProxyScale = 1000.0
	spreadProxyScale   = 500.0
)

// Features describes one block of audio.
type Features struct {
	RMS              float64
	ZeroCrossingRate float64

	// Proxies derived from the two time-domain features:
	// CentroidProxy = ZeroCrossingRate*1000, SpreadProxy = RMS*500.
	CentroidProxy float64
	SpreadProxy   float64

	// Filled in by Analyzer only; zero from Compute.
	CentroidHz float64
	SpreadHz   float64
}

// Compute returns the time-domain features of block, treating interleaved
// channels as one stream. An empty block yields zero features.
func Compute(block []float64) Features {
	n := len(block)
	if n == 0 {
		return Features{}
	}

	rms := math.Sqrt(floats.Dot(block, block) / float64(n))

	crossings := 0
	for i := 1; i < n; i++ {
		if (block[i] >= 0) != (block[i-1] >= 0) {
			crossings++
		}
	}
	zcr := float64(crossings) / float64(n)

	return Features{
		RMS:              rms,
		ZeroCrossingRate: zcr,
		CentroidProxy:    zcr * centroidProxyScale,
		SpreadProxy:      rms * spreadProxyScale,
	}
}
