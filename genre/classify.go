package genre

import "github.com/RJF-72/WarriorPlug-Ins/dsp/analysis"

// AnalyzeFeatures returns RMS, zero-crossing rate and the spectral proxies
// of an interleaved block, treating all channels as one stream.
func AnalyzeFeatures(block []float64) analysis.Features {
	return analysis.Compute(block)
}

// Classify maps block features to a genre. The first matching rule wins:
//
//	RMS > 0.8 and ZCR > 0.15     Metal
//	ZCR < 0.05 and RMS < 0.3     Jazz
//	RMS > 0.6 and ZCR > 0.1      Rock
//	centroid proxy > 2000        Electronic
//	otherwise                    Pop
func Classify(f analysis.Features) Genre {
	switch {
	case f.RMS > 0.8 && f.ZeroCrossingRate > 0.15:
		return Metal
	case f.ZeroCrossingRate < 0.05 && f.RMS < 0.3:
		return Jazz
	case f.RMS > 0.6 && f.ZeroCrossingRate > 0.1:
		return Rock
	case f.CentroidProxy > 2000:
		return Electronic
	default:
		return Pop
	}
}

// AnalyzeForGenre classifies an interleaved block. It is advisory and does
// not touch any engine state.
func AnalyzeForGenre(block []float64) Genre {
	return Classify(AnalyzeFeatures(block))
}
