//go:build fastmath

package dynamics

import (
	"github.com/meko-christian/algo-approx"
)

const ln10 = 2.302585092994045684017991454684

func mathExp(x float64) float64 {
	return approx.FastExp(x)
}

// mathLog10 uses log10(x) = ln(x) / ln(10).
func mathLog10(x float64) float64 {
	return approx.FastLog(x) / ln10
}

// mathPow10 uses 10^x = e^(x * ln(10)).
func mathPow10(x float64) float64 {
	return approx.FastExp(x * ln10)
}
