package dynamics_test

import (
	"fmt"

	"github.com/RJF-72/WarriorPlug-Ins/dsp/dynamics"
)

func ExampleCompressor_OutputLevel() {
	c, err := dynamics.NewCompressor(48000,
		dynamics.WithThreshold(-20),
		dynamics.WithRatio(4),
	)
	if err != nil {
		panic(err)
	}

	for _, in := range []float64{-30, -20, -8} {
		fmt.Printf("%.0f dB -> %.0f dB\n", in, c.OutputLevel(in))
	}
	// Output:
	// -30 dB -> -30 dB
	// -20 dB -> -20 dB
	// -8 dB -> -17 dB
}
