package analysis

import (
	"math"
	"testing"
)

func TestComputeEmptyBlock(t *testing.T) {
	t.Parallel()

	if f := Compute(nil); f != (Features{}) {
		t.Fatalf("Compute(nil) = %+v, want zero", f)
	}
}

func TestComputeSquareWave(t *testing.T) {
	t.Parallel()

	// Period of 10 samples at amplitude 0.9: RMS 0.9 and a crossing every
	// 5 samples.
	block := make([]float64, 1000)
	for i := range block {
		if (i/5)%2 == 0 {
			block[i] = 0.9
		} else {
			block[i] = -0.9
		}
	}

	f := Compute(block)
	if math.Abs(f.RMS-0.9) > 1e-12 {
		t.Fatalf("RMS = %v, want 0.9", f.RMS)
	}
	if math.Abs(f.ZeroCrossingRate-199.0/1000) > 1e-12 {
		t.Fatalf("ZCR = %v, want 0.199", f.ZeroCrossingRate)
	}
	if math.Abs(f.CentroidProxy-199) > 1e-9 {
		t.Fatalf("CentroidProxy = %v, want 199", f.CentroidProxy)
	}
	if math.Abs(f.SpreadProxy-450) > 1e-9 {
		t.Fatalf("SpreadProxy = %v, want 450", f.SpreadProxy)
	}
}

func TestComputeZeroCountsAsPositive(t *testing.T) {
	t.Parallel()

	f := Compute([]float64{0, 0.5, 0, -0.5})
	if math.Abs(f.ZeroCrossingRate-0.25) > 1e-12 {
		t.Fatalf("ZCR = %v, want 0.25", f.ZeroCrossingRate)
	}
}

func TestAnalyzerCentroidOfSine(t *testing.T) {
	t.Parallel()

	const fs = 48000.0
	a, err := NewAnalyzer(2048, fs)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	// 3 kHz lands exactly on bin 128.
	block := make([]float64, 4096)
	for i := range block {
		block[i] = 0.5 * math.Sin(2*math.Pi*3000*float64(i)/fs)
	}

	f, err := a.Features(block, 1)
	if err != nil {
		t.Fatalf("Features() error = %v", err)
	}
	if math.Abs(f.CentroidHz-3000) > 5 {
		t.Fatalf("CentroidHz = %v, want ~3000", f.CentroidHz)
	}
	if f.SpreadHz > 50 {
		t.Fatalf("SpreadHz = %v, want a narrow line", f.SpreadHz)
	}
}

func TestAnalyzerStereoDownmixAndSilence(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(256, 44100)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}

	// Opposite-polarity channels cancel in the downmix.
	block := make([]float64, 200)
	for i := 0; i < len(block); i += 2 {
		block[i] = 0.3
		block[i+1] = -0.3
	}
	f, err := a.Features(block, 2)
	if err != nil {
		t.Fatalf("Features() error = %v", err)
	}
	if f.CentroidHz != 0 || f.SpreadHz != 0 {
		t.Fatalf("cancelled downmix should have no spectrum: %+v", f)
	}
	if math.Abs(f.RMS-0.3) > 1e-12 {
		t.Fatalf("RMS = %v, want 0.3", f.RMS)
	}

	if _, err := a.Features(block, 0); err == nil {
		t.Fatal("expected error for zero channels")
	}
}

func TestNewAnalyzerValidation(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 8, 100, 1000} {
		if _, err := NewAnalyzer(size, 48000); err == nil {
			t.Errorf("size %d: expected error", size)
		}
	}
	if _, err := NewAnalyzer(1024, 0); err == nil {
		t.Error("zero sample rate: expected error")
	}
}
