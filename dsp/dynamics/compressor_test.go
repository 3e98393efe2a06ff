package dynamics

import (
	"math"
	"testing"
)

func mustCompressor(t *testing.T, opts ...Option) *Compressor {
	t.Helper()
	c, err := NewCompressor(48000, opts...)
	if err != nil {
		t.Fatalf("NewCompressor() error = %v", err)
	}
	return c
}

func TestNewCompressorValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sampleRate float64
		opts       []Option
		wantErr    bool
	}{
		{"defaults", 48000, nil, false},
		{"zero rate", 0, nil, true},
		{"NaN rate", math.NaN(), nil, true},
		{"ratio below 1", 48000, []Option{WithRatio(0.5)}, true},
		{"positive threshold", 48000, []Option{WithThreshold(3)}, true},
		{"knee too wide", 48000, []Option{WithKnee(30)}, true},
		{"attack zero", 48000, []Option{WithAttack(0)}, true},
		{"release huge", 48000, []Option{WithRelease(1e6)}, true},
		{"lookahead negative", 48000, []Option{WithLookahead(-1)}, true},
		{"all valid", 44100, []Option{WithThreshold(-30), WithRatio(8), WithKnee(6), WithLookahead(5)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewCompressor(tt.sampleRate, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewCompressor() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTimeCoefficient(t *testing.T) {
	t.Parallel()

	got := TimeCoefficient(10, 48000)
	want := math.Exp(-1 / (10 * 0.001 * 48000))
	if math.Abs(got-want) > 1e-15 {
		t.Fatalf("TimeCoefficient = %v, want %v", got, want)
	}
	if TimeCoefficient(0, 48000) != 0 {
		t.Fatal("zero time must give an instant coefficient")
	}
}

func TestHardKneeCurve(t *testing.T) {
	t.Parallel()

	c := mustCompressor(t, WithThreshold(-20), WithRatio(4))

	tests := []struct {
		in, want float64
	}{
		{-40, -40},
		{-20, -20},
		{-12, -18},
		{0, -15},
	}
	for _, tt := range tests {
		if got := c.OutputLevel(tt.in); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("OutputLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSoftKneeIsContinuousAtEdges(t *testing.T) {
	t.Parallel()

	c := mustCompressor(t, WithThreshold(-20), WithRatio(4), WithKnee(6))
	hard := mustCompressor(t, WithThreshold(-20), WithRatio(4))

	if got := c.OutputLevel(-23); math.Abs(got+23) > 1e-12 {
		t.Fatalf("knee start = %v, want -23", got)
	}
	if got, want := c.OutputLevel(-17), hard.OutputLevel(-17); math.Abs(got-want) > 1e-12 {
		t.Fatalf("knee end = %v, want %v", got, want)
	}
	// At the threshold the soft curve already reduces gain.
	if got := c.OutputLevel(-20); got >= -20 || got <= -23 {
		t.Fatalf("OutputLevel(-20) = %v, want inside (-23, -20)", got)
	}
}

func TestBelowThresholdIsUnityGain(t *testing.T) {
	t.Parallel()

	c := mustCompressor(t, WithThreshold(-6))
	for i := range 4800 {
		x := 0.1 * math.Sin(2*math.Pi*440*float64(i)/48000)
		if got := c.ProcessSample(x); got != x {
			t.Fatalf("sample %d: got %v, want %v", i, got, x)
		}
	}
	if c.GainReduction() != 0 {
		t.Fatalf("GainReduction = %v, want 0", c.GainReduction())
	}
}

func TestConstantInputConvergesToRatio(t *testing.T) {
	t.Parallel()

	c := mustCompressor(t, WithThreshold(-20), WithRatio(4), WithAttack(1))

	const level = 0.5
	var y float64
	for range 48000 {
		y = c.ProcessSample(level)
	}

	inDB := 20 * math.Log10(level)
	wantDB := -20 + (inDB+20)/4
	gotDB := 20 * math.Log10(y)
	if math.Abs(gotDB-wantDB) > 0.01 {
		t.Fatalf("steady-state output = %.4f dB, want %.4f dB", gotDB, wantDB)
	}
	if math.Abs(c.GainReduction()-(wantDB-inDB)) > 0.01 {
		t.Fatalf("GainReduction = %.4f, want %.4f", c.GainReduction(), wantDB-inDB)
	}
}

func TestAutoMakeupIsPositive(t *testing.T) {
	t.Parallel()

	c := mustCompressor(t, WithThreshold(-20), WithRatio(4), WithAutoMakeup(true))
	if got := c.MakeupGain(); math.Abs(got-7.5) > 1e-12 {
		t.Fatalf("MakeupGain = %v, want 7.5", got)
	}

	c.SetAutoMakeup(false)
	if got := c.MakeupGain(); got != 0 {
		t.Fatalf("manual MakeupGain = %v, want 0", got)
	}
}

func TestLookaheadDelaysProgram(t *testing.T) {
	t.Parallel()

	c := mustCompressor(t, WithLookahead(1))
	n := c.Latency()
	if n != 48 {
		t.Fatalf("Latency = %d, want 48", n)
	}

	for i := 0; i < n; i++ {
		x := 0.0
		if i == 0 {
			x = 0.01
		}
		if got := c.ProcessSample(x); got != 0 {
			t.Fatalf("sample %d leaked through look-ahead: %v", i, got)
		}
	}
	if got := c.ProcessSample(0); got != 0.01 {
		t.Fatalf("delayed impulse = %v, want 0.01", got)
	}
}

func TestResetRestoresInitialResponse(t *testing.T) {
	t.Parallel()

	c := mustCompressor(t, WithThreshold(-30))
	in := make([]float64, 256)
	for i := range in {
		in[i] = 0.8 * math.Sin(float64(i)*0.1)
	}

	first := append([]float64(nil), in...)
	c.ProcessBlock(first)
	c.Reset()
	second := append([]float64(nil), in...)
	c.ProcessBlock(second)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after Reset: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestLevelConversions(t *testing.T) {
	t.Parallel()

	if LinearToDB(0) != FloorDB || LinearToDB(-1) != FloorDB {
		t.Fatal("non-positive amplitude must map to the floor")
	}
	if got := LinearToDB(1); got != 0 {
		t.Fatalf("LinearToDB(1) = %v", got)
	}
	if got := DBToLinear(-6.0206); math.Abs(got-0.5) > 1e-4 {
		t.Fatalf("DBToLinear(-6.02) = %v", got)
	}
	if DBToLinear(FloorDB) != 0 {
		t.Fatal("floor must map to silence")
	}
}

func TestSettersValidate(t *testing.T) {
	t.Parallel()

	c := mustCompressor(t)
	if err := c.SetRatio(0); err == nil {
		t.Error("SetRatio(0) should fail")
	}
	if err := c.SetAttack(math.Inf(1)); err == nil {
		t.Error("SetAttack(+Inf) should fail")
	}
	if err := c.SetRelease(250); err != nil || c.Release() != 250 {
		t.Errorf("SetRelease(250) = %v, Release() = %v", err, c.Release())
	}
	if err := c.SetKnee(12); err != nil || c.Knee() != 12 {
		t.Errorf("SetKnee(12) = %v, Knee() = %v", err, c.Knee())
	}
}
