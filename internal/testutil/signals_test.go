package testutil

import (
	"math"
	"testing"
)

func TestSine(t *testing.T) {
	t.Parallel()

	s := Sine(48, 1000, 1, 48000)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	// A quarter period at 1 kHz / 48 kHz is 12 samples.
	if math.Abs(s[12]-1) > 1e-12 {
		t.Fatalf("s[12] = %v, want 1", s[12])
	}
}

func TestNoiseIsSeeded(t *testing.T) {
	t.Parallel()

	a := Noise(42, 1, 64)
	b := Noise(42, 1, 64)
	c := Noise(43, 1, 64)
	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed differs at %d", i)
		}
		if a[i] != c[i] {
			same = false
		}
		if math.Abs(a[i]) > 1 {
			t.Fatalf("a[%d] = %v out of range", i, a[i])
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestImpulseAndConstant(t *testing.T) {
	t.Parallel()

	imp := Impulse(8, 3)
	for i, v := range imp {
		want := 0.0
		if i == 3 {
			want = 1
		}
		if v != want {
			t.Fatalf("imp[%d] = %v, want %v", i, v, want)
		}
	}
	if got := Impulse(4, 9); got[0]+got[1]+got[2]+got[3] != 0 {
		t.Fatalf("out of range impulse = %v", got)
	}
	for i, v := range Constant(0.25, 5) {
		if v != 0.25 {
			t.Fatalf("constant[%d] = %v", i, v)
		}
	}
}

func TestAlternating(t *testing.T) {
	t.Parallel()

	got := Alternating(6, 2, 0.5)
	want := []float64{0.5, 0.5, -0.5, -0.5, 0.5, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestInterleave(t *testing.T) {
	t.Parallel()

	got := Interleave([]float64{1, 2, 3}, []float64{-1, -2, -3})
	want := []float64{1, -1, 2, -2, 3, -3}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if Interleave() != nil {
		t.Fatal("Interleave() should be nil")
	}
}

func TestRMS(t *testing.T) {
	t.Parallel()

	if got := RMS(Constant(-0.5, 10)); math.Abs(got-0.5) > 1e-15 {
		t.Fatalf("RMS = %v, want 0.5", got)
	}
	if got := RMS(Sine(4800, 100, 1, 48000)); math.Abs(got-math.Sqrt2/2) > 1e-9 {
		t.Fatalf("sine RMS = %v, want %v", got, math.Sqrt2/2)
	}
	if RMS(nil) != 0 {
		t.Fatal("RMS(nil) != 0")
	}
}
