package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	t.Parallel()

	d, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.5, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 1 {
		t.Fatalf("MaxAbsDiff = %v, want 1", d)
	}
	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestRequireHelpersPass(t *testing.T) {
	t.Parallel()

	RequireNear(t, "x", 1.0000001, 1, 1e-6)
	RequireSliceNear(t, []float64{1, 2}, []float64{1.0000001, 2}, 1e-6)
	RequireFinite(t, []float64{0, -1, math.MaxFloat64})
}
