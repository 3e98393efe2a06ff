package buffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRing(t *testing.T, capacity int) *Ring {
	t.Helper()
	r, err := NewRing(capacity)
	require.NoError(t, err)
	return r
}

func requireInvariant(t *testing.T, r *Ring) {
	t.Helper()
	require.Equal(t, r.Cap()-1, r.Available()+r.Space())
}

func TestNewRingRejectsTinyCapacity(t *testing.T) {
	for _, c := range []int{-1, 0, 1} {
		_, err := NewRing(c)
		assert.Error(t, err, "capacity %d", c)
	}
}

func TestRingEmptyState(t *testing.T) {
	r := newTestRing(t, 8)
	assert.Equal(t, 0, r.Available())
	assert.Equal(t, 7, r.Space())
	assert.Equal(t, 0, r.Read(make([]float64, 4)))
	requireInvariant(t, r)
}

func TestRingShortWriteWhenFull(t *testing.T) {
	r := newTestRing(t, 8)

	n := r.Write([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	assert.Equal(t, 7, n)
	assert.Equal(t, 0, r.Space())
	assert.Equal(t, 0, r.Write([]float64{11}))
	requireInvariant(t, r)

	out := make([]float64, 10)
	assert.Equal(t, 7, r.Read(out))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7}, out[:7])
	requireInvariant(t, r)
}

func TestRingWrapAround(t *testing.T) {
	r := newTestRing(t, 5)
	out := make([]float64, 3)

	var want, got []float64
	next := 0.0
	for range 20 {
		chunk := []float64{next, next + 1, next + 2}
		n := r.Write(chunk)
		want = append(want, chunk[:n]...)
		next += float64(n)
		requireInvariant(t, r)

		m := r.Read(out)
		got = append(got, out[:m]...)
		requireInvariant(t, r)
	}
	m := r.Read(out)
	got = append(got, out[:m]...)

	assert.Equal(t, want, got)
}

func TestRingReset(t *testing.T) {
	r := newTestRing(t, 6)
	r.Write([]float64{1, 2, 3})
	r.Reset()

	assert.Equal(t, 0, r.Available())
	assert.Equal(t, 5, r.Space())
	for _, v := range r.data {
		assert.Zero(t, v)
	}
}

func TestRingConcurrentRoundTrip(t *testing.T) {
	const total = 100000
	r := newTestRing(t, 257)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		chunk := make([]float64, 31)
		sent := 0
		for sent < total {
			n := min(len(chunk), total-sent)
			for i := range n {
				chunk[i] = float64(sent + i)
			}
			sent += r.Write(chunk[:n])
		}
	}()

	got := make([]float64, 0, total)
	buf := make([]float64, 17)
	for len(got) < total {
		n := r.Read(buf)
		got = append(got, buf[:n]...)
	}
	wg.Wait()

	for i, v := range got {
		if v != float64(i) {
			t.Fatalf("sample %d = %v, want %v", i, v, float64(i))
		}
	}
}
