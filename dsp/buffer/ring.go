package buffer

import (
	"fmt"
	"sync/atomic"
)

// Ring is a fixed-capacity single-producer, single-consumer sample queue.
//
// The write and read cursors are monotonically increasing counters; the slot
// index is the cursor modulo the capacity. One slot is always kept free, so
// Available()+Space() == Cap()-1 holds after every operation.
//
// Write and Space may only be called from the producer goroutine, Read and
// Available from the consumer. The producer copies samples before publishing
// its cursor and the consumer reads the cursor before copying, so a reader
// never observes samples ahead of the cursor store that made them visible.
type Ring struct {
	writePos atomic.Uint64
	_pad1    [56]byte
	readPos  atomic.Uint64
	_pad2    [56]byte

	data []float64
}

// NewRing returns a ring holding up to capacity-1 samples.
func NewRing(capacity int) (*Ring, error) {
	if capacity < 2 {
		return nil, fmt.Errorf("ring capacity must be >= 2: %d", capacity)
	}
	return &Ring{data: make([]float64, capacity)}, nil
}

// Cap returns the number of slots, including the reserved one.
func (r *Ring) Cap() int {
	return len(r.data)
}

// Available returns the number of samples ready to be read.
func (r *Ring) Available() int {
	return int(r.writePos.Load() - r.readPos.Load())
}

// Space returns the number of samples that can be written without
// overtaking the reader.
func (r *Ring) Space() int {
	return len(r.data) - 1 - r.Available()
}

// Write copies as many samples from src as fit and returns that count.
// It never blocks; a short count means the ring was full.
func (r *Ring) Write(src []float64) int {
	w := r.writePos.Load()
	used := w - r.readPos.Load()
	free := uint64(len(r.data)-1) - used

	n := uint64(len(src))
	if n > free {
		n = free
	}
	if n == 0 {
		return 0
	}

	size := uint64(len(r.data))
	pos := w % size
	first := size - pos
	if first >= n {
		copy(r.data[pos:pos+n], src[:n])
	} else {
		copy(r.data[pos:], src[:first])
		copy(r.data[:n-first], src[first:n])
	}

	r.writePos.Store(w + n)
	return int(n)
}

// Read copies up to len(dst) queued samples into dst and returns the count.
// It never blocks; a short count means the ring ran dry.
func (r *Ring) Read(dst []float64) int {
	rd := r.readPos.Load()
	avail := r.writePos.Load() - rd

	n := uint64(len(dst))
	if n > avail {
		n = avail
	}
	if n == 0 {
		return 0
	}

	size := uint64(len(r.data))
	pos := rd % size
	first := size - pos
	if first >= n {
		copy(dst[:n], r.data[pos:pos+n])
	} else {
		copy(dst[:first], r.data[pos:])
		copy(dst[first:n], r.data[:n-first])
	}

	r.readPos.Store(rd + n)
	return int(n)
}

// Reset clears the contents and rewinds both cursors.
// It is not synchronized: callers must ensure neither side is active.
func (r *Ring) Reset() {
	clear(r.data)
	r.writePos.Store(0)
	r.readPos.Store(0)
}
