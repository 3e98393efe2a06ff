// Package delay provides the circular delay line used by the reverb, the
// compressor look-ahead and modulated effects.
package delay

import (
	"fmt"
	"math"
)

// Line is a fixed-capacity circular delay line. Delays are measured in
// samples back from the next write: Read(1) is the most recent sample and
// Read(Len()) the oldest one still held.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line holding size samples.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// Len returns the capacity in samples.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Write stores one sample and advances the write cursor.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos == len(d.buffer) {
		d.writePos = 0
	}
}

// Read returns the sample written delay samples ago, delay clamped to
// [1, Len()].
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	delay = min(max(delay, 1), size)

	pos := d.writePos - delay
	if pos < 0 {
		pos += size
	}
	return d.buffer[pos]
}

// ReadFractional reads between two stored samples with linear
// interpolation. delay is clamped to [1, Len()].
func (d *Line) ReadFractional(delay float64) float64 {
	if math.IsNaN(delay) {
		delay = 1
	}
	delay = min(max(delay, 1), float64(len(d.buffer)))

	p := int(delay)
	t := delay - float64(p)
	if t == 0 {
		return d.Read(p)
	}
	return d.Read(p) + t*(d.Read(p+1)-d.Read(p))
}

// ReadCubic reads with four-point Catmull-Rom interpolation. delay is
// clamped to [2, Len()-2].
func (d *Line) ReadCubic(delay float64) float64 {
	if math.IsNaN(delay) {
		delay = 2
	}
	size := len(d.buffer)
	if size < 4 {
		return d.ReadFractional(delay)
	}
	delay = min(max(delay, 2), float64(size-2))

	p := int(delay)
	t := delay - float64(p)

	// Oldest to newest around the read point; f runs from y1 to y2.
	y0 := d.Read(p + 2)
	y1 := d.Read(p + 1)
	y2 := d.Read(p)
	y3 := d.Read(p - 1)
	f := 1 - t

	c1 := 0.5 * (y2 - y0)
	c2 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c3 := 0.5*(y3-y0) + 1.5*(y1-y2)
	return ((c3*f+c2)*f+c1)*f + y1
}

// ProcessSample runs one step of a feedback comb: it reads the sample delay
// samples back, writes input plus feedback times that sample, advances and
// returns the delayed sample.
func (d *Line) ProcessSample(input, delay, feedback float64) float64 {
	delayed := d.ReadFractional(delay)
	d.Write(input + feedback*delayed)
	return delayed
}

// Reset clears the stored samples and rewinds the write cursor.
func (d *Line) Reset() {
	clear(d.buffer)
	d.writePos = 0
}
