package realtime

import (
	"slices"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// historySize is the number of ProcessAudio durations kept for statistics.
const historySize = 1000

// Stats is a snapshot of xrun counters and call latency.
type Stats struct {
	Overruns       uint64
	Underruns      uint64
	Samples        int
	AverageLatency time.Duration
	CurrentLatency time.Duration
	P99Latency     time.Duration

	// CPUUsage is a load proxy in percent: 10 per xrun, capped at 100.
	CPUUsage float64
}

type latencyHistory struct {
	mu     sync.Mutex
	values [historySize]float64 // seconds
	next   int
	count  int
	last   time.Duration
}

func (h *latencyHistory) record(d time.Duration) {
	h.mu.Lock()
	h.values[h.next] = d.Seconds()
	h.next = (h.next + 1) % historySize
	h.count = min(h.count+1, historySize)
	h.last = d
	h.mu.Unlock()
}

func (h *latencyHistory) snapshot() (vals []float64, last time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.values[:h.count]), h.last
}

func (h *latencyHistory) reset() {
	h.mu.Lock()
	h.next, h.count, h.last = 0, 0, 0
	h.mu.Unlock()
}

// Stats returns the current statistics.
func (p *Processor) Stats() Stats {
	s := Stats{
		Overruns:  p.overruns.Load(),
		Underruns: p.underruns.Load(),
	}
	s.CPUUsage = min(100, float64(s.Overruns+s.Underruns)*10)

	vals, last := p.latency.snapshot()
	s.Samples = len(vals)
	s.CurrentLatency = last
	if len(vals) == 0 {
		return s
	}

	s.AverageLatency = seconds(stat.Mean(vals, nil))
	slices.Sort(vals)
	s.P99Latency = seconds(stat.Quantile(0.99, stat.Empirical, vals, nil))
	return s
}

// ResetStats clears the counters and latency history.
func (p *Processor) ResetStats() {
	p.overruns.Store(0)
	p.underruns.Store(0)
	p.latency.reset()
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
