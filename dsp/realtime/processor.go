package realtime

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/RJF-72/WarriorPlug-Ins/dsp/buffer"
)

const (
	// ringBlocks is the ring capacity in blocks.
	ringBlocks = 4

	maxBufferSize = 1 << 16
	maxChannels   = 64
)

// ErrNotInitialized is returned by ProcessAudio before Initialize succeeds.
var ErrNotInitialized = errors.New("realtime: processor not initialized")

// State is the processor lifecycle state.
type State int

const (
	Uninitialized State = iota
	Running
	ShutDown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case ShutDown:
		return "shut down"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// BlockProcessor transforms one block of interleaved samples in place. It is
// called from the worker goroutine only.
type BlockProcessor interface {
	ProcessBlock(block []float64, channels int)
}

// BlockFunc adapts a function to BlockProcessor.
type BlockFunc func(block []float64, channels int)

// ProcessBlock calls f.
func (f BlockFunc) ProcessBlock(block []float64, channels int) { f(block, channels) }

type passThrough struct{}

func (passThrough) ProcessBlock([]float64, int) {}

// Config is the negotiated stream format.
type Config struct {
	SampleRate float64
	BufferSize int // frames per block
	Channels   int
}

// BlockLen returns the number of interleaved samples in one block.
func (c Config) BlockLen() int { return c.BufferSize * c.Channels }

// Validate reports whether c is a format Initialize accepts.
func (c Config) Validate() error {
	if c.SampleRate <= 0 || math.IsNaN(c.SampleRate) || math.IsInf(c.SampleRate, 0) {
		return fmt.Errorf("realtime: sample rate must be > 0 and finite: %f", c.SampleRate)
	}
	if c.BufferSize <= 0 || c.BufferSize > maxBufferSize {
		return fmt.Errorf("realtime: buffer size must be in [1, %d]: %d", maxBufferSize, c.BufferSize)
	}
	if c.Channels <= 0 || c.Channels > maxChannels {
		return fmt.Errorf("realtime: channels must be in [1, %d]: %d", maxChannels, c.Channels)
	}
	return nil
}

// Option configures a Processor.
type Option func(*options) error

type options struct {
	logger    logrus.FieldLogger
	processor BlockProcessor
	priority  bool
}

// WithLogger sets the lifecycle logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) error {
		if l == nil {
			return errors.New("realtime: nil logger")
		}
		o.logger = l
		return nil
	}
}

// WithBlockProcessor attaches the DSP run on every block. The default passes
// audio through unchanged.
func WithBlockProcessor(bp BlockProcessor) Option {
	return func(o *options) error {
		if bp == nil {
			return errors.New("realtime: nil block processor")
		}
		o.processor = bp
		return nil
	}
}

// WithElevatedPriority asks the OS to raise the worker thread's scheduling
// priority. Failure is logged and otherwise ignored.
func WithElevatedPriority(on bool) Option {
	return func(o *options) error {
		o.priority = on
		return nil
	}
}

// Processor is the low-latency engine. See the package documentation for the
// threading contract.
type Processor struct {
	opts  options
	cfg   Config
	state State

	in, out *buffer.Ring
	wake    chan struct{}
	stop    chan struct{}
	done    chan struct{}

	overruns  atomic.Uint64
	underruns atomic.Uint64
	latency   latencyHistory
}

// New returns an uninitialized processor.
func New(opts ...Option) (*Processor, error) {
	o := options{
		logger:    logrus.StandardLogger(),
		processor: passThrough{},
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	return &Processor{opts: o}, nil
}

// State returns the lifecycle state.
func (p *Processor) State() State { return p.state }

// Config returns the current or most recently requested stream format.
func (p *Processor) Config() Config { return p.cfg }

// Initialize allocates rings of four blocks each and starts the worker. On a
// running processor it shuts down first. On error nothing changes.
func (p *Processor) Initialize(sampleRate float64, bufferSize, channels int) error {
	cfg := Config{SampleRate: sampleRate, BufferSize: bufferSize, Channels: channels}
	if err := cfg.Validate(); err != nil {
		return err
	}

	in, err := buffer.NewRing(cfg.BlockLen() * ringBlocks)
	if err != nil {
		return fmt.Errorf("realtime: input ring: %w", err)
	}
	out, err := buffer.NewRing(cfg.BlockLen() * ringBlocks)
	if err != nil {
		return fmt.Errorf("realtime: output ring: %w", err)
	}

	if p.state == Running {
		p.Shutdown()
	}

	p.cfg = cfg
	p.in, p.out = in, out
	p.wake = make(chan struct{}, 1)
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	p.state = Running

	go p.run(cfg, in, out, p.wake, p.stop, p.done)

	p.opts.logger.WithFields(logrus.Fields{
		"sampleRate": cfg.SampleRate,
		"bufferSize": cfg.BufferSize,
		"channels":   cfg.Channels,
		"latencyMs":  1000 * float64(cfg.BufferSize) / cfg.SampleRate,
	}).Info("low-latency processor initialized")

	return nil
}

// Shutdown stops and joins the worker. It is a no-op unless running.
func (p *Processor) Shutdown() {
	if p.state != Running {
		return
	}

	close(p.stop)
	<-p.done
	p.state = ShutDown

	s := p.Stats()
	p.opts.logger.WithFields(logrus.Fields{
		"overruns":   s.Overruns,
		"underruns":  s.Underruns,
		"avgLatency": s.AverageLatency,
	}).Info("low-latency processor shut down")
}

// ProcessAudio queues frames*channels samples from input and fills output
// with the same count of processed samples. A short input write counts an
// overrun; a short output read counts an underrun and zero-fills the rest.
// It never waits for the worker. Before Initialize the output is silenced.
// When input is shorter than frames*channels only len(input) samples are
// queued and the rest of the requested output span is zeroed.
func (p *Processor) ProcessAudio(input, output []float64, frames int) error {
	if p.state != Running {
		clear(output)
		return ErrNotInitialized
	}

	want := min(max(0, frames*p.cfg.Channels), len(output))
	n := min(want, len(input))
	clear(output[n:want])

	start := time.Now()

	if w := p.in.Write(input[:n]); w < n {
		p.overruns.Add(1)
	}
	if p.in.Available() >= p.cfg.BlockLen() {
		select {
		case p.wake <- struct{}{}:
		default:
		}
	}

	if r := p.out.Read(output[:n]); r < n {
		p.underruns.Add(1)
		clear(output[r:n])
	}

	p.latency.record(time.Since(start))
	return nil
}

// SetBufferSize changes the block size, reinitializing when running.
func (p *Processor) SetBufferSize(frames int) error {
	if frames <= 0 || frames > maxBufferSize {
		return fmt.Errorf("realtime: buffer size must be in [1, %d]: %d", maxBufferSize, frames)
	}
	if p.state != Running {
		p.cfg.BufferSize = frames
		return nil
	}
	return p.Initialize(p.cfg.SampleRate, frames, p.cfg.Channels)
}

// OptimizationLevel maps to a block size: 0 balanced (256), 1 low latency
// (128), 2 ultra-low latency (64).
type OptimizationLevel int

const (
	Balanced OptimizationLevel = iota
	LowLatency
	UltraLowLatency
)

var levelBufferSizes = [...]int{
	Balanced:        256,
	LowLatency:      128,
	UltraLowLatency: 64,
}

// BufferSize returns the block size for the level, or 0 when unknown.
func (l OptimizationLevel) BufferSize() int {
	if l < 0 || int(l) >= len(levelBufferSizes) {
		return 0
	}
	return levelBufferSizes[l]
}

// SetOptimizationLevel selects a block size preset and reinitializes.
func (p *Processor) SetOptimizationLevel(level OptimizationLevel) error {
	size := level.BufferSize()
	if size == 0 {
		return fmt.Errorf("realtime: unknown optimization level %d", int(level))
	}
	return p.SetBufferSize(size)
}

func (p *Processor) run(cfg Config, in, out *buffer.Ring, wake, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	if p.opts.priority {
		// The thread is discarded when the worker exits while still locked.
		runtime.LockOSThread()
		if err := elevatePriority(); err != nil {
			p.opts.logger.WithError(err).Warn("could not raise worker priority")
		}
	}

	block := make([]float64, cfg.BlockLen())
	for {
		select {
		case <-stop:
			return
		case <-wake:
		}

		for in.Available() >= len(block) {
			select {
			case <-stop:
				return
			default:
			}

			in.Read(block)
			p.opts.processor.ProcessBlock(block, cfg.Channels)
			if w := out.Write(block); w < len(block) {
				p.overruns.Add(1)
			}
		}
	}
}
