// Package plugin is the host-facing shell around the effect engine. A Host
// owns the real-time processor and the genre engine, exposes every control
// under a stable string id and renegotiates the stream format on request.
//
// The audio thread calls Process; every other method may be called from any
// goroutine. Both sides share one mutex, held by the worker for the length of
// a block.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/cwbudde/algo-vecmath"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/RJF-72/WarriorPlug-Ins/device"
	"github.com/RJF-72/WarriorPlug-Ins/dsp/realtime"
	"github.com/RJF-72/WarriorPlug-Ins/genre"
)

// Host-level parameter ids. Effect parameters use "<effect>.<param>".
const (
	ParamInputGain  = "inputGain"
	ParamOutputGain = "outputGain"
	ParamGenre      = "genre"
	ParamMix        = "mix"
)

const (
	defaultSampleRate = 44100.0
	defaultInputGain  = 0.7
	defaultOutputGain = 0.8
)

// ParameterInfo describes one addressable control and its current value.
type ParameterInfo struct {
	ID    string
	Value float64
	Min   float64
	Max   float64
	Unit  string
}

// Option configures a Host.
type Option func(*config) error

type config struct {
	logger     logrus.FieldLogger
	engineOpts []genre.Option
	priority   bool
}

// WithLogger sets the logger passed to the processor and engine.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) error {
		if l == nil {
			return errors.New("plugin: nil logger")
		}
		c.logger = l
		return nil
	}
}

// WithEngineOptions forwards options to every engine the host builds.
func WithEngineOptions(opts ...genre.Option) Option {
	return func(c *config) error {
		c.engineOpts = append(c.engineOpts, opts...)
		return nil
	}
}

// WithElevatedPriority asks for a raised worker priority.
func WithElevatedPriority(on bool) Option {
	return func(c *config) error {
		c.priority = on
		return nil
	}
}

// Host ties a realtime.Processor to a genre.Engine.
type Host struct {
	mu         sync.Mutex
	engine     *genre.Engine
	inputGain  float64
	outputGain float64

	proc    *realtime.Processor
	cfg     config
	logger  logrus.FieldLogger
	session uuid.UUID
}

// New returns a host with an engine at 44.1 kHz. Call Prepare before
// Process.
func New(opts ...Option) (*Host, error) {
	cfg := config{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	h := &Host{
		inputGain:  defaultInputGain,
		outputGain: defaultOutputGain,
		cfg:        cfg,
		session:    uuid.New(),
	}
	h.logger = cfg.logger.WithField("session", h.session.String())

	eng, err := h.newEngine(defaultSampleRate)
	if err != nil {
		return nil, err
	}
	h.engine = eng

	proc, err := realtime.New(
		realtime.WithLogger(h.logger),
		realtime.WithBlockProcessor(realtime.BlockFunc(h.processBlock)),
		realtime.WithElevatedPriority(cfg.priority),
	)
	if err != nil {
		return nil, err
	}
	h.proc = proc
	return h, nil
}

func (h *Host) newEngine(sampleRate float64, extra ...genre.Option) (*genre.Engine, error) {
	opts := append([]genre.Option{genre.WithLogger(h.logger)}, h.cfg.engineOpts...)
	eng, err := genre.New(sampleRate, append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("plugin: %w", err)
	}
	return eng, nil
}

// SessionID identifies this host instance in logs.
func (h *Host) SessionID() uuid.UUID { return h.session }

// Prepare negotiates the stream format. A new sample rate rebuilds the
// engine, carrying over its state, mix, detection flag and custom presets.
// An invalid format is rejected before anything changes.
func (h *Host) Prepare(sampleRate float64, blockSize, channels int) error {
	cfg := realtime.Config{SampleRate: sampleRate, BufferSize: blockSize, Channels: channels}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("plugin: %w", err)
	}

	h.mu.Lock()
	if sampleRate != h.engine.SampleRate() {
		old := h.engine
		eng, err := h.newEngine(sampleRate, genre.WithCatalog(old.Catalog()))
		if err != nil {
			h.mu.Unlock()
			return err
		}
		eng.ApplyState(old.CurrentState())
		eng.SetDryWetMix(old.DryWetMix())
		eng.SetAutoGenreDetection(old.AutoGenreDetection())
		h.engine = eng
	}
	h.engine.Prepare(blockSize, channels)
	h.mu.Unlock()

	// The worker takes h.mu, so the processor is restarted without it.
	if err := h.proc.Initialize(sampleRate, blockSize, channels); err != nil {
		return err
	}
	h.logger.WithFields(logrus.Fields{
		"sampleRate": sampleRate,
		"blockSize":  blockSize,
		"channels":   channels,
	}).Info("host prepared")
	return nil
}

// Process hands one host block to the processor. See
// realtime.Processor.ProcessAudio for latency and xrun behaviour.
func (h *Host) Process(in, out []float64, frames int) error {
	return h.proc.ProcessAudio(in, out, frames)
}

func (h *Host) processBlock(block []float64, channels int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	vecmath.ScaleBlock(block, block, h.inputGain)
	h.engine.ProcessBlock(block, channels)
	vecmath.ScaleBlock(block, block, h.outputGain)
}

// Stats returns the processor's xrun and latency snapshot.
func (h *Host) Stats() realtime.Stats { return h.proc.Stats() }

// Close stops the worker. The host can be prepared again afterwards.
func (h *Host) Close() { h.proc.Shutdown() }

// SetParameter sets the control with the given id. Unknown ids and NaN
// values are ignored.
func (h *Host) SetParameter(id string, value float64) {
	if math.IsNaN(value) {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	switch id {
	case ParamInputGain:
		h.inputGain = clamp01(value)
	case ParamOutputGain:
		h.outputGain = clamp01(value)
	case ParamMix:
		h.engine.SetDryWetMix(value)
	case ParamGenre:
		genres := genre.Available()
		idx := int(math.Round(clamp01(value) * float64(len(genres)-1)))
		h.engine.SetGenre(genres[idx])
	default:
		if effect, param, ok := strings.Cut(id, "."); ok {
			h.engine.SetEffectParameter(effect, param, value)
		}
	}
}

// Parameter reads the control with the given id, or 0 for unknown ids.
func (h *Host) Parameter(id string) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch id {
	case ParamInputGain:
		return h.inputGain
	case ParamOutputGain:
		return h.outputGain
	case ParamMix:
		return h.engine.DryWetMix()
	case ParamGenre:
		return genreValue(h.engine.Genre())
	default:
		if effect, param, ok := strings.Cut(id, "."); ok {
			return h.engine.EffectParameter(effect, param)
		}
		return 0
	}
}

// Parameters lists every control, host-level ones first, then each effect's
// in chain order.
func (h *Host) Parameters() []ParameterInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	params := []ParameterInfo{
		{ID: ParamInputGain, Value: h.inputGain, Max: 1},
		{ID: ParamOutputGain, Value: h.outputGain, Max: 1},
		{ID: ParamGenre, Value: genreValue(h.engine.Genre()), Max: 1},
		{ID: ParamMix, Value: h.engine.DryWetMix(), Max: 1},
	}
	for _, eff := range h.engine.Effects() {
		for _, p := range eff.Parameters() {
			params = append(params, ParameterInfo{
				ID:    eff.Name() + "." + p.Name,
				Value: p.Value,
				Min:   p.Min,
				Max:   p.Max,
				Unit:  p.Unit,
			})
		}
	}
	return params
}

// SetGenre selects g and applies its catalog preset.
func (h *Host) SetGenre(g genre.Genre) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine.SetGenre(g)
}

// Genre returns the selected genre.
func (h *Host) Genre() genre.Genre {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine.Genre()
}

// SetInputGain sets the linear input gain, clamped to [0, 1].
func (h *Host) SetInputGain(gain float64) { h.SetParameter(ParamInputGain, gain) }

// SetAutoGenreDetection toggles input analysis on the engine.
func (h *Host) SetAutoGenreDetection(on bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine.SetAutoGenreDetection(on)
}

// DetectedGenre returns the engine's latest classification.
func (h *Host) DetectedGenre() genre.Genre {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine.DetectedGenre()
}

// CurrentState snapshots the engine.
func (h *Host) CurrentState() genre.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine.CurrentState()
}

// ApplyState restores a snapshot taken by CurrentState.
func (h *Host) ApplyState(s genre.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.engine.ApplyState(s)
}

// HandleDeviceEvents applies the suggestion of every connected device until
// events is closed (returning nil) or ctx is done.
func (h *Host) HandleDeviceEvents(ctx context.Context, events <-chan device.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Kind != device.Connected {
				continue
			}
			s := ev.Profile.Suggestion()
			applied := device.ApplySuggestion(h, s)
			h.logger.WithFields(logrus.Fields{
				"product":    ev.Device.Product,
				"instrument": ev.Profile.InstrumentType,
				"genre":      s.Genre,
				"gain":       s.Gain,
				"applied":    applied,
			}).Info("applied device suggestion")
		}
	}
}

func genreValue(g genre.Genre) float64 {
	genres := genre.Available()
	idx := slices.Index(genres, g)
	if idx < 0 {
		return 0
	}
	return float64(idx) / float64(len(genres)-1)
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }
