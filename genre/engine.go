package genre

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/RJF-72/WarriorPlug-Ins/dsp/analysis"
	"github.com/RJF-72/WarriorPlug-Ins/fx"
)

const (
	defaultMix          = 0.5
	defaultAnalysisSize = 1024
)

// DefaultChain is the effect order of a new Engine.
var DefaultChain = []string{fx.NameEQ, fx.NameDistortion, fx.NameCompressor, fx.NameReverb}

// ErrDuplicateEffect is returned by AddEffect when the chain already holds
// an effect of the same name.
var ErrDuplicateEffect = errors.New("genre: effect already in chain")

// Option configures an Engine.
type Option func(*config) error

type config struct {
	catalog      *Catalog
	registry     *fx.Registry
	logger       logrus.FieldLogger
	chain        []string
	analysisSize int
}

func defaultEngineConfig() config {
	return config{
		catalog:      DefaultCatalog(),
		registry:     fx.DefaultRegistry(),
		logger:       logrus.StandardLogger(),
		chain:        DefaultChain,
		analysisSize: defaultAnalysisSize,
	}
}

// WithCatalog sets the preset catalog. The engine never modifies it.
func WithCatalog(c *Catalog) Option {
	return func(cfg *config) error {
		if c == nil {
			return errors.New("genre: nil catalog")
		}
		cfg.catalog = c
		return nil
	}
}

// WithRegistry sets the registry used to build the initial chain.
func WithRegistry(r *fx.Registry) Option {
	return func(cfg *config) error {
		if r == nil {
			return errors.New("genre: nil registry")
		}
		cfg.registry = r
		return nil
	}
}

// WithLogger sets the logger for preset changes.
func WithLogger(l logrus.FieldLogger) Option {
	return func(cfg *config) error {
		if l == nil {
			return errors.New("genre: nil logger")
		}
		cfg.logger = l
		return nil
	}
}

// WithChain replaces the default effect order with the named effects.
func WithChain(names ...string) Option {
	return func(cfg *config) error {
		cfg.chain = slices.Clone(names)
		return nil
	}
}

// WithAnalysisSize sets the FFT length used by automatic genre detection.
func WithAnalysisSize(n int) Option {
	return func(cfg *config) error {
		if n < 16 || n&(n-1) != 0 {
			return fmt.Errorf("genre: analysis size must be a power of two >= 16: %d", n)
		}
		cfg.analysisSize = n
		return nil
	}
}

// Engine runs an ordered effect chain and blends it with the dry signal.
// It is not safe for concurrent use.
type Engine struct {
	sampleRate float64
	logger     logrus.FieldLogger
	catalog    *Catalog

	chain []fx.Effect
	genre Genre
	mix   float64

	autoDetect   bool
	detected     Genre
	lastFeatures analysis.Features
	analyzer     *analysis.Analyzer

	scratch [2][]float64
}

// New returns an engine at sampleRate with the default chain, genre Rock and
// a 50% mix. No preset is applied until SetGenre.
func New(sampleRate float64, opts ...Option) (*Engine, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("genre: sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultEngineConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	an, err := analysis.NewAnalyzer(cfg.analysisSize, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("genre: %w", err)
	}

	e := &Engine{
		sampleRate: sampleRate,
		logger:     cfg.logger,
		catalog:    cfg.catalog,
		genre:      Rock,
		mix:        defaultMix,
		detected:   Rock,
		analyzer:   an,
	}
	for _, name := range cfg.chain {
		eff, err := cfg.registry.New(name, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("genre: %w", err)
		}
		if err := e.AddEffect(eff); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SampleRate returns the rate the chain was built for.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// Prepare sizes the scratch buffers for blocks of up to maxFrames frames, so
// Process does not allocate.
func (e *Engine) Prepare(maxFrames, channels int) {
	e.ensureScratch(maxFrames * channels)
}

// Process runs frames*channels interleaved samples through every enabled
// effect in order and writes dry*(1-mix) + wet*mix to out. With no enabled
// effect out equals in. in and out may be the same slice.
func (e *Engine) Process(in, out []float64, frames, channels int) {
	n := frames * channels
	if n <= 0 {
		return
	}
	in, out = in[:n], out[:n]
	e.ensureScratch(n)

	if e.autoDetect {
		f, err := e.analyzer.Features(in, channels)
		if err == nil {
			e.lastFeatures = f
			e.detected = Classify(f)
		}
	}

	src := in
	ran := 0
	for _, eff := range e.chain {
		if !eff.Enabled() {
			continue
		}
		dst := e.scratch[ran%2][:n]
		eff.ProcessAudio(src, dst, frames, channels)
		src = dst
		ran++
	}

	if ran == 0 {
		copy(out, in)
		return
	}
	dry := 1 - e.mix
	for i := range out {
		out[i] = in[i]*dry + src[i]*e.mix
	}
}

// ProcessBlock processes block in place. It lets an Engine serve as a
// realtime.BlockProcessor.
func (e *Engine) ProcessBlock(block []float64, channels int) {
	if channels < 1 {
		return
	}
	e.Process(block, block, len(block)/channels, channels)
}

// Reset clears the state of every effect in the chain.
func (e *Engine) Reset() {
	for _, eff := range e.chain {
		eff.Reset()
	}
}

func (e *Engine) ensureScratch(n int) {
	for i := range e.scratch {
		if cap(e.scratch[i]) < n {
			e.scratch[i] = make([]float64, n)
		}
	}
}

// Genre returns the genre last selected with SetGenre or ApplyState.
func (e *Engine) Genre() Genre { return e.genre }

// AvailableGenres lists the selectable genres.
func (e *Engine) AvailableGenres() []Genre { return Available() }

// Catalog returns the engine's preset catalog.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// SetGenre selects g and applies its catalog preset, if any. Genres without
// a preset only change the reported genre.
func (e *Engine) SetGenre(g Genre) {
	e.genre = g
	if p, ok := e.catalog.Lookup(g); ok {
		e.applyPreset(p)
	}
}

// LoadPreset applies the catalog preset called name and selects its genre.
// It reports whether the preset exists.
func (e *Engine) LoadPreset(name string) bool {
	p, ok := e.catalog.ByName(name)
	if !ok {
		return false
	}
	e.genre = p.Genre
	e.applyPreset(p)
	return true
}

// applyPreset disables the whole chain, then enables each listed effect and
// applies its settings. Unknown effect and parameter names are skipped.
func (e *Engine) applyPreset(p Preset) {
	for _, eff := range e.chain {
		eff.SetEnabled(false)
	}
	for _, name := range p.Enabled {
		eff, ok := e.Effect(name)
		if !ok {
			continue
		}
		eff.SetEnabled(true)
		for _, s := range p.Settings[name] {
			eff.SetParameter(s.Param, s.Value)
		}
	}
	e.logger.WithFields(logrus.Fields{
		"preset": p.Name,
		"genre":  p.Genre.String(),
	}).Info("loaded genre preset")
}

// SaveCustomPreset captures the enabled effects and all their parameters as
// a preset for g and adds it to the engine's catalog. The catalog passed to
// WithCatalog is left untouched.
func (e *Engine) SaveCustomPreset(name string, g Genre) (Preset, error) {
	if name == "" {
		return Preset{}, errors.New("genre: empty preset name")
	}
	p := Preset{
		Genre:       g,
		Name:        name,
		Description: "Custom preset",
		Settings:    make(map[string][]Setting),
	}
	for _, eff := range e.chain {
		if !eff.Enabled() {
			continue
		}
		p.Enabled = append(p.Enabled, eff.Name())
		for _, param := range eff.Parameters() {
			p.Settings[eff.Name()] = append(p.Settings[eff.Name()], Setting{Param: param.Name, Value: param.Value})
		}
	}
	e.catalog = e.catalog.With(p)
	e.logger.WithFields(logrus.Fields{
		"preset": name,
		"genre":  g.String(),
	}).Info("saved custom preset")
	return p.clone(), nil
}

// Effects returns the chain in signal order. The slice is a copy; the
// effects are shared.
func (e *Engine) Effects() []fx.Effect { return slices.Clone(e.chain) }

// Effect returns the chain member called name.
func (e *Engine) Effect(name string) (fx.Effect, bool) {
	i := e.indexOf(name)
	if i < 0 {
		return nil, false
	}
	return e.chain[i], true
}

// AddEffect appends eff to the end of the chain.
func (e *Engine) AddEffect(eff fx.Effect) error {
	if eff == nil {
		return errors.New("genre: nil effect")
	}
	if e.indexOf(eff.Name()) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateEffect, eff.Name())
	}
	e.chain = append(e.chain, eff)
	return nil
}

// RemoveEffect drops the effect called name and reports whether it was
// present.
func (e *Engine) RemoveEffect(name string) bool {
	i := e.indexOf(name)
	if i < 0 {
		return false
	}
	e.chain = slices.Delete(e.chain, i, i+1)
	return true
}

// ReorderEffect moves the effect called name to position, clamped to the
// chain bounds. It reports whether the effect was found.
func (e *Engine) ReorderEffect(name string, position int) bool {
	i := e.indexOf(name)
	if i < 0 {
		return false
	}
	eff := e.chain[i]
	e.chain = slices.Delete(e.chain, i, i+1)
	position = min(max(position, 0), len(e.chain))
	e.chain = slices.Insert(e.chain, position, eff)
	return true
}

func (e *Engine) indexOf(name string) int {
	return slices.IndexFunc(e.chain, func(eff fx.Effect) bool { return eff.Name() == name })
}

// SetEffectParameter sets a parameter on the named effect. Unknown names
// are ignored.
func (e *Engine) SetEffectParameter(effect, param string, value float64) {
	if eff, ok := e.Effect(effect); ok {
		eff.SetParameter(param, value)
	}
}

// EffectParameter reads a parameter of the named effect, 0 when either name
// is unknown.
func (e *Engine) EffectParameter(effect, param string) float64 {
	if eff, ok := e.Effect(effect); ok {
		return eff.Parameter(param)
	}
	return 0
}

// SetDryWetMix sets the wet share, clamped to [0, 1].
func (e *Engine) SetDryWetMix(mix float64) {
	if math.IsNaN(mix) {
		return
	}
	e.mix = math.Max(0, math.Min(1, mix))
}

// DryWetMix returns the wet share.
func (e *Engine) DryWetMix() float64 { return e.mix }

// SetAutoGenreDetection toggles per-block classification of the input.
// Detection only records its result; it never changes the preset.
func (e *Engine) SetAutoGenreDetection(on bool) { e.autoDetect = on }

// AutoGenreDetection reports whether detection is on.
func (e *Engine) AutoGenreDetection() bool { return e.autoDetect }

// DetectedGenre returns the classification of the last processed block while
// detection is on.
func (e *Engine) DetectedGenre() Genre { return e.detected }

// LastFeatures returns the features behind DetectedGenre, including the FFT
// centroid and spread.
func (e *Engine) LastFeatures() analysis.Features { return e.lastFeatures }
