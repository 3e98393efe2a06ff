package dynamics

import (
	"fmt"
	"math"

	"github.com/RJF-72/WarriorPlug-Ins/dsp/delay"
)

const (
	defaultThresholdDB = -20.0
	defaultRatio       = 4.0
	defaultKneeDB      = 0.0
	defaultAttackMs    = 3.0
	defaultReleaseMs   = 100.0

	minRatio       = 1.0
	maxRatio       = 100.0
	maxKneeDB      = 24.0
	minAttackMs    = 0.01
	maxAttackMs    = 1000.0
	minReleaseMs   = 1.0
	maxReleaseMs   = 5000.0
	maxLookaheadMs = 20.0
)

// Option configures a Compressor at construction.
type Option func(*config) error

type config struct {
	thresholdDB float64
	ratio       float64
	kneeDB      float64
	attackMs    float64
	releaseMs   float64
	makeupDB    float64
	autoMakeup  bool
	lookaheadMs float64
}

func defaultConfig() config {
	return config{
		thresholdDB: defaultThresholdDB,
		ratio:       defaultRatio,
		kneeDB:      defaultKneeDB,
		attackMs:    defaultAttackMs,
		releaseMs:   defaultReleaseMs,
	}
}

// WithThreshold sets the threshold in dBFS.
func WithThreshold(db float64) Option {
	return func(cfg *config) error {
		if err := validateThreshold(db); err != nil {
			return err
		}
		cfg.thresholdDB = db
		return nil
	}
}

// WithRatio sets the compression ratio.
func WithRatio(ratio float64) Option {
	return func(cfg *config) error {
		if err := validateRatio(ratio); err != nil {
			return err
		}
		cfg.ratio = ratio
		return nil
	}
}

// WithKnee sets the soft-knee width in dB. 0 is a hard knee.
func WithKnee(db float64) Option {
	return func(cfg *config) error {
		if err := validateKnee(db); err != nil {
			return err
		}
		cfg.kneeDB = db
		return nil
	}
}

// WithAttack sets the attack time in milliseconds.
func WithAttack(ms float64) Option {
	return func(cfg *config) error {
		if err := validateRange("attack", ms, minAttackMs, maxAttackMs); err != nil {
			return err
		}
		cfg.attackMs = ms
		return nil
	}
}

// WithRelease sets the release time in milliseconds.
func WithRelease(ms float64) Option {
	return func(cfg *config) error {
		if err := validateRange("release", ms, minReleaseMs, maxReleaseMs); err != nil {
			return err
		}
		cfg.releaseMs = ms
		return nil
	}
}

// WithMakeupGain sets a manual makeup gain in dB.
func WithMakeupGain(db float64) Option {
	return func(cfg *config) error {
		if !isFinite(db) {
			return fmt.Errorf("compressor makeup gain must be finite: %f", db)
		}
		cfg.makeupDB = db
		return nil
	}
}

// WithAutoMakeup replaces the manual makeup gain with one derived from the
// threshold and ratio.
func WithAutoMakeup(enabled bool) Option {
	return func(cfg *config) error {
		cfg.autoMakeup = enabled
		return nil
	}
}

// WithLookahead delays the program path by ms milliseconds so gain changes
// land before the transients that caused them.
func WithLookahead(ms float64) Option {
	return func(cfg *config) error {
		if err := validateRange("lookahead", ms, 0, maxLookaheadMs); err != nil {
			return err
		}
		cfg.lookaheadMs = ms
		return nil
	}
}

// Compressor is a feed-forward peak compressor. It is mono; interleaved
// multichannel input shares one detector.
//
// Not safe for concurrent use.
type Compressor struct {
	cfg        config
	sampleRate float64

	attackCoeff  float64
	releaseCoeff float64
	makeupLin    float64

	envelope float64
	gainDB   float64

	lookahead      *delay.Line
	lookaheadDelay int
}

// NewCompressor returns a compressor for sampleRate with the given options
// applied over the defaults.
func NewCompressor(sampleRate float64, opts ...Option) (*Compressor, error) {
	if sampleRate <= 0 || !isFinite(sampleRate) {
		return nil, fmt.Errorf("compressor sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	c := &Compressor{cfg: cfg, sampleRate: sampleRate}
	c.updateTimeConstants()
	c.updateMakeup()
	if err := c.updateLookahead(); err != nil {
		return nil, err
	}
	return c, nil
}

// Threshold returns the threshold in dBFS.
func (c *Compressor) Threshold() float64 { return c.cfg.thresholdDB }

// Ratio returns the compression ratio.
func (c *Compressor) Ratio() float64 { return c.cfg.ratio }

// Knee returns the knee width in dB.
func (c *Compressor) Knee() float64 { return c.cfg.kneeDB }

// Attack returns the attack time in milliseconds.
func (c *Compressor) Attack() float64 { return c.cfg.attackMs }

// Release returns the release time in milliseconds.
func (c *Compressor) Release() float64 { return c.cfg.releaseMs }

// AutoMakeup reports whether automatic makeup gain is active.
func (c *Compressor) AutoMakeup() bool { return c.cfg.autoMakeup }

// SampleRate returns the configured sample rate.
func (c *Compressor) SampleRate() float64 { return c.sampleRate }

// Latency returns the look-ahead delay in samples.
func (c *Compressor) Latency() int { return c.lookaheadDelay }

// MakeupGain returns the makeup gain in dB currently applied.
func (c *Compressor) MakeupGain() float64 {
	if c.cfg.autoMakeup {
		return autoMakeupDB(c.cfg.thresholdDB, c.cfg.ratio)
	}
	return c.cfg.makeupDB
}

// GainReduction returns the gain computed for the most recent sample in dB.
// It is 0 or negative.
func (c *Compressor) GainReduction() float64 { return c.gainDB }

// SetThreshold updates the threshold in dBFS.
func (c *Compressor) SetThreshold(db float64) error {
	if err := validateThreshold(db); err != nil {
		return err
	}
	c.cfg.thresholdDB = db
	c.updateMakeup()
	return nil
}

// SetRatio updates the compression ratio.
func (c *Compressor) SetRatio(ratio float64) error {
	if err := validateRatio(ratio); err != nil {
		return err
	}
	c.cfg.ratio = ratio
	c.updateMakeup()
	return nil
}

// SetKnee updates the knee width in dB.
func (c *Compressor) SetKnee(db float64) error {
	if err := validateKnee(db); err != nil {
		return err
	}
	c.cfg.kneeDB = db
	return nil
}

// SetAttack updates the attack time in milliseconds.
func (c *Compressor) SetAttack(ms float64) error {
	if err := validateRange("attack", ms, minAttackMs, maxAttackMs); err != nil {
		return err
	}
	c.cfg.attackMs = ms
	c.updateTimeConstants()
	return nil
}

// SetRelease updates the release time in milliseconds.
func (c *Compressor) SetRelease(ms float64) error {
	if err := validateRange("release", ms, minReleaseMs, maxReleaseMs); err != nil {
		return err
	}
	c.cfg.releaseMs = ms
	c.updateTimeConstants()
	return nil
}

// SetMakeupGain updates the manual makeup gain in dB.
func (c *Compressor) SetMakeupGain(db float64) error {
	if !isFinite(db) {
		return fmt.Errorf("compressor makeup gain must be finite: %f", db)
	}
	c.cfg.makeupDB = db
	c.updateMakeup()
	return nil
}

// SetAutoMakeup toggles automatic makeup gain.
func (c *Compressor) SetAutoMakeup(enabled bool) {
	c.cfg.autoMakeup = enabled
	c.updateMakeup()
}

// OutputLevel maps an input level to the static curve's output level, both
// in dB.
func (c *Compressor) OutputLevel(inDB float64) float64 {
	t := c.cfg.thresholdDB
	r := c.cfg.ratio
	k := c.cfg.kneeDB

	if k > 0 {
		lo := t - k/2
		hi := t + k/2
		switch {
		case inDB <= lo:
			return inDB
		case inDB < hi:
			over := inDB - lo
			return inDB + (1/r-1)*over*over/(2*k)
		}
	} else if inDB <= t {
		return inDB
	}
	return t + (inDB-t)/r
}

// GainDB returns the static gain in dB for an input level in dB, without
// makeup.
func (c *Compressor) GainDB(inDB float64) float64 {
	return c.OutputLevel(inDB) - inDB
}

// ProcessSample compresses one sample.
func (c *Compressor) ProcessSample(x float64) float64 {
	level := math.Abs(x)
	coeff := c.releaseCoeff
	if level > c.envelope {
		coeff = c.attackCoeff
	}
	c.envelope = level + coeff*(c.envelope-level)

	c.gainDB = c.GainDB(LinearToDB(c.envelope))
	gain := c.makeupLin
	if c.gainDB < 0 {
		gain *= mathPow10(c.gainDB * 0.05)
	}

	program := x
	if c.lookahead != nil {
		program = c.lookahead.ProcessSample(x, float64(c.lookaheadDelay), 0)
	}
	return program * gain
}

// ProcessBlock compresses buf in place.
func (c *Compressor) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = c.ProcessSample(x)
	}
}

// Reset clears the envelope and the look-ahead buffer. Parameters are kept.
func (c *Compressor) Reset() {
	c.envelope = 0
	c.gainDB = 0
	if c.lookahead != nil {
		c.lookahead.Reset()
	}
}

func (c *Compressor) updateTimeConstants() {
	c.attackCoeff = TimeCoefficient(c.cfg.attackMs, c.sampleRate)
	c.releaseCoeff = TimeCoefficient(c.cfg.releaseMs, c.sampleRate)
}

func (c *Compressor) updateMakeup() {
	c.makeupLin = mathPow10(c.MakeupGain() * 0.05)
}

func (c *Compressor) updateLookahead() error {
	n := int(math.Round(c.cfg.lookaheadMs * 0.001 * c.sampleRate))
	c.lookaheadDelay = n
	if n == 0 {
		c.lookahead = nil
		return nil
	}
	line, err := delay.New(n)
	if err != nil {
		return fmt.Errorf("compressor lookahead: %w", err)
	}
	c.lookahead = line
	return nil
}

// autoMakeupDB restores half of the gain a full-scale signal loses.
func autoMakeupDB(thresholdDB, ratio float64) float64 {
	return -0.5 * thresholdDB * (1 - 1/ratio)
}

func validateThreshold(db float64) error {
	return validateRange("threshold", db, FloorDB, 0)
}

func validateRatio(ratio float64) error {
	return validateRange("ratio", ratio, minRatio, maxRatio)
}

func validateKnee(db float64) error {
	return validateRange("knee", db, 0, maxKneeDB)
}

func validateRange(name string, v, lo, hi float64) error {
	if !isFinite(v) || v < lo || v > hi {
		return fmt.Errorf("compressor %s must be in [%g, %g]: %f", name, lo, hi, v)
	}
	return nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
