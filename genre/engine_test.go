package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RJF-72/WarriorPlug-Ins/dsp/analysis"
	"github.com/RJF-72/WarriorPlug-Ins/fx"
	"github.com/RJF-72/WarriorPlug-Ins/internal/testutil"
)

const testRate = 48000.0

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(testRate, append([]Option{WithLogger(testutil.DiscardLogger())}, opts...)...)
	require.NoError(t, err)
	return e
}

func enabledNames(e *Engine) []string {
	var out []string
	for _, eff := range e.Effects() {
		if eff.Enabled() {
			out = append(out, eff.Name())
		}
	}
	return out
}

func TestNewDefaults(t *testing.T) {
	e := newEngine(t)

	assert.Equal(t, Rock, e.Genre())
	assert.Equal(t, 0.5, e.DryWetMix())
	assert.False(t, e.AutoGenreDetection())
	assert.Equal(t, DefaultChain, enabledNames(e))
	assert.Len(t, e.AvailableGenres(), 12)
}

func TestNewValidation(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)

	_, err = New(testRate, WithAnalysisSize(100))
	assert.Error(t, err)

	_, err = New(testRate, WithChain("Flanger"))
	assert.ErrorIs(t, err, fx.ErrUnknownEffect)

	_, err = New(testRate, WithChain(fx.NameReverb, fx.NameReverb))
	assert.ErrorIs(t, err, ErrDuplicateEffect)

	_, err = New(testRate, WithCatalog(nil))
	assert.Error(t, err)
}

func TestSetGenreMetal(t *testing.T) {
	e := newEngine(t)
	e.SetGenre(Metal)

	assert.Equal(t, Metal, e.Genre())
	assert.Equal(t, []string{fx.NameEQ, fx.NameDistortion, fx.NameCompressor}, enabledNames(e))
	assert.Equal(t, 0.9, e.EffectParameter(fx.NameDistortion, "drive"))
	assert.Equal(t, 6.0, e.EffectParameter(fx.NameCompressor, "ratio"))
	assert.Equal(t, 0.4, e.EffectParameter(fx.NameEQ, "highGain"))
}

func TestSetGenreJazzThenRock(t *testing.T) {
	e := newEngine(t)
	e.SetGenre(Jazz)
	assert.Equal(t, []string{fx.NameEQ, fx.NameCompressor, fx.NameReverb}, enabledNames(e))
	assert.Equal(t, 0.2, e.EffectParameter(fx.NameEQ, "midGain"))

	e.SetGenre(Rock)
	assert.Equal(t, DefaultChain, enabledNames(e))
	assert.Equal(t, 0.6, e.EffectParameter(fx.NameDistortion, "drive"))
	assert.Equal(t, 0.2, e.EffectParameter(fx.NameReverb, "wetLevel"))
}

func TestSetGenreWithoutPresetKeepsChain(t *testing.T) {
	e := newEngine(t)
	e.SetGenre(Metal)
	e.SetGenre(Blues)

	assert.Equal(t, Blues, e.Genre())
	assert.Equal(t, []string{fx.NameEQ, fx.NameDistortion, fx.NameCompressor}, enabledNames(e))
}

func TestPresetToleratesUnknownNames(t *testing.T) {
	cat := NewCatalog(Preset{
		Genre:   Funk,
		Name:    "Funk",
		Enabled: []string{"Wah", fx.NameReverb},
		Settings: map[string][]Setting{
			fx.NameReverb: {{"roomSize", 0.9}, {"shimmer", 1}},
			"Wah":         {{"sweep", 0.5}},
		},
	})
	e := newEngine(t, WithCatalog(cat))
	e.SetGenre(Funk)

	assert.Equal(t, []string{fx.NameReverb}, enabledNames(e))
	assert.Equal(t, 0.9, e.EffectParameter(fx.NameReverb, "roomSize"))
	assert.Equal(t, 0.0, e.EffectParameter(fx.NameReverb, "shimmer"))
}

func TestDryWetMixEndpoints(t *testing.T) {
	in := testutil.Interleave(testutil.Sine(512, 330, 0.6, testRate), testutil.Noise(5, 0.4, 512))

	e := newEngine(t)
	e.SetDryWetMix(0)
	out := make([]float64, len(in))
	e.Process(in, out, 512, 2)
	assert.Equal(t, in, out)

	// A fresh chain run by hand is the wet reference.
	wet := make([]float64, len(in))
	src := in
	for _, name := range DefaultChain {
		eff, err := fx.DefaultRegistry().New(name, testRate)
		require.NoError(t, err)
		dst := make([]float64, len(in))
		eff.ProcessAudio(src, dst, 512, 2)
		src = dst
	}
	copy(wet, src)

	e2 := newEngine(t)
	e2.SetDryWetMix(1)
	e2.Process(in, out, 512, 2)
	assert.Equal(t, wet, out)
	assert.NotEqual(t, in, out)
}

func TestDryWetMixClamps(t *testing.T) {
	e := newEngine(t)
	e.SetDryWetMix(3)
	assert.Equal(t, 1.0, e.DryWetMix())
	e.SetDryWetMix(-1)
	assert.Equal(t, 0.0, e.DryWetMix())
}

func TestAllDisabledPassesInput(t *testing.T) {
	e := newEngine(t)
	for _, eff := range e.Effects() {
		eff.SetEnabled(false)
	}
	e.SetDryWetMix(0.8)

	in := testutil.Noise(9, 0.9, 256)
	out := make([]float64, len(in))
	e.Process(in, out, 256, 1)
	assert.Equal(t, in, out)
}

func TestProcessInPlace(t *testing.T) {
	in := testutil.Sine(256, 440, 0.5, testRate)

	a := newEngine(t)
	want := make([]float64, len(in))
	a.Process(in, want, 256, 1)

	b := newEngine(t)
	buf := append([]float64(nil), in...)
	b.ProcessBlock(buf, 1)
	assert.Equal(t, want, buf)
}

func TestProcessDoesNotAllocateAfterPrepare(t *testing.T) {
	e := newEngine(t)
	e.Prepare(256, 2)
	in := testutil.Noise(1, 0.5, 512)
	out := make([]float64, len(in))

	allocs := testing.AllocsPerRun(20, func() {
		e.Process(in, out, 256, 2)
	})
	assert.Zero(t, allocs)
}

func TestChainManagement(t *testing.T) {
	e := newEngine(t)

	trem, err := fx.NewTremolo(testRate)
	require.NoError(t, err)
	require.NoError(t, e.AddEffect(trem))
	assert.ErrorIs(t, e.AddEffect(fx.NewReverb()), ErrDuplicateEffect)
	assert.Error(t, e.AddEffect(nil))

	require.True(t, e.ReorderEffect(fx.NameReverb, 0))
	require.True(t, e.ReorderEffect(fx.NameEQ, 99))
	names := make([]string, 0, 5)
	for _, eff := range e.Effects() {
		names = append(names, eff.Name())
	}
	assert.Equal(t, []string{fx.NameReverb, fx.NameDistortion, fx.NameCompressor, fx.NameTremolo, fx.NameEQ}, names)

	assert.True(t, e.RemoveEffect(fx.NameTremolo))
	assert.False(t, e.RemoveEffect(fx.NameTremolo))
	assert.False(t, e.ReorderEffect("Flanger", 0))
	_, ok := e.Effect(fx.NameTremolo)
	assert.False(t, ok)
	assert.Len(t, e.Effects(), 4)
}

func TestEffectParameterLookups(t *testing.T) {
	e := newEngine(t)

	e.SetEffectParameter(fx.NameDistortion, "drive", 0.25)
	assert.Equal(t, 0.25, e.EffectParameter(fx.NameDistortion, "drive"))

	e.SetEffectParameter("Flanger", "rate", 1)
	e.SetEffectParameter(fx.NameDistortion, "bogus", 1)
	assert.Equal(t, 0.0, e.EffectParameter("Flanger", "rate"))
	assert.Equal(t, 0.0, e.EffectParameter(fx.NameDistortion, "bogus"))
}

func TestSaveCustomPreset(t *testing.T) {
	e := newEngine(t)
	e.SetGenre(Metal)
	e.SetEffectParameter(fx.NameDistortion, "drive", 0.33)

	p, err := e.SaveCustomPreset("My Metal", Custom)
	require.NoError(t, err)
	assert.Equal(t, Custom, p.Genre)
	assert.Equal(t, []string{fx.NameEQ, fx.NameDistortion, fx.NameCompressor}, p.Enabled)
	assert.Contains(t, p.Settings[fx.NameDistortion], Setting{Param: "drive", Value: 0.33})

	assert.Equal(t, 3, DefaultCatalog().Len())
	assert.Equal(t, 4, e.Catalog().Len())

	_, err = e.SaveCustomPreset("", Custom)
	assert.Error(t, err)

	e.SetGenre(Jazz)
	require.True(t, e.LoadPreset("My Metal"))
	assert.Equal(t, Custom, e.Genre())
	assert.Equal(t, 0.33, e.EffectParameter(fx.NameDistortion, "drive"))
	assert.Equal(t, []string{fx.NameEQ, fx.NameDistortion, fx.NameCompressor}, enabledNames(e))
	assert.False(t, e.LoadPreset("Nope"))
}

func TestStateRoundTrip(t *testing.T) {
	a := newEngine(t)
	a.SetGenre(Jazz)
	a.SetEffectParameter(fx.NameReverb, "damping", 0.1)
	a.SetEffectParameter(fx.NameEQ, "lowFreq", 120)
	s := a.CurrentState()

	assert.Equal(t, CurrentStateName, s.Name)
	assert.Equal(t, Jazz, s.Genre)
	assert.False(t, s.EffectStates[fx.NameDistortion])
	assert.Contains(t, s.Parameters, ParameterValue{Effect: fx.NameReverb, Name: "damping", Value: 0.1})

	b := newEngine(t)
	b.SetGenre(Metal)
	b.ApplyState(s)
	assert.Equal(t, s, b.CurrentState())
}

func TestApplyStateIgnoresUnknownEffects(t *testing.T) {
	e := newEngine(t)
	e.ApplyState(State{
		Genre:        Pop,
		EffectStates: map[string]bool{"Flanger": true, fx.NameReverb: false},
		Parameters:   []ParameterValue{{Effect: "Flanger", Name: "rate", Value: 1}},
	})
	assert.Equal(t, Pop, e.Genre())
	assert.Equal(t, []string{fx.NameEQ, fx.NameDistortion, fx.NameCompressor}, enabledNames(e))
}

func TestAutoDetectionIsAdvisory(t *testing.T) {
	e := newEngine(t)
	e.SetAutoGenreDetection(true)
	require.True(t, e.AutoGenreDetection())

	in := testutil.Alternating(2048, 5, 0.9)
	out := make([]float64, len(in))
	e.Process(in, out, len(in), 1)

	assert.Equal(t, Metal, e.DetectedGenre())
	assert.Equal(t, Rock, e.Genre())
	assert.Greater(t, e.LastFeatures().CentroidHz, 0.0)
	assert.InDelta(t, 0.9, e.LastFeatures().RMS, 1e-12)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		f    analysis.Features
		want Genre
	}{
		{"loud and bright", analysis.Features{RMS: 0.9, ZeroCrossingRate: 0.2}, Metal},
		{"quiet and dark", analysis.Features{RMS: 0.01, ZeroCrossingRate: 0.01}, Jazz},
		{"loud mid", analysis.Features{RMS: 0.7, ZeroCrossingRate: 0.12}, Rock},
		{"high centroid", analysis.Features{RMS: 0.5, ZeroCrossingRate: 0.1, CentroidProxy: 2500}, Electronic},
		{"fallback", analysis.Features{RMS: 0.5, ZeroCrossingRate: 0.1, CentroidProxy: 100}, Pop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.f))
		})
	}
}

func TestAnalyzeForGenre(t *testing.T) {
	assert.Equal(t, Metal, AnalyzeForGenre(testutil.Alternating(1000, 5, 0.9)))
	assert.Equal(t, Jazz, AnalyzeForGenre(testutil.Constant(0.01, 1000)))

	f := AnalyzeFeatures(testutil.Alternating(1000, 5, 0.9))
	assert.InDelta(t, 0.199, f.ZeroCrossingRate, 1e-12)
	assert.InDelta(t, 199, f.CentroidProxy, 1e-9)
	assert.InDelta(t, 450, f.SpreadProxy, 1e-9)
}
