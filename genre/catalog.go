package genre

import (
	"slices"
	"sync"

	"github.com/RJF-72/WarriorPlug-Ins/fx"
)

// Setting is one parameter value in a preset.
type Setting struct {
	Param string
	Value float64
}

// Preset configures the chain for a genre. Only effects listed in Enabled
// are switched on; Settings for an effect are applied when it is enabled.
type Preset struct {
	Genre       Genre
	Name        string
	Description string
	Enabled     []string
	Settings    map[string][]Setting
}

func (p Preset) clone() Preset {
	p.Enabled = slices.Clone(p.Enabled)
	if p.Settings != nil {
		s := make(map[string][]Setting, len(p.Settings))
		for k, v := range p.Settings {
			s[k] = slices.Clone(v)
		}
		p.Settings = s
	}
	return p
}

// Catalog is an immutable set of presets. Accessors return copies.
type Catalog struct {
	presets []Preset
}

// NewCatalog returns a catalog holding copies of presets.
func NewCatalog(presets ...Preset) *Catalog {
	c := &Catalog{presets: make([]Preset, len(presets))}
	for i, p := range presets {
		c.presets[i] = p.clone()
	}
	return c
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	return NewCatalog(
		Preset{
			Genre:       Rock,
			Name:        "Rock",
			Description: "Classic rock sound with distortion and reverb",
			Enabled:     []string{fx.NameDistortion, fx.NameCompressor, fx.NameEQ, fx.NameReverb},
			Settings: map[string][]Setting{
				fx.NameDistortion: {{"drive", 0.6}, {"tone", 0.7}, {"level", 0.8}},
				fx.NameReverb:     {{"roomSize", 0.4}, {"wetLevel", 0.2}},
				fx.NameCompressor: {{"threshold", 0.6}, {"ratio", 3}},
			},
		},
		Preset{
			Genre:       Jazz,
			Name:        "Jazz",
			Description: "Warm, clean jazz tone with subtle compression",
			Enabled:     []string{fx.NameEQ, fx.NameCompressor, fx.NameReverb},
			Settings: map[string][]Setting{
				fx.NameCompressor: {{"threshold", 0.8}, {"ratio", 2}},
				fx.NameReverb:     {{"roomSize", 0.6}, {"wetLevel", 0.3}},
				fx.NameEQ:         {{"midGain", 0.2}, {"highGain", -0.1}},
			},
		},
		Preset{
			Genre:       Metal,
			Name:        "Metal",
			Description: "High-gain distortion with tight compression",
			Enabled:     []string{fx.NameEQ, fx.NameDistortion, fx.NameCompressor},
			Settings: map[string][]Setting{
				fx.NameDistortion: {{"drive", 0.9}, {"tone", 0.8}, {"level", 0.9}},
				fx.NameCompressor: {{"threshold", 0.5}, {"ratio", 6}},
				fx.NameEQ:         {{"lowGain", 0.3}, {"highGain", 0.4}},
			},
		},
	)
})

// DefaultCatalog returns the shared catalog with the Rock, Jazz and Metal
// presets. It is built on first use.
func DefaultCatalog() *Catalog { return defaultCatalog() }

// Len returns the number of presets.
func (c *Catalog) Len() int { return len(c.presets) }

// Lookup returns the first preset for g.
func (c *Catalog) Lookup(g Genre) (Preset, bool) {
	for _, p := range c.presets {
		if p.Genre == g {
			return p.clone(), true
		}
	}
	return Preset{}, false
}

// ByName returns the preset called name.
func (c *Catalog) ByName(name string) (Preset, bool) {
	for _, p := range c.presets {
		if p.Name == name {
			return p.clone(), true
		}
	}
	return Preset{}, false
}

// Presets returns copies of every preset in order.
func (c *Catalog) Presets() []Preset {
	out := make([]Preset, len(c.presets))
	for i, p := range c.presets {
		out[i] = p.clone()
	}
	return out
}

// With returns a new catalog with p added. A preset of the same name is
// replaced in place. c is not modified.
func (c *Catalog) With(p Preset) *Catalog {
	next := &Catalog{presets: make([]Preset, 0, len(c.presets)+1)}
	replaced := false
	for _, old := range c.presets {
		if old.Name == p.Name {
			next.presets = append(next.presets, p.clone())
			replaced = true
			continue
		}
		next.presets = append(next.presets, old)
	}
	if !replaced {
		next.presets = append(next.presets, p.clone())
	}
	return next
}
