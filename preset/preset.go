// Package preset keeps an in-memory library of chain presets: the factory
// set, user presets, usage statistics and a periodic auto-save task.
package preset

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/RJF-72/WarriorPlug-Ins/genre"
)

// Preset is a stored chain configuration with library metadata.
type Preset struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    string
	Author      string
	Version     string
	Genre       genre.Genre

	Parameters   []genre.ParameterValue
	EffectStates map[string]bool

	Created    time.Time
	Modified   time.Time
	Tags       []string
	Rating     float64
	UsageCount int
}

// FromState wraps an engine snapshot.
func FromState(s genre.State) Preset {
	p := Preset{
		Name:       s.Name,
		Genre:      s.Genre,
		Parameters: slices.Clone(s.Parameters),
	}
	if s.EffectStates != nil {
		p.EffectStates = make(map[string]bool, len(s.EffectStates))
		for k, v := range s.EffectStates {
			p.EffectStates[k] = v
		}
	}
	return p
}

// State returns the chain part of p.
func (p Preset) State() genre.State {
	c := p.clone()
	return genre.State{
		Name:         c.Name,
		Genre:        c.Genre,
		Parameters:   c.Parameters,
		EffectStates: c.EffectStates,
	}
}

func (p Preset) clone() Preset {
	p.Parameters = slices.Clone(p.Parameters)
	p.Tags = slices.Clone(p.Tags)
	if p.EffectStates != nil {
		m := make(map[string]bool, len(p.EffectStates))
		for k, v := range p.EffectStates {
			m[k] = v
		}
		p.EffectStates = m
	}
	return p
}
