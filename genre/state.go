package genre

// CurrentStateName is the name carried by snapshots from CurrentState.
const CurrentStateName = "Current State"

// ParameterValue is one effect parameter in a State.
type ParameterValue struct {
	Effect string
	Name   string
	Value  float64
}

// State is a flat snapshot of the chain from which an engine can be
// rebuilt: every parameter of every effect plus each effect's enabled flag.
type State struct {
	Name         string
	Genre        Genre
	Parameters   []ParameterValue
	EffectStates map[string]bool
}

// CurrentState snapshots the chain.
func (e *Engine) CurrentState() State {
	s := State{
		Name:         CurrentStateName,
		Genre:        e.genre,
		EffectStates: make(map[string]bool, len(e.chain)),
	}
	for _, eff := range e.chain {
		s.EffectStates[eff.Name()] = eff.Enabled()
		for _, p := range eff.Parameters() {
			s.Parameters = append(s.Parameters, ParameterValue{Effect: eff.Name(), Name: p.Name, Value: p.Value})
		}
	}
	return s
}

// ApplyState selects s.Genre (applying its preset), then overrides the
// enabled flags and parameters listed in s. Names not in the chain are
// ignored.
func (e *Engine) ApplyState(s State) {
	e.SetGenre(s.Genre)
	for _, eff := range e.chain {
		if on, ok := s.EffectStates[eff.Name()]; ok {
			eff.SetEnabled(on)
		}
	}
	for _, p := range s.Parameters {
		e.SetEffectParameter(p.Effect, p.Name, p.Value)
	}
}
