package fx

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownEffect is returned by Registry.New for a name with no factory.
var ErrUnknownEffect = errors.New("unknown effect")

var errDuplicateEffect = errors.New("duplicate effect")

// Factory builds one effect for a sample rate.
type Factory func(sampleRate float64) (Effect, error)

// Registry maps effect names to their factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with every effect in this package.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(NameDistortion, func(float64) (Effect, error) { return NewDistortion(), nil })
	r.MustRegister(NameReverb, func(float64) (Effect, error) { return NewReverb(), nil })
	r.MustRegister(NameCompressor, func(sr float64) (Effect, error) { return NewCompressor(sr) })
	r.MustRegister(NameEQ, func(sr float64) (Effect, error) { return NewEQ(sr) })
	r.MustRegister(NameAmp, func(sr float64) (Effect, error) { return NewAmp(sr) })
	r.MustRegister(NameTremolo, func(sr float64) (Effect, error) { return NewTremolo(sr) })
	return r
}

// Register adds a factory under name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("empty effect name")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateEffect, name)
	}

	r.factories[name] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic("fx registry: " + err.Error())
	}
}

// New builds the effect registered under name.
func (r *Registry) New(name string, sampleRate float64) (Effect, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	e, err := f(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return e, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
