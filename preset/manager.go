package preset

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/RJF-72/WarriorPlug-Ins/genre"
)

const (
	maxRecent = 20

	currentStateDescription = "Current plugin state"
	currentStateCategory    = "Temporary"
)

var (
	// ErrNotFound is returned for a preset name the library does not hold.
	ErrNotFound = errors.New("preset: not found")
	// ErrFactoryPreset is returned when deleting, renaming or overwriting a
	// factory preset.
	ErrFactoryPreset = errors.New("preset: factory presets are read-only")
	// ErrInvalid is returned by Save for a preset without a name or without
	// parameters.
	ErrInvalid = errors.New("preset: invalid preset")
	// ErrExists is returned by Rename when the new name is taken.
	ErrExists = errors.New("preset: name already in use")
)

// Engine is the part of genre.Engine the library reads and writes.
type Engine interface {
	CurrentState() genre.State
	ApplyState(genre.State)
}

// Option configures a Manager.
type Option func(*config) error

type config struct {
	logger logrus.FieldLogger
	now    func() time.Time
}

// WithLogger sets the logger for library changes.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) error {
		if l == nil {
			return errors.New("preset: nil logger")
		}
		c.logger = l
		return nil
	}
}

// WithClock overrides the time source used for created and modified stamps.
func WithClock(now func() time.Time) Option {
	return func(c *config) error {
		if now == nil {
			return errors.New("preset: nil clock")
		}
		c.now = now
		return nil
	}
}

// Manager is a preset library. It is safe for concurrent use.
type Manager struct {
	logger logrus.FieldLogger
	now    func() time.Time

	mu      sync.Mutex
	presets map[string]Preset
	factory map[string]bool
	recent  []string
	usage   map[string]int
}

// NewManager returns a library holding the factory presets.
func NewManager(opts ...Option) (*Manager, error) {
	cfg := config{logger: logrus.StandardLogger(), now: time.Now}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	m := &Manager{
		logger:  cfg.logger,
		now:     cfg.now,
		presets: make(map[string]Preset),
		factory: make(map[string]bool),
		usage:   make(map[string]int),
	}
	stamp := m.now()
	for _, s := range factorySpecs {
		p := s.preset()
		p.Created, p.Modified = stamp, stamp
		m.presets[p.Name] = p
		m.factory[p.Name] = true
	}
	m.logger.WithField("count", len(factorySpecs)).Debug("loaded factory presets")
	return m, nil
}

// Save stores p under its name, assigning an ID on first save and stamping
// the created and modified times. It returns the stored copy.
func (m *Manager) Save(p Preset) (Preset, error) {
	if p.Name == "" {
		return Preset{}, fmt.Errorf("%w: empty name", ErrInvalid)
	}
	if len(p.Parameters) == 0 {
		return Preset{}, fmt.Errorf("%w: %q has no parameters", ErrInvalid, p.Name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.factory[p.Name] {
		return Preset{}, fmt.Errorf("%w: %q", ErrFactoryPreset, p.Name)
	}

	p = p.clone()
	now := m.now()
	if old, ok := m.presets[p.Name]; ok {
		p.ID = old.ID
		p.Created = old.Created
		p.UsageCount = old.UsageCount
	} else {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.Created = now
	}
	p.Modified = now
	m.presets[p.Name] = p

	m.logger.WithFields(logrus.Fields{"preset": p.Name, "id": p.ID.String()}).Info("saved preset")
	return p.clone(), nil
}

// Get returns the preset called name.
func (m *Manager) Get(name string) (Preset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p.clone(), nil
}

// Load applies the preset called name to eng and records the use.
func (m *Manager) Load(name string, eng Engine) error {
	m.mu.Lock()
	p, ok := m.presets[name]
	if ok {
		m.markUsedLocked(name)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	eng.ApplyState(p.State())
	m.logger.WithField("preset", name).Info("applied preset")
	return nil
}

func (m *Manager) markUsedLocked(name string) {
	m.usage[name]++
	p := m.presets[name]
	p.UsageCount = m.usage[name]
	m.presets[name] = p

	m.recent = slices.DeleteFunc(m.recent, func(s string) bool { return s == name })
	m.recent = slices.Insert(m.recent, 0, name)
	if len(m.recent) > maxRecent {
		m.recent = m.recent[:maxRecent]
	}
}

// Delete removes a user preset along with its usage history.
func (m *Manager) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.factory[name] {
		return fmt.Errorf("%w: %q", ErrFactoryPreset, name)
	}
	if _, ok := m.presets[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(m.presets, name)
	delete(m.usage, name)
	m.recent = slices.DeleteFunc(m.recent, func(s string) bool { return s == name })

	m.logger.WithField("preset", name).Info("deleted preset")
	return nil
}

// Rename moves a user preset to a new name, keeping its ID and history.
func (m *Manager) Rename(oldName, newName string) error {
	if newName == "" {
		return fmt.Errorf("%w: empty name", ErrInvalid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.factory[oldName] {
		return fmt.Errorf("%w: %q", ErrFactoryPreset, oldName)
	}
	p, ok := m.presets[oldName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, oldName)
	}
	if _, taken := m.presets[newName]; taken {
		return fmt.Errorf("%w: %q", ErrExists, newName)
	}

	delete(m.presets, oldName)
	p.Name = newName
	p.Modified = m.now()
	m.presets[newName] = p

	if n, ok := m.usage[oldName]; ok {
		delete(m.usage, oldName)
		m.usage[newName] = n
	}
	for i, s := range m.recent {
		if s == oldName {
			m.recent[i] = newName
		}
	}
	return nil
}

// IsFactory reports whether name is a built-in preset.
func (m *Manager) IsFactory(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.factory[name]
}

// All returns every preset sorted by name.
func (m *Manager) All() []Preset {
	return m.filter(func(Preset) bool { return true })
}

// ByCategory returns the presets in category, sorted by name.
func (m *Manager) ByCategory(category string) []Preset {
	return m.filter(func(p Preset) bool { return p.Category == category })
}

// ByGenre returns the presets for g, sorted by name.
func (m *Manager) ByGenre(g genre.Genre) []Preset {
	return m.filter(func(p Preset) bool { return p.Genre == g })
}

// Search returns presets whose name, description or any tag contains term,
// ignoring case.
func (m *Manager) Search(term string) []Preset {
	term = strings.ToLower(term)
	return m.filter(func(p Preset) bool {
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			return true
		}
		return slices.ContainsFunc(p.Tags, func(tag string) bool {
			return strings.Contains(strings.ToLower(tag), term)
		})
	})
}

func (m *Manager) filter(keep func(Preset) bool) []Preset {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Preset
	for _, p := range m.presets {
		if keep(p) {
			out = append(out, p.clone())
		}
	}
	slices.SortFunc(out, func(a, b Preset) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// Categories returns the distinct categories in sorted order.
func (m *Manager) Categories() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	for _, p := range m.presets {
		if !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	slices.Sort(out)
	return out
}

// MostUsed returns up to n presets ordered by use count, most used first.
// Ties are broken by name.
func (m *Manager) MostUsed(n int) []Preset {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.usage))
	for name := range m.usage {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(m.usage[b], m.usage[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return m.collectLocked(names, n)
}

// RecentlyUsed returns up to n presets, most recently loaded first.
func (m *Manager) RecentlyUsed(n int) []Preset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.collectLocked(m.recent, n)
}

func (m *Manager) collectLocked(names []string, n int) []Preset {
	out := make([]Preset, 0, min(max(n, 0), len(names)))
	for _, name := range names {
		if len(out) >= n {
			break
		}
		if p, ok := m.presets[name]; ok {
			out = append(out, p.clone())
		}
	}
	return out
}

// CurrentState snapshots eng as an unsaved preset named "Current State".
func (m *Manager) CurrentState(eng Engine) Preset {
	p := FromState(eng.CurrentState())
	p.Name = genre.CurrentStateName
	p.Description = currentStateDescription
	p.Category = currentStateCategory
	p.Modified = m.now()
	return p
}
