package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPollInterval is how often a Monitor rescans.
const DefaultPollInterval = 500 * time.Millisecond

// Scanner enumerates the audio devices currently attached.
type Scanner interface {
	Scan(ctx context.Context) ([]Device, error)
}

// ScannerFunc adapts a function to Scanner.
type ScannerFunc func(ctx context.Context) ([]Device, error)

// Scan calls f.
func (f ScannerFunc) Scan(ctx context.Context) ([]Device, error) { return f(ctx) }

// StaticScanner always reports the same devices.
type StaticScanner []Device

// Scan returns a copy of s.
func (s StaticScanner) Scan(context.Context) ([]Device, error) {
	return append([]Device(nil), s...), nil
}

// SimulatedInterface is the stand-in device reported when no real
// enumeration is available.
var SimulatedInterface = Device{
	VendorID:     0x1234,
	ProductID:    0x5678,
	Manufacturer: "Virtual Audio",
	Product:      "Test USB Interface",
	Serial:       "TEST001",
	Channels:     2,
	SampleRate:   44100,
}

// EventKind says whether a device appeared or went away.
type EventKind int

const (
	Connected EventKind = iota
	Disconnected
)

func (k EventKind) String() string {
	switch k {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event reports one change between scans. Profile is the identified
// instrument for the device.
type Event struct {
	Kind    EventKind
	Device  Device
	Profile Profile
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor) error

// WithInterval sets the poll interval.
func WithInterval(d time.Duration) MonitorOption {
	return func(m *Monitor) error {
		if d <= 0 {
			return fmt.Errorf("device: poll interval must be > 0: %s", d)
		}
		m.interval = d
		return nil
	}
}

// WithLogger sets the logger for connect and scan-failure messages.
func WithLogger(l logrus.FieldLogger) MonitorOption {
	return func(m *Monitor) error {
		if l == nil {
			return errors.New("device: nil logger")
		}
		m.logger = l
		return nil
	}
}

// WithIdentifier sets the profile matcher.
func WithIdentifier(id *Identifier) MonitorOption {
	return func(m *Monitor) error {
		if id == nil {
			return errors.New("device: nil identifier")
		}
		m.identifier = id
		return nil
	}
}

// Monitor polls a Scanner and reports connects and disconnects.
type Monitor struct {
	scanner    Scanner
	interval   time.Duration
	logger     logrus.FieldLogger
	identifier *Identifier
}

// NewMonitor returns a monitor over scanner polling every 500 ms.
func NewMonitor(scanner Scanner, opts ...MonitorOption) (*Monitor, error) {
	if scanner == nil {
		return nil, errors.New("device: nil scanner")
	}
	m := &Monitor{
		scanner:    scanner,
		interval:   DefaultPollInterval,
		logger:     logrus.StandardLogger(),
		identifier: NewIdentifier(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Run scans immediately and then every interval, sending an Event for each
// device that appeared or disappeared since the previous successful scan.
// Failed scans are logged and skipped. Run closes events and returns
// ctx.Err() once ctx is done.
func (m *Monitor) Run(ctx context.Context, events chan<- Event) error {
	defer close(events)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	known := make(map[string]Device)
	for {
		if err := m.poll(ctx, known, events); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (m *Monitor) poll(ctx context.Context, known map[string]Device, events chan<- Event) error {
	devices, err := m.scanner.Scan(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		m.logger.WithError(err).Warn("device scan failed")
		return nil
	}

	current := make(map[string]Device, len(devices))
	for _, d := range devices {
		current[d.Key()] = d
	}

	var changes []Event
	for _, d := range devices {
		if _, ok := known[d.Key()]; !ok {
			changes = append(changes, Event{Kind: Connected, Device: d, Profile: m.identifier.Identify(d)})
		}
	}
	for key, d := range known {
		if _, ok := current[key]; !ok {
			changes = append(changes, Event{Kind: Disconnected, Device: d, Profile: m.identifier.Identify(d)})
		}
	}

	clear(known)
	for k, d := range current {
		known[k] = d
	}

	for _, ev := range changes {
		m.logger.WithFields(logrus.Fields{
			"event":      ev.Kind.String(),
			"product":    ev.Device.Product,
			"instrument": ev.Profile.InstrumentType,
		}).Info("device change")
		select {
		case events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
