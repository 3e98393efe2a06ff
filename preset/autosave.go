package preset

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Sink receives auto-saved snapshots.
type Sink interface {
	Store(ctx context.Context, p Preset) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, p Preset) error

// Store calls f.
func (f SinkFunc) Store(ctx context.Context, p Preset) error { return f(ctx, p) }

// AutoSave hands a snapshot of eng to sink every interval until ctx is done.
// eng must be safe to read from this goroutine. Sink errors are logged and
// the loop continues. It returns ctx.Err().
func (m *Manager) AutoSave(ctx context.Context, interval time.Duration, eng Engine, sink Sink) error {
	if interval <= 0 {
		return fmt.Errorf("preset: auto-save interval must be > 0: %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.logger.WithField("interval", interval.String()).Info("auto-save started")
	defer m.logger.Info("auto-save stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p := m.CurrentState(eng)
			if err := sink.Store(ctx, p); err != nil {
				m.logger.WithFields(logrus.Fields{"error": err}).Warn("auto-save failed")
			}
		}
	}
}
