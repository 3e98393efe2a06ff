package device

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RJF-72/WarriorPlug-Ins/internal/testutil"
)

// script returns one scan result per call and repeats the last one.
type script struct {
	mu    sync.Mutex
	steps []scanStep
	calls int
}

type scanStep struct {
	devices []Device
	err     error
}

func (s *script) Scan(context.Context) ([]Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step := s.steps[min(s.calls, len(s.steps)-1)]
	s.calls++
	return step.devices, step.err
}

func guitar() Device {
	return Device{VendorID: 0x0582, ProductID: 0x012a, Product: "Guitar Link", Serial: "G1", Channels: 1, SampleRate: 48000}
}

func newMonitor(t *testing.T, s Scanner) *Monitor {
	t.Helper()
	m, err := NewMonitor(s, WithInterval(time.Millisecond), WithLogger(testutil.DiscardLogger()))
	require.NoError(t, err)
	return m
}

func next(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-events:
		require.True(t, ok, "events closed early")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestMonitorReportsConnectAndDisconnect(t *testing.T) {
	s := &script{steps: []scanStep{
		{devices: []Device{SimulatedInterface}},
		{devices: []Device{SimulatedInterface, guitar()}},
		{err: errors.New("bus busy")},
		{devices: []Device{guitar()}},
	}}
	m := newMonitor(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan Event)
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, events) }()

	ev := next(t, events)
	assert.Equal(t, Connected, ev.Kind)
	assert.Equal(t, SimulatedInterface, ev.Device)
	assert.Equal(t, "generic", ev.Profile.InstrumentType)

	ev = next(t, events)
	assert.Equal(t, Connected, ev.Kind)
	assert.Equal(t, "guitar", ev.Profile.InstrumentType)
	assert.Equal(t, Suggestion{Genre: "rock", Gain: 0.7}, ev.Profile.Suggestion())

	// The failed scan keeps the previous set, so the next change is the
	// simulated interface going away.
	ev = next(t, events)
	assert.Equal(t, Disconnected, ev.Kind)
	assert.Equal(t, SimulatedInterface.Key(), ev.Device.Key())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	_, ok := <-events
	assert.False(t, ok)
}

func TestMonitorStableSetIsQuiet(t *testing.T) {
	m := newMonitor(t, StaticScanner{SimulatedInterface})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	events := make(chan Event, 16)
	err := m.Run(ctx, events)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var got []Event
	for ev := range events {
		got = append(got, ev)
	}
	require.Len(t, got, 1)
	assert.Equal(t, Connected, got[0].Kind)
}

func TestNewMonitorValidation(t *testing.T) {
	_, err := NewMonitor(nil)
	assert.Error(t, err)
	_, err = NewMonitor(StaticScanner{}, WithInterval(0))
	assert.Error(t, err)
	_, err = NewMonitor(StaticScanner{}, WithLogger(nil))
	assert.Error(t, err)
	_, err = NewMonitor(StaticScanner{}, WithIdentifier(nil))
	assert.Error(t, err)

	m, err := NewMonitor(ScannerFunc(func(context.Context) ([]Device, error) { return nil, nil }))
	require.NoError(t, err)
	assert.Equal(t, DefaultPollInterval, m.interval)
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "connected", Connected.String())
	assert.Equal(t, "disconnected", Disconnected.String())
	assert.Equal(t, "EventKind(7)", EventKind(7).String())
}
