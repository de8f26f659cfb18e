package midi

import (
	"context"
	"strings"
	"time"

	"go-31tone/debug"
)

// PortEvent is emitted when the watched output port appears or vanishes.
type PortEvent struct {
	Type PortEventType
	Name string
}

type PortEventType int

const (
	PortConnected PortEventType = iota
	PortDisconnected
)

// PortWatcher polls for the configured MIDI output port so a synth can be
// plugged in or power-cycled mid-performance.
type PortWatcher struct {
	sender   *PortSender
	events   chan PortEvent
	pollRate time.Duration

	present bool
	name    string
}

// NewPortWatcher creates a watcher for the sender's port.
func NewPortWatcher(sender *PortSender) *PortWatcher {
	return &PortWatcher{
		sender:   sender,
		events:   make(chan PortEvent, 16),
		pollRate: time.Second,
	}
}

// Events returns a channel of connect/disconnect events.
func (w *PortWatcher) Events() <-chan PortEvent {
	return w.events
}

// Run starts the polling loop (blocking - run in goroutine).
func (w *PortWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollRate)
	defer ticker.Stop()

	// Initial scan
	w.scan()

	for {
		select {
		case <-ctx.Done():
			close(w.events)
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *PortWatcher) scan() {
	want := strings.ToLower(w.sender.PortName())

	var found string
	for _, name := range OutPortNames() {
		if want == "" || strings.Contains(strings.ToLower(name), want) {
			found = name
			break
		}
	}

	switch {
	case found != "" && !w.present:
		w.present = true
		w.name = found
		debug.Log("midi", "out port appeared: %q", found)
		w.emit(PortEvent{Type: PortConnected, Name: found})
	case found == "" && w.present:
		w.present = false
		debug.Log("midi", "out port vanished: %q", w.name)
		w.sender.Invalidate()
		w.emit(PortEvent{Type: PortDisconnected, Name: w.name})
		w.name = ""
	}
}

func (w *PortWatcher) emit(ev PortEvent) {
	select {
	case w.events <- ev:
	default:
	}
}
