package midi

import (
	"fmt"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-31tone/debug"
)

// OutPortNames lists the available MIDI output ports. The scan runs with a
// timeout because CoreMIDI can hang.
func OutPortNames() []string {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case ports := <-ch:
		names := make([]string, 0, len(ports))
		for _, p := range ports {
			names = append(names, p.String())
		}
		return names
	case <-time.After(3 * time.Second):
		return nil
	}
}

// PortSender sends events to a named MIDI output port, opening it lazily
// and reopening after the port vanishes and comes back.
type PortSender struct {
	portName string

	mu     sync.Mutex
	sender func(gomidi.Message) error
}

// NewPortSender creates a sender for the named port. An empty name matches
// the first available port.
func NewPortSender(portName string) *PortSender {
	return &PortSender{portName: portName}
}

// PortName returns the configured port name.
func (p *PortSender) PortName() string {
	return p.portName
}

// Send delivers the events in order. Events after a transmission failure
// are abandoned; the port reopens on the next call.
func (p *PortSender) Send(events []Event) error {
	send, err := p.getSender()
	if err != nil {
		return err
	}
	for _, ev := range events {
		msg := ev.Message()
		if msg == nil {
			continue
		}
		if err := send(msg); err != nil {
			p.drop()
			return fmt.Errorf("send to %q: %w", p.portName, err)
		}
	}
	return nil
}

// Invalidate forgets the open port so the next Send reopens it. The
// watcher calls this when the port disappears.
func (p *PortSender) Invalidate() {
	p.drop()
}

func (p *PortSender) drop() {
	p.mu.Lock()
	p.sender = nil
	p.mu.Unlock()
}

func (p *PortSender) getSender() (func(gomidi.Message) error, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sender != nil {
		return p.sender, nil
	}

	for _, port := range gomidi.GetOutPorts() {
		if p.portName != "" && !strings.Contains(strings.ToLower(port.String()), strings.ToLower(p.portName)) {
			continue
		}
		send, err := gomidi.SendTo(port)
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", port.String(), err)
		}
		debug.Log("midi", "opened out port %q", port.String())
		p.sender = send
		return send, nil
	}
	return nil, fmt.Errorf("no MIDI output port matching %q", p.portName)
}
