package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Event types
const (
	NoteOn uint8 = iota
	NoteOff
	PitchBend
	ControlChange
)

// BendCenter is the 14-bit rest position of the pitch wheel.
const BendCenter = 8192

// Event is one outbound MIDI event as the core produces it. Channel is the
// 1-based MIDI channel; Bend is the full 14-bit value centered at 8192.
type Event struct {
	Type       uint8
	Channel    int
	Note       int
	Velocity   int
	Bend       int
	Controller int
	Value      int
}

// Message converts the event into a wire message. Channels move to the
// 0-based convention and bend to the signed relative form gomidi expects.
func (e Event) Message() gomidi.Message {
	ch := uint8(e.Channel - 1)
	switch e.Type {
	case NoteOn:
		return gomidi.NoteOn(ch, uint8(e.Note), uint8(e.Velocity))
	case NoteOff:
		return gomidi.NoteOff(ch, uint8(e.Note))
	case PitchBend:
		return gomidi.Pitchbend(ch, int16(e.Bend-BendCenter))
	case ControlChange:
		return gomidi.ControlChange(ch, uint8(e.Controller), uint8(e.Value))
	}
	return nil
}

// Sender delivers events, in the order given, to wherever they go: a real
// port, or a recorder in tests.
type Sender interface {
	Send(events []Event) error
}
