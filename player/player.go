// Package player orchestrates slot triggering against the tuning math and
// the voice router, emitting ordered MIDI events.
package player

import (
	"fmt"

	"go-31tone/debug"
	"go-31tone/midi"
	"go-31tone/router"
	"go-31tone/scale"
	"go-31tone/shortcode"
	"go-31tone/slots"
)

// NoticeKind tags what a notice describes.
type NoticeKind int

const (
	NoticeChord NoticeKind = iota
	NoticeTranspose
	NoticeRegenerated
	NoticeStopped
	NoticeInfo
	NoticeError
)

// Notice describes a sounding-state change for observers (the display).
type Notice struct {
	Kind  NoticeKind
	Text  string
	Name  string      // slot display name, when relevant
	Steps scale.Chord // sounding steps, when relevant
	Sign  int         // transpose direction, -1 or +1
}

type activeVoice struct {
	channel int
	note    int
}

// Player owns the playback state. All operations run synchronously on the
// caller's goroutine and to completion; the TUI drives them one at a time.
type Player struct {
	store  *slots.Store
	engine *shortcode.Engine
	router *router.Router
	sender midi.Sender

	bendRange int
	velocity  int

	current rune // 0 when no slot selected
	playing bool
	active  []activeVoice

	notices chan Notice
}

// New wires a player. bendRange is the receiver's pitch-bend sensitivity
// in semitones, as configured.
func New(store *slots.Store, engine *shortcode.Engine, rtr *router.Router, sender midi.Sender, bendRange int) *Player {
	return &Player{
		store:     store,
		engine:    engine,
		router:    rtr,
		sender:    sender,
		bendRange: bendRange,
		velocity:  100,
		notices:   make(chan Notice, 16),
	}
}

// Notices returns the observer channel. Sends never block; a slow observer
// loses notices, not playback.
func (p *Player) Notices() <-chan Notice {
	return p.notices
}

// Current returns the selected hotkey, if any.
func (p *Player) Current() (rune, bool) {
	return p.current, p.current != 0
}

// IsPlaying reports whether voices are sounding.
func (p *Player) IsPlaying() bool {
	return p.playing
}

// InitBendRange sends the RPN pitch-bend-sensitivity sequence on every
// channel. Must run before any bent note-on.
func (p *Player) InitBendRange() error {
	semis := p.bendRange
	if semis < 0 {
		semis = 0
	}
	if semis > 24 {
		semis = 24
	}

	var events []midi.Event
	for ch := 1; ch <= 16; ch++ {
		for _, cv := range [][2]int{{101, 0}, {100, 0}, {6, semis}, {38, 0}, {101, 127}, {100, 127}} {
			events = append(events, midi.Event{
				Type: midi.ControlChange, Channel: ch, Controller: cv[0], Value: cv[1],
			})
		}
	}
	return p.sender.Send(events)
}

// Trigger plays the chord bound to key. Selecting a new slot resets its
// transpose offset; re-triggering the current slot preserves it.
func (p *Player) Trigger(key rune) {
	slot := p.store.Get(key)
	if slot == nil {
		p.notify(Notice{Kind: NoticeInfo, Text: fmt.Sprintf("hotkey %q unassigned", key)})
		return
	}

	p.Stop()
	if key != p.current {
		slot.Offset = 0
	}
	p.current = key
	p.start(slot)
}

// TogglePlay stops if playing, re-triggers the current slot if stopped,
// and falls back to the first bound slot if nothing was selected yet.
func (p *Player) TogglePlay() {
	if p.current == 0 {
		key, ok := p.store.FirstBound()
		if !ok {
			p.notify(Notice{Kind: NoticeInfo, Text: "no slots assigned"})
			return
		}
		p.Trigger(key)
		return
	}
	if p.playing {
		p.Stop()
		p.notify(Notice{Kind: NoticeStopped, Text: "stopped"})
		return
	}
	p.Stop()
	p.start(p.store.Get(p.current))
}

// Transpose shifts the current slot by delta steps and re-triggers.
func (p *Player) Transpose(delta int) {
	if p.current == 0 || delta == 0 {
		return
	}
	slot := p.store.Get(p.current)
	slot.Offset += delta

	p.Stop()
	p.start(slot)

	sign := 1
	if delta < 0 {
		sign = -1
	}
	p.notify(Notice{Kind: NoticeTranspose, Sign: sign, Name: slot.Name, Steps: slot.Transposed()})
}

// RegenerateIfRandom redraws the current slot's chord by re-parsing its
// original rand shortcode. The transpose offset survives regeneration.
func (p *Player) RegenerateIfRandom() {
	if p.current == 0 {
		p.notify(Notice{Kind: NoticeInfo, Text: "no slot selected"})
		return
	}
	slot := p.store.Get(p.current)
	if !shortcode.IsRand(slot.Code) {
		p.notify(Notice{Kind: NoticeInfo, Text: "current slot is not a rand chord"})
		return
	}

	p.Stop()
	chord, err := p.engine.Parse(slot.Code)
	if err != nil {
		p.notify(Notice{Kind: NoticeError, Text: fmt.Sprintf("regenerate: %v", err)})
		return
	}
	slot.BaseChord = chord
	p.start(slot)
	p.notify(Notice{Kind: NoticeRegenerated, Name: slot.Name, Steps: slot.Transposed()})
}

// Stop silences every active voice. Idempotent.
func (p *Player) Stop() {
	if len(p.active) > 0 {
		events := make([]midi.Event, 0, len(p.active))
		for _, v := range p.active {
			events = append(events, midi.Event{Type: midi.NoteOff, Channel: v.channel, Note: v.note})
		}
		p.send(events)
		p.active = p.active[:0]
	}
	p.playing = false
}

// Panic hard-resets every channel regardless of tracked state: bend to
// center, all notes off, all sound off. Guarantees no stuck notes after a
// state bug or a lost note-off.
func (p *Player) Panic() {
	p.Stop()
	var events []midi.Event
	for ch := 1; ch <= 16; ch++ {
		events = append(events,
			midi.Event{Type: midi.PitchBend, Channel: ch, Bend: midi.BendCenter},
			midi.Event{Type: midi.ControlChange, Channel: ch, Controller: 123, Value: 0},
			midi.Event{Type: midi.ControlChange, Channel: ch, Controller: 120, Value: 0},
		)
	}
	p.send(events)
	debug.Log("play", "panic: reset all channels")
}

// start routes and sounds a slot's transposed chord. Bend always precedes
// the note-on it tunes.
func (p *Player) start(slot *slots.Slot) {
	chord := slot.Transposed()
	channels := p.router.Allocate(chord)

	events := make([]midi.Event, 0, 2*len(channels))
	for i, ch := range channels {
		note, bend := scale.ToMidiAndBend(chord[i], p.bendRange)
		events = append(events,
			midi.Event{Type: midi.PitchBend, Channel: ch, Bend: bend},
			midi.Event{Type: midi.NoteOn, Channel: ch, Note: note, Velocity: p.velocity},
		)
		p.active = append(p.active, activeVoice{channel: ch, note: note})
	}
	p.send(events)
	p.playing = true
	debug.Log("play", "slot %q: %d voices sounding (offset %+d)", slot.Key, len(channels), slot.Offset)

	p.notify(Notice{Kind: NoticeChord, Name: slot.Name, Steps: chord})
}

func (p *Player) send(events []midi.Event) {
	if len(events) == 0 {
		return
	}
	if err := p.sender.Send(events); err != nil {
		debug.Log("play", "send failed: %v", err)
		p.notify(Notice{Kind: NoticeError, Text: err.Error()})
	}
}

func (p *Player) notify(n Notice) {
	select {
	case p.notices <- n:
	default:
	}
}
