package player

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-31tone/midi"
	"go-31tone/router"
	"go-31tone/scale"
	"go-31tone/shortcode"
	"go-31tone/slots"
)

// recorder captures outbound events in order.
type recorder struct {
	events []midi.Event
}

func (r *recorder) Send(events []midi.Event) error {
	r.events = append(r.events, events...)
	return nil
}

func (r *recorder) reset() {
	r.events = nil
}

func newTestPlayer(rows ...slots.Row) (*Player, *slots.Store, *recorder) {
	rng := rand.New(rand.NewSource(1))
	engine := shortcode.New(rng)
	store := slots.NewStore(engine)
	store.ApplyTable(rows)
	rec := &recorder{}
	p := New(store, engine, router.New(rng), rec, 2)
	return p, store, rec
}

func drainNotices(p *Player) []Notice {
	var out []Notice
	for {
		select {
		case n := <-p.Notices():
			out = append(out, n)
		default:
			return out
		}
	}
}

func TestTriggerUnassignedKeyEmitsNothing(t *testing.T) {
	p, _, rec := newTestPlayer(slots.Row{Code: "94"})

	p.Trigger('z')

	assert := assert.New(t)
	assert.Empty(rec.events)
	assert.False(p.IsPlaying())
	_, selected := p.Current()
	assert.False(selected)

	notices := drainNotices(p)
	assert.Len(notices, 1)
	assert.Equal(NoticeInfo, notices[0].Kind)
}

func TestTriggerEmitsBendBeforeEachNoteOn(t *testing.T) {
	p, _, rec := newTestPlayer(slots.Row{Name: "tonic", Code: "sym3 s31"})

	p.Trigger('1')

	assert := assert.New(t)
	assert.True(p.IsPlaying())
	assert.Len(rec.events, 6) // 3 voices, bend+on each
	for i := 0; i < len(rec.events); i += 2 {
		assert.Equal(midi.PitchBend, rec.events[i].Type)
		assert.Equal(midi.NoteOn, rec.events[i+1].Type)
		assert.Equal(rec.events[i].Channel, rec.events[i+1].Channel)
	}

	notices := drainNotices(p)
	assert.Len(notices, 1)
	assert.Equal(NoticeChord, notices[0].Kind)
	assert.Equal("tonic", notices[0].Name)
	assert.Equal(scale.Chord{63, 94, 125}, notices[0].Steps)
}

func TestRetriggerStopsBeforeStarting(t *testing.T) {
	p, _, rec := newTestPlayer(slots.Row{Code: "94"}, slots.Row{Code: "100"})

	p.Trigger('1')
	rec.reset()
	p.Trigger('2')

	// All note-offs of the old chord precede any note-on of the new one.
	assert := assert.New(t)
	assert.Equal(midi.NoteOff, rec.events[0].Type)
	lastOff, firstOn := -1, -1
	for i, ev := range rec.events {
		if ev.Type == midi.NoteOff {
			lastOff = i
		}
		if ev.Type == midi.NoteOn && firstOn < 0 {
			firstOn = i
		}
	}
	assert.Less(lastOff, firstOn)
}

func TestStopIsIdempotent(t *testing.T) {
	p, _, rec := newTestPlayer(slots.Row{Code: "94 125"})

	p.Trigger('1')
	rec.reset()
	p.Stop()
	assert.Len(t, rec.events, 2)
	assert.False(t, p.IsPlaying())

	rec.reset()
	p.Stop()
	assert.Empty(t, rec.events)
}

func TestTogglePlayFallsBackToFirstBoundSlot(t *testing.T) {
	p, _, rec := newTestPlayer(slots.Row{Code: ""}, slots.Row{Code: "94"})

	p.TogglePlay()

	assert := assert.New(t)
	assert.True(p.IsPlaying())
	key, ok := p.Current()
	assert.True(ok)
	assert.Equal('1', key)
	assert.NotEmpty(rec.events)
}

func TestTogglePlayStopsAndResumes(t *testing.T) {
	p, _, _ := newTestPlayer(slots.Row{Code: "94"})

	p.Trigger('1')
	p.TogglePlay()
	assert.False(t, p.IsPlaying())

	p.TogglePlay()
	assert.True(t, p.IsPlaying())
}

func TestTransposeShiftsAndNotifiesSignOnly(t *testing.T) {
	p, store, _ := newTestPlayer(slots.Row{Code: "94"})

	p.Trigger('1')
	drainNotices(p)
	p.Transpose(5)

	assert := assert.New(t)
	assert.Equal(5, store.Get('1').Offset)

	notices := drainNotices(p)
	// chord notice from the re-trigger, then the transpose notice
	assert.Equal(NoticeTranspose, notices[len(notices)-1].Kind)
	assert.Equal(1, notices[len(notices)-1].Sign)
	assert.Equal(scale.Chord{99}, notices[len(notices)-1].Steps)

	p.Transpose(-7)
	notices = drainNotices(p)
	assert.Equal(-1, notices[len(notices)-1].Sign)
	assert.Equal(-2, store.Get('1').Offset)
}

func TestTransposeWithoutSelectionIsNoOp(t *testing.T) {
	p, _, rec := newTestPlayer(slots.Row{Code: "94"})
	p.Transpose(1)
	assert.Empty(t, rec.events)
}

func TestRetriggerCurrentSlotPreservesOffset(t *testing.T) {
	p, store, _ := newTestPlayer(slots.Row{Code: "94"}, slots.Row{Code: "100"})

	p.Trigger('1')
	p.Transpose(3)
	p.Trigger('1')
	assert.Equal(t, 3, store.Get('1').Offset)

	// Selecting a different slot then coming back resets it.
	p.Trigger('2')
	p.Trigger('1')
	assert.Equal(t, 0, store.Get('1').Offset)
}

func TestRegeneratePreservesOffsetAndReplacesBase(t *testing.T) {
	p, store, _ := newTestPlayer(slots.Row{Code: "rand5"})

	p.Trigger('1')
	p.Transpose(1)
	p.Transpose(1)
	p.Transpose(1)
	before := append(scale.Chord(nil), store.Get('1').BaseChord...)
	drainNotices(p)

	p.RegenerateIfRandom()

	assert := assert.New(t)
	slot := store.Get('1')
	assert.Equal(3, slot.Offset)
	assert.NotEqual(before, slot.BaseChord)

	notices := drainNotices(p)
	last := notices[len(notices)-1]
	assert.Equal(NoticeRegenerated, last.Kind)
	assert.Equal(slot.BaseChord.Transpose(3), last.Steps)
}

func TestRegenerateOnNonRandSlotIsInformational(t *testing.T) {
	p, store, rec := newTestPlayer(slots.Row{Code: "sym3"})

	p.Trigger('1')
	before := append(scale.Chord(nil), store.Get('1').BaseChord...)
	rec.reset()
	drainNotices(p)

	p.RegenerateIfRandom()

	assert := assert.New(t)
	assert.Empty(rec.events)
	assert.Equal(before, store.Get('1').BaseChord)
	notices := drainNotices(p)
	assert.Len(notices, 1)
	assert.Equal(NoticeInfo, notices[0].Kind)
}

func TestPanicResetsAllChannelsEvenWhenSilent(t *testing.T) {
	p, _, rec := newTestPlayer(slots.Row{Code: "94"})

	p.Panic()

	assert := assert.New(t)
	assert.Len(rec.events, 48) // 16 channels x (bend, cc123, cc120)
	for ch := 1; ch <= 16; ch++ {
		base := (ch - 1) * 3
		assert.Equal(midi.Event{Type: midi.PitchBend, Channel: ch, Bend: midi.BendCenter}, rec.events[base])
		assert.Equal(midi.Event{Type: midi.ControlChange, Channel: ch, Controller: 123}, rec.events[base+1])
		assert.Equal(midi.Event{Type: midi.ControlChange, Channel: ch, Controller: 120}, rec.events[base+2])
	}
}

func TestInitBendRangeSendsRPNSequence(t *testing.T) {
	p, _, rec := newTestPlayer()

	assert := assert.New(t)
	assert.NoError(p.InitBendRange())
	assert.Len(rec.events, 96) // 16 channels x 6 control changes

	want := [][2]int{{101, 0}, {100, 0}, {6, 2}, {38, 0}, {101, 127}, {100, 127}}
	for i, cv := range want {
		assert.Equal(midi.ControlChange, rec.events[i].Type)
		assert.Equal(1, rec.events[i].Channel)
		assert.Equal(cv[0], rec.events[i].Controller)
		assert.Equal(cv[1], rec.events[i].Value)
	}
}
