package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-31tone/midi"
	"go-31tone/player"
	"go-31tone/scale"
	"go-31tone/slots"
	"go-31tone/theme"
	"go-31tone/widgets"
)

type Model struct {
	Player  *player.Player
	Store   *slots.Store
	Watcher *midi.PortWatcher
	Theme   *theme.Theme

	noteNames []string
	notice    player.Notice
	hasNotice bool
	portName  string
	portUp    bool
	quitting  bool
}

type NoticeMsg player.Notice

type PortEventMsg midi.PortEvent

func NewModel(p *player.Player, store *slots.Store, watcher *midi.PortWatcher, th *theme.Theme, noteNames []string) Model {
	return Model{
		Player:    p,
		Store:     store,
		Watcher:   watcher,
		Theme:     th,
		noteNames: noteNames,
	}
}

func ListenForNotices(p *player.Player) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg(<-p.Notices())
	}
}

func ListenForPorts(w *midi.PortWatcher) tea.Cmd {
	return func() tea.Msg {
		return PortEventMsg(<-w.Events())
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForNotices(m.Player),
		ListenForPorts(m.Watcher),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.quitting = true
			m.Player.Panic()
			return m, tea.Quit

		case " ", "enter":
			m.Player.TogglePlay()

		case "up":
			m.Player.Transpose(1)

		case "down":
			m.Player.Transpose(-1)

		case "pgup":
			m.Player.Transpose(scale.StepsPerOctave)

		case "pgdown":
			m.Player.Transpose(-scale.StepsPerOctave)

		case "tab":
			m.Player.RegenerateIfRandom()

		default:
			if key, ok := hotkey(msg.String()); ok {
				m.Player.Trigger(key)
			}
		}

	case NoticeMsg:
		m.notice = player.Notice(msg)
		m.hasNotice = true
		return m, ListenForNotices(m.Player)

	case PortEventMsg:
		event := midi.PortEvent(msg)
		m.portUp = event.Type == midi.PortConnected
		m.portName = event.Name
		if m.portUp {
			// Re-arm bend sensitivity on the fresh connection.
			m.Player.InitBendRange()
		}
		return m, ListenForPorts(m.Watcher)
	}

	return m, nil
}

// hotkey maps a key press onto the slot alphabet.
func hotkey(s string) (rune, bool) {
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, false
	}
	if strings.ContainsRune(slots.Alphabet, runes[0]) {
		return runes[0], true
	}
	return 0, false
}

func (m Model) View() string {
	if m.quitting {
		return "bye\n"
	}

	th := m.Theme
	title := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	muted := lipgloss.NewStyle().Foreground(th.Muted())
	active := lipgloss.NewStyle().Foreground(th.Active())
	warn := lipgloss.NewStyle().Foreground(th.Warning())

	var b strings.Builder
	b.WriteString(title.Render("go-31tone") + muted.Render("  31-EDO chord performer") + "\n\n")

	// Port status
	if m.portUp {
		b.WriteString(muted.Render("out: ") + m.portName + "\n\n")
	} else {
		b.WriteString(warn.Render("out: waiting for MIDI port") + "\n\n")
	}

	// Slot grid
	current, _ := m.Player.Current()
	var cells []widgets.SlotCell
	for _, key := range slots.Alphabet {
		slot := m.Store.Get(key)
		cells = append(cells, widgets.SlotCell{
			Key:     key,
			Bound:   slot != nil,
			Current: key == current,
		})
	}
	sym := th.Symbols
	b.WriteString(widgets.RenderSlotGrid(cells, sym.SlotBound, sym.SlotEmpty, sym.SlotCurrent) + "\n\n")

	// Current slot
	if slot := m.Store.Get(current); slot != nil {
		state := string(sym.Stopped)
		if m.Player.IsPlaying() {
			state = active.Render(string(sym.Playing))
		}
		name := slot.Name
		if name == "" {
			name = slot.Code
		}
		b.WriteString(fmt.Sprintf("%s %s  %s", state, title.Render(name), muted.Render(slot.Code)))
		if slot.Offset != 0 {
			b.WriteString(active.Render(fmt.Sprintf("  %+d", slot.Offset)))
		}
		b.WriteString("\n")
		b.WriteString(scale.FormatChord(slot.Transposed(), m.noteNames) + "\n")
	} else {
		b.WriteString(muted.Render("press a hotkey to play a chord") + "\n")
	}

	// Last notice
	b.WriteString("\n" + m.renderNotice() + "\n\n")

	b.WriteString(muted.Render(widgets.RenderKeyHelp([]widgets.KeySection{
		{Keys: []widgets.KeyBinding{
			{Key: "1-0 a-z ;", Desc: "trigger slot"},
			{Key: "space", Desc: "stop / resume"},
			{Key: "up/down", Desc: "transpose by one step"},
			{Key: "pgup/pgdn", Desc: "transpose by an octave"},
			{Key: "tab", Desc: "redraw a rand chord"},
			{Key: "esc", Desc: "panic and quit"},
		}},
	})))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderNotice() string {
	if !m.hasNotice {
		return ""
	}
	n := m.notice
	switch n.Kind {
	case player.NoticeChord:
		return fmt.Sprintf("chord: %s", scale.FormatChord(n.Steps, m.noteNames))
	case player.NoticeTranspose:
		dir := "up"
		if n.Sign < 0 {
			dir = "down"
		}
		return fmt.Sprintf("transposed %s", dir)
	case player.NoticeRegenerated:
		return "regenerated"
	case player.NoticeStopped:
		return "stopped"
	case player.NoticeError:
		return lipgloss.NewStyle().Foreground(m.Theme.Warning()).Render(n.Text)
	default:
		return n.Text
	}
}
