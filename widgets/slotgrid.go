package widgets

import (
	"fmt"
	"strings"
)

// SlotCell is one hotkey cell of the slot grid.
type SlotCell struct {
	Key     rune
	Bound   bool
	Current bool
	Name    string
}

// RenderSlotGrid lays the 37 hotkeys out in their keyboard rows, marking
// bound and current slots. Styling is the caller's job; this only shapes
// the text.
func RenderSlotGrid(cells []SlotCell, boundMark, emptyMark, currentMark rune) string {
	byKey := make(map[rune]SlotCell, len(cells))
	for _, c := range cells {
		byKey[c.Key] = c
	}

	rows := []string{"1234567890", "qwertyuiop", "asdfghjkl;", "zxcvbnm"}
	var out []string
	for i, row := range rows {
		var b strings.Builder
		b.WriteString(strings.Repeat(" ", i)) // stagger like a keyboard
		for _, key := range row {
			cell := byKey[key]
			mark := emptyMark
			if cell.Current {
				mark = currentMark
			} else if cell.Bound {
				mark = boundMark
			}
			fmt.Fprintf(&b, "%c%c ", key, mark)
		}
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}
