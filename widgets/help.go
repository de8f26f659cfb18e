// Package widgets holds small render helpers shared by the TUI.
package widgets

import (
	"fmt"
	"strings"
)

type KeySection struct {
	Title string
	Keys  []KeyBinding
}

type KeyBinding struct {
	Key  string
	Desc string
}

// RenderKeyHelp renders key binding sections as aligned text lines.
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}
