// Package scale maps 31-EDO step indices onto conventional 12-tone MIDI
// notes plus per-channel pitch bend.
package scale

import (
	"fmt"
	"math"
)

const (
	StepsPerOctave = 31
	MinStep        = 1
	MaxStep        = 248 // 8 octaves
	CenterStep     = 94  // default tonal center

	// baseNote puts CenterStep on middle C (MIDI 60).
	baseNote = 24

	BendCenter = 8192
	BendMax    = 16383
)

// Chord is an ordered list of unique step indices, ascending.
type Chord []int

// DefaultNoteNames is the fallback 12-tone display table. Callers may
// supply their own (e.g. from config); pitch math never uses it.
var DefaultNoteNames = []string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// ClampStep forces a step into the playable range.
func ClampStep(step int) int {
	if step < MinStep {
		return MinStep
	}
	if step > MaxStep {
		return MaxStep
	}
	return step
}

// Clamp returns the chord with every step clamped into range.
func (c Chord) Clamp() Chord {
	out := make(Chord, len(c))
	for i, s := range c {
		out[i] = ClampStep(s)
	}
	return out
}

// Dedupe removes duplicate steps, keeping the first occurrence.
func (c Chord) Dedupe() Chord {
	seen := make(map[int]bool, len(c))
	out := make(Chord, 0, len(c))
	for _, s := range c {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Transpose shifts every step by delta, then clamps and dedupes. Colliding
// or out-of-range voices merge; a transposed chord may be shorter.
func (c Chord) Transpose(delta int) Chord {
	out := make(Chord, len(c))
	for i, s := range c {
		out[i] = s + delta
	}
	return out.Clamp().Dedupe()
}

// CentsDeviation returns how far a step sits from its nearest 12-tone
// semitone, in cents.
func CentsDeviation(step int) float64 {
	k := float64(step - 1)
	semitone := math.Round(k * 12 / StepsPerOctave)
	cents31 := k * 1200 / StepsPerOctave
	return cents31 - semitone*100
}

// ToMidiAndBend converts a step into the nearest 12-tone MIDI note and the
// 14-bit pitch bend that corrects it to the exact 31-EDO pitch, assuming
// the receiver's bend range is bendRangeSemitones. Deviations beyond the
// receiver's range clamp; they never wrap.
func ToMidiAndBend(step int, bendRangeSemitones int) (note int, bend int) {
	step = ClampStep(step)
	k := step - 1
	semitone := int(math.Round(float64(k) * 12 / StepsPerOctave))

	note = baseNote + semitone
	if note < 0 {
		note = 0
	}
	if note > 127 {
		note = 127
	}

	scale := bendRangeSemitones * 100
	if scale < 1 {
		scale = 1 // range 0 still divides by a full semitone
	}
	dev := CentsDeviation(step)
	bend = int(math.Round(BendCenter + dev/float64(scale)*BendCenter))
	if bend < 0 {
		bend = 0
	}
	if bend > BendMax {
		bend = BendMax
	}
	return note, bend
}

// FormatStep renders a step for display as letter name, octave and signed
// cents deviation, e.g. "C4 +19c". names must have 12 entries; anything
// else falls back to DefaultNoteNames.
func FormatStep(step int, names []string) string {
	if len(names) != 12 {
		names = DefaultNoteNames
	}
	step = ClampStep(step)
	k := step - 1
	semitone := int(math.Round(float64(k) * 12 / StepsPerOctave))
	note := baseNote + semitone
	octave := note/12 - 1
	cents := int(math.Round(CentsDeviation(step)))
	return fmt.Sprintf("%s%d %+dc", names[note%12], octave, cents)
}

// FormatChord renders every step of a chord, space separated.
func FormatChord(c Chord, names []string) string {
	out := ""
	for i, s := range c {
		if i > 0 {
			out += "  "
		}
		out += FormatStep(s, names)
	}
	return out
}
