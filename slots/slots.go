// Package slots binds parsed chords to performance hotkeys.
package slots

import (
	"strings"

	"go-31tone/scale"
	"go-31tone/shortcode"
)

// Alphabet is the fixed hotkey order: number row, then the three letter
// rows of a QWERTY board, then semicolon. 37 symbols total.
const Alphabet = "1234567890qwertyuiopasdfghjklzxcvbnm;"

// Slot is one hotkey binding.
type Slot struct {
	Key       rune
	BaseChord scale.Chord
	Code      string // original shortcode text, or the pc-list itself
	Name      string // optional display label
	Offset    int    // transpose offset in 31-EDO steps
}

// Transposed derives the sounding chord: base shifted by the offset, then
// re-clamped and deduplicated. May be shorter than the base chord.
func (s *Slot) Transposed() scale.Chord {
	return s.BaseChord.Transpose(s.Offset)
}

// Row is one line of a chord table: an optional display name plus the
// shortcode or step-list text.
type Row struct {
	Name string
	Code string
}

// RowResult reports what happened to one table row during ApplyTable.
type RowResult struct {
	Index int
	Key   rune // 0 when the row was skipped
	Err   error
	Chord scale.Chord
}

// Store holds the current slot table. Replaced wholesale by ApplyTable.
type Store struct {
	engine *shortcode.Engine
	slots  map[rune]*Slot
}

// NewStore creates an empty store parsing through the given engine.
func NewStore(engine *shortcode.Engine) *Store {
	return &Store{
		engine: engine,
		slots:  make(map[rune]*Slot),
	}
}

// ApplyTable replaces the whole slot table. Rows bind to hotkeys in
// alphabet order as they parse; blank or failing rows are skipped without
// consuming a hotkey. Returns per-row results for diagnostics.
func (s *Store) ApplyTable(rows []Row) []RowResult {
	next := 0
	fresh := make(map[rune]*Slot)
	results := make([]RowResult, 0, len(rows))

	for i, row := range rows {
		res := RowResult{Index: i}
		code := strings.TrimSpace(row.Code)
		if code == "" || next >= len(Alphabet) {
			results = append(results, res)
			continue
		}

		chord, err := s.engine.Parse(code)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		key := rune(Alphabet[next])
		next++
		fresh[key] = &Slot{
			Key:       key,
			BaseChord: chord,
			Code:      code,
			Name:      row.Name,
			Offset:    0,
		}
		res.Key = key
		res.Chord = chord
		results = append(results, res)
	}

	s.slots = fresh
	return results
}

// Get returns the slot bound to key, or nil.
func (s *Store) Get(key rune) *Slot {
	return s.slots[key]
}

// GetTransposed returns the sounding chord for a bound key.
func (s *Store) GetTransposed(key rune) (scale.Chord, bool) {
	slot := s.slots[key]
	if slot == nil {
		return nil, false
	}
	return slot.Transposed(), true
}

// Keys lists the bound hotkeys in alphabet order.
func (s *Store) Keys() []rune {
	var keys []rune
	for _, key := range Alphabet {
		if s.slots[key] != nil {
			keys = append(keys, key)
		}
	}
	return keys
}

// FirstBound returns the first bound hotkey in alphabet order.
func (s *Store) FirstBound() (rune, bool) {
	for _, key := range Alphabet {
		if s.slots[key] != nil {
			return key, true
		}
	}
	return 0, false
}

// Len reports how many slots are bound.
func (s *Store) Len() int {
	return len(s.slots)
}
