package slots

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-31tone/scale"
	"go-31tone/shortcode"
)

func newTestStore() *Store {
	return NewStore(shortcode.New(rand.New(rand.NewSource(1))))
}

func TestAlphabetHas37UniqueSymbols(t *testing.T) {
	assert.Len(t, Alphabet, 37)
	seen := map[rune]bool{}
	for _, r := range Alphabet {
		assert.False(t, seen[r], "duplicate hotkey %q", r)
		seen[r] = true
	}
}

func TestApplyTableBindsInAlphabetOrder(t *testing.T) {
	store := newTestStore()
	results := store.ApplyTable([]Row{
		{Name: "tonic", Code: "sym3 s31"},
		{Name: "", Code: "94 125"},
	})

	assert := assert.New(t)
	assert.Len(results, 2)
	assert.Equal('1', results[0].Key)
	assert.Equal('2', results[1].Key)
	assert.Equal("tonic", store.Get('1').Name)
	assert.Equal(scale.Chord{94, 125}, store.Get('2').BaseChord)
}

func TestBadRowsAreSkippedWithoutShifting(t *testing.T) {
	store := newTestStore()
	results := store.ApplyTable([]Row{
		{Code: "sym3"},        // ok -> '1'
		{Code: ""},            // blank, skipped
		{Code: "frobnicate"},  // unparsable, skipped
		{Code: "pairs3 int8"}, // odd voices, skipped
		{Code: "94"},          // ok -> '2'
	})

	assert := assert.New(t)
	assert.Equal('1', results[0].Key)
	assert.Equal(rune(0), results[1].Key)
	assert.ErrorIs(results[2].Err, shortcode.ErrUnrecognized)
	assert.ErrorIs(results[3].Err, shortcode.ErrOddVoiceCount)
	assert.Equal('2', results[4].Key)
	assert.Equal(2, store.Len())
}

func TestApplyTableReplacesPriorBindings(t *testing.T) {
	store := newTestStore()
	store.ApplyTable([]Row{{Code: "94"}, {Code: "95"}})
	store.ApplyTable([]Row{{Code: "100"}})

	assert := assert.New(t)
	assert.Equal(1, store.Len())
	assert.Equal(scale.Chord{100}, store.Get('1').BaseChord)
	assert.Nil(store.Get('2'))
}

func TestApplyTableResetsOffsets(t *testing.T) {
	store := newTestStore()
	store.ApplyTable([]Row{{Code: "94"}})
	store.Get('1').Offset = 5

	store.ApplyTable([]Row{{Code: "94"}})
	assert.Equal(t, 0, store.Get('1').Offset)
}

func TestTransposedClampsAndMerges(t *testing.T) {
	store := newTestStore()
	store.ApplyTable([]Row{{Code: "94 247 248"}})
	store.Get('1').Offset = 3

	chord, ok := store.GetTransposed('1')
	assert := assert.New(t)
	assert.True(ok)
	assert.Equal(scale.Chord{97, 248}, chord)

	_, ok = store.GetTransposed('z')
	assert.False(ok)
}

func TestExtraRowsBeyondAlphabetAreIgnored(t *testing.T) {
	rows := make([]Row, 40)
	for i := range rows {
		rows[i] = Row{Code: "94"}
	}
	store := newTestStore()
	store.ApplyTable(rows)
	assert.Equal(t, 37, store.Len())
}

func TestFirstBound(t *testing.T) {
	store := newTestStore()
	_, ok := store.FirstBound()
	assert.False(t, ok)

	store.ApplyTable([]Row{{Code: "94"}})
	key, ok := store.FirstBound()
	assert.True(t, ok)
	assert.Equal(t, '1', key)
}
