// Package shortcode parses compact chord descriptors into 31-EDO chords.
//
// Three generator kinds exist: sym (symmetric cluster), pairs (symmetric
// dyads) and rand (random or jittered). A line with no letters at all is a
// direct list of step indices. Parameters ride along as tag<signed-int>
// tokens in any order: spread12/s12, center100/c100, int8/i8.
package shortcode

import (
	"errors"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"go-31tone/scale"
)

var (
	// ErrUnrecognized means the text matches none of the known grammars.
	ErrUnrecognized = errors.New("unrecognized shortcode")
	// ErrInvalidParameter means a required numeric parameter was absent
	// or out of range for the requested kind.
	ErrInvalidParameter = errors.New("invalid shortcode parameter")
	// ErrOddVoiceCount means pairs was asked for an odd number of voices.
	ErrOddVoiceCount = errors.New("pairs needs an even voice count")
	// ErrEmptyChord means the text parsed but yielded no playable steps.
	ErrEmptyChord = errors.New("no playable steps")
)

const (
	// DefaultSpread is one 12-tone semitone worth of 31-EDO steps.
	DefaultSpread = scale.StepsPerOctave
	DefaultCenter = scale.CenterStep

	// MaxDirectSteps caps how many values a direct list accepts.
	MaxDirectSteps = 16
)

// Kind tags what a piece of text classified as.
type Kind int

const (
	KindDirectList Kind = iota
	KindSym
	KindPairs
	KindRand
	KindLegacy
)

// Engine turns shortcode text into chords. The random source feeds the
// rand generator; inject a seeded one in tests for exact outputs.
type Engine struct {
	rng *rand.Rand
}

// New creates an engine around the given random source.
func New(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// IsRand reports whether the text is a rand-kind shortcode, i.e. whether
// re-parsing it would draw a fresh random chord.
func IsRand(text string) bool {
	first := strings.ToLower(strings.TrimSpace(text))
	if i := strings.IndexFunc(first, unicode.IsSpace); i >= 0 {
		first = first[:i]
	}
	rest, ok := strings.CutPrefix(first, "rand")
	if !ok {
		return false
	}
	_, err := strconv.Atoi(rest)
	return err == nil
}

// Parse classifies and evaluates a chord descriptor. The result is always
// clamped into [1,248], deduplicated and ascending.
func (e *Engine) Parse(text string) (scale.Chord, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrUnrecognized
	}

	// Stage one: no letters anywhere means a plain step list.
	if !strings.ContainsFunc(text, unicode.IsLetter) {
		return parseDirectList(text)
	}

	// Stage two: structured generator grammar.
	g, err := parseGenerator(text)
	if err != nil {
		return nil, err
	}
	return e.generate(g)
}

// generator holds the parameters of one parsed shortcode.
type generator struct {
	kind     Kind
	voices   int
	spread   int
	interval int
	center   int
	hasInt   bool
}

func parseGenerator(text string) (generator, error) {
	tokens := strings.Fields(strings.ToLower(text))

	g := generator{center: DefaultCenter}
	head := tokens[0]
	switch {
	case strings.HasPrefix(head, "sym"):
		g.kind = KindSym
		g.spread = DefaultSpread
		if err := parseVoices(&g, head, "sym"); err != nil {
			return g, err
		}
	case strings.HasPrefix(head, "pairs"):
		g.kind = KindPairs
		g.spread = DefaultSpread
		if err := parseVoices(&g, head, "pairs"); err != nil {
			return g, err
		}
	case strings.HasPrefix(head, "rand"):
		g.kind = KindRand
		g.spread = 0 // full range
		if err := parseVoices(&g, head, "rand"); err != nil {
			return g, err
		}
	default:
		if !parseLegacyHead(&g, head) {
			return g, ErrUnrecognized
		}
	}

	for _, tok := range tokens[1:] {
		if err := parseParam(&g, tok); err != nil {
			return g, err
		}
	}

	if g.voices < 1 || g.voices > scale.MaxStep {
		return g, ErrInvalidParameter
	}
	if g.kind == KindPairs && !g.hasInt {
		return g, ErrInvalidParameter
	}
	return g, nil
}

// parseVoices strips the keyword and reads the voice count glued to it.
func parseVoices(g *generator, head, keyword string) error {
	num := strings.TrimPrefix(head, keyword)
	if num == "" {
		return ErrInvalidParameter
	}
	v, err := strconv.Atoi(num)
	if err != nil {
		return ErrUnrecognized
	}
	g.voices = v
	return nil
}

// parseLegacyHead matches the old <voices>int<interval> form.
func parseLegacyHead(g *generator, head string) bool {
	before, after, found := strings.Cut(head, "int")
	if !found || before == "" || after == "" {
		return false
	}
	v, err1 := strconv.Atoi(before)
	iv, err2 := strconv.Atoi(after)
	if err1 != nil || err2 != nil {
		return false
	}
	g.kind = KindLegacy
	g.voices = v
	g.interval = iv
	g.hasInt = true
	return true
}

func parseParam(g *generator, tok string) error {
	tags := []struct {
		name string
		dst  *int
	}{
		{"spread", &g.spread},
		{"center", &g.center},
		{"int", &g.interval},
		{"s", &g.spread},
		{"c", &g.center},
		{"i", &g.interval},
	}
	for _, tag := range tags {
		rest, ok := strings.CutPrefix(tok, tag.name)
		if !ok || rest == "" {
			continue
		}
		v, err := strconv.Atoi(rest)
		if err != nil {
			continue // "intX" with junk may still match "i" etc.
		}
		*tag.dst = v
		if tag.dst == &g.interval {
			g.hasInt = true
		}
		return nil
	}
	return ErrUnrecognized
}

func (e *Engine) generate(g generator) (scale.Chord, error) {
	var raw []int
	switch g.kind {
	case KindSym:
		raw = symSteps(g.voices, g.spread, g.center)
	case KindPairs:
		if g.voices%2 != 0 {
			return nil, ErrOddVoiceCount
		}
		raw = pairSteps(g.voices, g.spread, g.interval, g.center)
	case KindLegacy:
		if g.voices%2 != 0 {
			return nil, ErrOddVoiceCount
		}
		raw = pairSteps(g.voices, autoSpread(g.voices, g.interval, g.center), g.interval, g.center)
	case KindRand:
		raw = e.randSteps(g.voices, g.spread, g.center)
	default:
		return nil, ErrUnrecognized
	}

	sort.Ints(raw)
	chord := scale.Chord(raw).Clamp().Dedupe()
	if len(chord) == 0 {
		return nil, ErrEmptyChord
	}
	return chord, nil
}

// symSteps builds a symmetric cluster around center. Odd voice counts
// place one voice on the center itself; even counts straddle it with the
// spread split into a floor/remainder pair.
func symSteps(voices, spread, center int) []int {
	if voices%2 == 1 {
		half := (voices - 1) / 2
		steps := make([]int, 0, voices)
		for k := -half; k <= half; k++ {
			steps = append(steps, center+k*spread)
		}
		return steps
	}
	a := spread / 2
	b := spread - a
	steps := make([]int, 0, voices)
	for j := 0; j < voices/2; j++ {
		steps = append(steps, center-(a+j*spread), center+(b+j*spread))
	}
	return steps
}

// pairSteps builds voices/2 dyads of a fixed inner interval whose centers
// form a symmetric cluster spaced spread apart around center.
func pairSteps(voices, spread, interval, center int) []int {
	a := interval / 2
	b := interval - a
	steps := make([]int, 0, voices)
	for _, pc := range symSteps(voices/2, spread, center) {
		steps = append(steps, pc-a, pc+b)
	}
	return steps
}

// autoSpread finds the widest dyad spacing that keeps every step of the
// legacy form in range: walk up from 1 and keep the last spacing that fit.
// If nothing fits, spacing 1 stands and clamping absorbs the rest.
func autoSpread(voices, interval, center int) int {
	best := 1
	for sp := 1; sp <= scale.MaxStep; sp++ {
		if !inRange(pairSteps(voices, sp, interval, center)) {
			break
		}
		best = sp
	}
	return best
}

func inRange(steps []int) bool {
	for _, s := range steps {
		if s < scale.MinStep || s > scale.MaxStep {
			return false
		}
	}
	return true
}

// randSteps draws a random chord. Non-positive spread means "full range":
// distinct uniform steps by rejection sampling. A positive spread jitters
// each voice of the equivalent sym cluster by up to half a spread.
func (e *Engine) randSteps(voices, spread, center int) []int {
	if spread <= 0 {
		picked := make(map[int]bool, voices)
		steps := make([]int, 0, voices)
		for len(steps) < voices {
			s := e.rng.Intn(scale.MaxStep) + 1
			if picked[s] {
				continue
			}
			picked[s] = true
			steps = append(steps, s)
		}
		return steps
	}
	steps := symSteps(voices, spread, center)
	for i, s := range steps {
		jitter := (e.rng.Float64() - 0.5) * float64(spread)
		steps[i] = s + int(roundHalfAway(jitter))
	}
	return steps
}

func roundHalfAway(f float64) float64 {
	if f < 0 {
		return float64(int(f - 0.5))
	}
	return float64(int(f + 0.5))
}

// parseDirectList reads every maximal signed digit run as one step index.
func parseDirectList(text string) (scale.Chord, error) {
	var steps []int
	runes := []rune(text)
	for i := 0; i < len(runes) && len(steps) < MaxDirectSteps; {
		start := i
		if runes[i] == '-' || runes[i] == '+' {
			i++
		}
		digits := i
		for i < len(runes) && unicode.IsDigit(runes[i]) {
			i++
		}
		if i == digits {
			// No digits after an optional sign: skip one rune.
			i = start + 1
			continue
		}
		v, err := strconv.Atoi(string(runes[start:i]))
		if err != nil {
			continue
		}
		steps = append(steps, v)
	}

	chord := scale.Chord(steps).Clamp().Dedupe()
	if len(chord) == 0 {
		return nil, ErrEmptyChord
	}
	sort.Ints(chord)
	return chord, nil
}
