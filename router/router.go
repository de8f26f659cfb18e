// Package router assigns one MIDI channel per chord voice so that every
// voice can carry its own pitch bend.
package router

import (
	"math/rand"
	"sort"

	"go-31tone/scale"
)

// Register pools: each voice prefers channels matching its register so a
// synth can layer patches by range. Channels are 1-based MIDI channels.
var (
	lowPool  = []int{1, 2, 3, 4, 5, 6}
	midPool  = []int{7, 8, 9, 10, 11, 12}
	highPool = []int{13, 14, 15, 16}
)

// Register boundaries in 31-EDO steps.
const (
	lowCeiling = 80
	highFloor  = 140
)

// Spill order per preferred pool: where a voice looks next when its own
// register is exhausted.
var spill = map[int][]int{
	0: {0, 1, 2}, // low -> mid -> high
	1: {1, 0, 2}, // mid -> low -> high
	2: {2, 1, 0}, // high -> mid -> low
}

// Router picks channels. The random source decides which free channel of a
// pool a voice lands on; inject a seeded one in tests.
type Router struct {
	rng *rand.Rand
}

// New creates a router around the given random source.
func New(rng *rand.Rand) *Router {
	return &Router{rng: rng}
}

// Allocate returns one channel per voice of an ascending chord. The result
// is sorted ascending so channel order stays monotone with pitch order:
// each channel carries an independent bend, and a bend crossing between
// adjacent channels as voices move is an audible glitch. Voices beyond the
// available channels are dropped, never an error.
func (r *Router) Allocate(chord scale.Chord) []int {
	free := [3][]int{
		append([]int(nil), lowPool...),
		append([]int(nil), midPool...),
		append([]int(nil), highPool...),
	}

	var chosen []int
	for _, step := range chord {
		pool := r.pick(&free, registerOf(step))
		if pool < 0 {
			break // every pool exhausted, drop the rest
		}
		i := r.rng.Intn(len(free[pool]))
		chosen = append(chosen, free[pool][i])
		free[pool] = append(free[pool][:i], free[pool][i+1:]...)
	}

	sort.Ints(chosen)
	return chosen
}

// pick finds the first pool in the spill order with a free channel.
func (r *Router) pick(free *[3][]int, preferred int) int {
	for _, p := range spill[preferred] {
		if len(free[p]) > 0 {
			return p
		}
	}
	return -1
}

func registerOf(step int) int {
	switch {
	case step <= lowCeiling:
		return 0
	case step >= highFloor:
		return 2
	default:
		return 1
	}
}
