//go:generate mockgen -source=random.go -destination=../mocks/mock_random.go -package=mocks

// Package random provides the explicitly passed random-value source shared by
// concurrently running task units.
package random

import (
	"math/rand/v2"
	"sync"
)

// Source produces random integers. Implementations must be safe for
// concurrent use because every unit of a run draws from the same source.
type Source interface {
	// IntRange returns an integer in the closed range [lo, hi].
	IntRange(lo, hi int) int
}

// Locked is a seeded PCG generator guarded by a mutex. Two Locked sources
// built from the same seed produce the same sequence of draws.
type Locked struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Locked source seeded with seed. It is stream 0 of seed.
func New(seed int64) *Locked {
	return NewStream(seed, 0)
}

// NewStream returns the source for one stream of seed. Distinct streams of
// the same seed are independent, so units that each own a stream draw the
// same values whatever order the scheduler runs them in.
func NewStream(seed int64, stream int) *Locked {
	inc := (uint64(seed) ^ 0x9e3779b97f4a7c15) + uint64(stream)*0xbf58476d1ce4e5b9
	return &Locked{rng: rand.New(rand.NewPCG(uint64(seed), inc))}
}

// Factory hands out the source of one unit.
type Factory func(unit int) Source

// Streams returns a Factory giving unit i the stream NewStream(seed, i).
func Streams(seed int64) Factory {
	return func(unit int) Source { return NewStream(seed, unit) }
}

// IntRange returns an integer in [lo, hi]. Bounds given in the wrong order
// are swapped.
func (l *Locked) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return lo + l.rng.IntN(hi-lo+1)
}

// Sequence replays a fixed list of draws, cycling when exhausted. Values
// outside [lo, hi] are clamped. It is meant for scripted runs and tests.
type Sequence struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequence returns a Sequence over values.
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

// IntRange returns the next scripted value clamped to [lo, hi].
func (s *Sequence) IntRange(lo, hi int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return lo
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return min(max(v, lo), hi)
}
