package game

import (
	"math/rand/v2"
	"sync"
)

// Rand is the randomness the engine needs. *rand.Rand from math/rand/v2
// satisfies it, which lets tests run on a seeded source.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// globalRand uses the goroutine-safe top level functions of math/rand/v2.
type globalRand struct{}

func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultRand returns the process-wide random source.
func DefaultRand() Rand { return globalRand{} }

// lockedRand serializes access to a source that is not goroutine safe, such
// as a seeded *rand.Rand shared by several rooms.
type lockedRand struct {
	mu sync.Mutex
	r  Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}
