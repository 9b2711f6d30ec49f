package game

import (
	game_constants "Tombola/constants/game"
	"fmt"
)

// extraction holds the draw state of one room. pool keeps the numbers not yet
// drawn in shuffled order; a draw pops its tail.
type extraction struct {
	pool      []int
	drawn     []int
	isDrawn   [game_constants.MaxNumber + 1]bool
	lastDrawn int // 0 when nothing was drawn
}

func newExtraction(rng Rand) *extraction {
	e := &extraction{}
	e.reset(rng)
	return e
}

// reset forgets every draw and reshuffles the full pool.
func (e *extraction) reset(rng Rand) {
	e.pool = e.pool[:0]
	for n := 1; n <= game_constants.MaxNumber; n++ {
		e.pool = append(e.pool, n)
	}
	rng.Shuffle(len(e.pool), func(i, j int) { e.pool[i], e.pool[j] = e.pool[j], e.pool[i] })
	e.drawn = nil
	e.isDrawn = [game_constants.MaxNumber + 1]bool{}
	e.lastDrawn = 0
}

// draw returns the next number, or ErrExtractionExhausted after the 90th.
func (e *extraction) draw() (int, error) {
	if len(e.drawn) >= game_constants.MaxNumber {
		return 0, ErrExtractionExhausted
	}
	if len(e.pool) == 0 {
		return 0, fmt.Errorf("%w: empty pool with %d drawn", ErrDrawFailed, len(e.drawn))
	}
	n := e.pool[len(e.pool)-1]
	e.pool = e.pool[:len(e.pool)-1]
	if e.isDrawn[n] {
		return 0, fmt.Errorf("%w: %d was already drawn", ErrDrawFailed, n)
	}
	e.isDrawn[n] = true
	e.drawn = append(e.drawn, n)
	e.lastDrawn = n
	return n, nil
}

func (e *extraction) has(n int) bool {
	return n >= 1 && n <= game_constants.MaxNumber && e.isDrawn[n]
}

// drawnCopy returns the drawn numbers in draw order. Never nil.
func (e *extraction) drawnCopy() []int {
	out := make([]int, len(e.drawn))
	copy(out, e.drawn)
	return out
}

// last returns the last drawn number, nil when nothing was drawn.
func (e *extraction) last() *int {
	if e.lastDrawn == 0 {
		return nil
	}
	n := e.lastDrawn
	return &n
}
