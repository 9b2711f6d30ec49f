package game

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawAllNumbersThenExhausted(t *testing.T) {
	ex := newExtraction(seeded(1))
	seen := map[int]bool{}
	for i := 0; i < 90; i++ {
		n, err := ex.draw()
		require.NoError(t, err)
		require.False(t, seen[n], "%d drawn twice", n)
		seen[n] = true
		assert.Equal(t, n, *ex.last())
	}

	drawn := ex.drawnCopy()
	sort.Ints(drawn)
	for i, n := range drawn {
		assert.Equal(t, i+1, n)
	}

	_, err := ex.draw()
	assert.ErrorIs(t, err, ErrExtractionExhausted)
	assert.Len(t, ex.drawnCopy(), 90)
}

func TestExtractionReset(t *testing.T) {
	ex := newExtraction(seeded(2))
	for i := 0; i < 10; i++ {
		_, err := ex.draw()
		require.NoError(t, err)
	}
	ex.reset(seeded(3))
	assert.Empty(t, ex.drawnCopy())
	assert.Nil(t, ex.last())
	assert.Len(t, ex.pool, 90)
	for n := 1; n <= 90; n++ {
		assert.False(t, ex.has(n))
	}
	_, err := ex.draw()
	assert.NoError(t, err)
}
