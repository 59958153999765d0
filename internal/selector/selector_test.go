package selector

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/quoted/internal/quote"
)

func TestPick_EmptyReturnsSentinel(t *testing.T) {
	s := New(nil)
	q, ok := s.Pick(nil)
	assert.False(t, ok)
	assert.Equal(t, quote.Quote{}, q)
}

func TestPick_SingleElement(t *testing.T) {
	s := New(nil)
	only := quote.Quote{Text: "only", Category: "one"}
	for i := 0; i < 10; i++ {
		q, ok := s.Pick([]quote.Quote{only})
		require.True(t, ok)
		assert.Equal(t, only, q)
	}
}

func TestPick_RoughlyUniform(t *testing.T) {
	s := New(rand.NewPCG(1, 2))
	quotes := []quote.Quote{
		{Text: "a", Category: "x"},
		{Text: "b", Category: "x"},
		{Text: "c", Category: "x"},
		{Text: "d", Category: "x"},
	}

	const draws = 40000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		q, ok := s.Pick(quotes)
		require.True(t, ok)
		counts[q.Text]++
	}

	expected := draws / len(quotes)
	for _, q := range quotes {
		assert.InDelta(t, expected, counts[q.Text], float64(expected)*0.1, "count for %q", q.Text)
	}
}

func TestPick_DeterministicWithSeed(t *testing.T) {
	quotes := quote.Defaults()
	a := New(rand.NewPCG(7, 7))
	b := New(rand.NewPCG(7, 7))
	for i := 0; i < 20; i++ {
		qa, _ := a.Pick(quotes)
		qb, _ := b.Pick(quotes)
		assert.Equal(t, qa, qb)
	}
}
