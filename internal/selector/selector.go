// Package selector picks a quote uniformly at random.
package selector

import (
	"math/rand/v2"
	"sync"

	"github.com/five82/quoted/internal/quote"
)

// NoQuotesMessage is shown when the filtered set is empty.
const NoQuotesMessage = "No quotes in this category."

// Selector draws from a random source. It is safe for concurrent use.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Selector using src, or a randomly seeded source when src is nil.
func New(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Selector{rng: rand.New(src)}
}

// Pick returns one of quotes, each with probability 1/len(quotes). ok is false
// when quotes is empty.
func (s *Selector) Pick(quotes []quote.Quote) (q quote.Quote, ok bool) {
	if len(quotes) == 0 {
		return quote.Quote{}, false
	}
	s.mu.Lock()
	i := s.rng.IntN(len(quotes))
	s.mu.Unlock()
	return quotes[i], true
}
