// Package collection owns the in-memory quote sequence for a session and writes
// every mutation through to the durable store.
package collection

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"github.com/five82/quoted/internal/quote"
	"github.com/five82/quoted/internal/store"
)

// Collection is the single source of truth for quotes during a session. It is
// safe for concurrent use.
type Collection struct {
	mu     sync.RWMutex
	quotes []quote.Quote
	store  store.Store
	logger *zap.Logger

	obsMu     sync.Mutex
	observers []func()
}

// Option configures a Collection.
type Option func(*Collection)

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Collection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a collection seeded with initial. Nothing is written until the
// first mutation.
func New(st store.Store, initial []quote.Quote, opts ...Option) *Collection {
	c := &Collection{
		quotes: quote.Clone(initial),
		store:  st,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads the persisted collection, or seeds the default quotes when nothing
// has been persisted. A persisted blob that cannot be decoded is an error.
func Load(ctx context.Context, st store.Store, opts ...Option) (*Collection, error) {
	raw, ok, err := st.Get(ctx, store.KeyQuotes)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read persisted quotes")
	}
	if !ok {
		return New(st, quote.Defaults(), opts...), nil
	}

	var persisted []quote.Quote
	if err := json.Unmarshal(raw, &persisted); err != nil {
		return nil, goerr.Wrap(err, "failed to decode persisted quotes", goerr.V("bytes", len(raw)))
	}
	// Hand-edited blobs may carry blank records; drop them rather than break the invariant.
	valid := make([]quote.Quote, 0, len(persisted))
	for _, q := range persisted {
		q = quote.Normalize(q)
		if quote.Validate(q) == nil {
			valid = append(valid, q)
		}
	}
	return New(st, valid, opts...), nil
}

// OnChange registers fn to run after every successful mutation.
func (c *Collection) OnChange(fn func()) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	c.observers = append(c.observers, fn)
}

// Snapshot returns a copy of the current sequence.
func (c *Collection) Snapshot() []quote.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return quote.Clone(c.quotes)
}

// Len returns the number of quotes.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.quotes)
}

// Add validates and appends a user-entered quote. A validation failure leaves
// the collection unchanged and wraps quote.ErrValidation. A persistence failure
// wraps quote.ErrPersistence, but the quote stays in memory.
func (c *Collection) Add(ctx context.Context, text, category string) (quote.Quote, error) {
	q, err := quote.New(text, category)
	if err != nil {
		return quote.Quote{}, err
	}

	c.mu.Lock()
	c.quotes = append(c.quotes, q)
	err = c.persistLocked(ctx)
	c.mu.Unlock()

	c.notify()
	return q, err
}

// Append adds quotes unconditionally, without any duplicate check. It is the
// import path. Every quote must already be valid.
func (c *Collection) Append(ctx context.Context, quotes []quote.Quote) (int, error) {
	if len(quotes) == 0 {
		return 0, nil
	}
	for _, q := range quotes {
		if err := quote.Validate(q); err != nil {
			return 0, err
		}
	}

	c.mu.Lock()
	c.quotes = append(c.quotes, quotes...)
	err := c.persistLocked(ctx)
	c.mu.Unlock()

	c.notify()
	return len(quotes), err
}

// MergeNew appends every candidate that has no match under key, in candidate
// order, and returns the appended quotes. The scan runs against the collection
// as it is at merge time, including candidates appended earlier in the same
// call. Existing quotes are never modified, reordered or removed.
func (c *Collection) MergeNew(ctx context.Context, candidates []quote.Quote, key quote.IdentityKey) ([]quote.Quote, error) {
	c.mu.Lock()
	var added []quote.Quote
	for _, candidate := range candidates {
		if key.Contains(c.quotes, candidate) {
			continue
		}
		c.quotes = append(c.quotes, candidate)
		added = append(added, candidate)
	}
	if len(added) == 0 {
		c.mu.Unlock()
		return nil, nil
	}
	err := c.persistLocked(ctx)
	c.mu.Unlock()

	c.notify()
	return added, err
}

// Persist writes the full sequence to the durable store.
func (c *Collection) Persist(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.persistLocked(ctx)
}

func (c *Collection) persistLocked(ctx context.Context) error {
	quotes := c.quotes
	if quotes == nil {
		quotes = []quote.Quote{}
	}
	blob, err := json.Marshal(quotes)
	if err != nil {
		return goerr.Wrap(quote.ErrPersistence, "failed to encode quotes", goerr.V("cause", err.Error()))
	}
	if err := c.store.Put(ctx, store.KeyQuotes, blob); err != nil {
		c.logger.Warn("persist quotes failed; keeping in-memory state",
			zap.Int("count", len(c.quotes)),
			zap.Error(err))
		return goerr.Wrap(quote.ErrPersistence, "failed to write quotes",
			goerr.V("count", len(c.quotes)), goerr.V("cause", err.Error()))
	}
	return nil
}

func (c *Collection) notify() {
	c.obsMu.Lock()
	observers := make([]func(), len(c.observers))
	copy(observers, c.observers)
	c.obsMu.Unlock()

	for _, fn := range observers {
		fn()
	}
}
