// Package category derives the set of categories from the quote collection and
// keeps the persisted category filter.
package category

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/five82/quoted/internal/collection"
	"github.com/five82/quoted/internal/quote"
	"github.com/five82/quoted/internal/store"
)

// All is the filter value that matches every quote.
const All = "all"

// Index is a derived view over a collection. It is recomputed after every
// collection mutation and never persisted, apart from the filter choice.
type Index struct {
	coll  *collection.Collection
	store store.Store

	mu         sync.RWMutex
	categories map[string]struct{}
}

// New builds the index and subscribes it to coll.
func New(coll *collection.Collection, st store.Store) *Index {
	idx := &Index{coll: coll, store: st}
	idx.Refresh()
	coll.OnChange(idx.Refresh)
	return idx
}

// Refresh recomputes the category set from the collection. The snapshot is
// taken under the index lock so a stale refresh cannot overwrite a newer one.
func (i *Index) Refresh() {
	i.mu.Lock()
	defer i.mu.Unlock()
	set := make(map[string]struct{})
	for _, q := range i.coll.Snapshot() {
		set[q.Category] = struct{}{}
	}
	i.categories = set
}

// Categories returns the distinct categories, sorted.
func (i *Index) Categories() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]string, 0, len(i.categories))
	for c := range i.categories {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// Has reports whether any quote is filed under category.
func (i *Index) Has(category string) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.categories[category]
	return ok
}

// SetFilter persists the filter choice. A blank value selects All.
func (i *Index) SetFilter(ctx context.Context, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		value = All
	}
	if err := i.store.Put(ctx, store.KeySelectedCategory, []byte(value)); err != nil {
		return goerr.Wrap(quote.ErrPersistence, "failed to persist category filter",
			goerr.V("filter", value), goerr.V("cause", err.Error()))
	}
	return nil
}

// Filter returns the persisted filter, or All when it is unset, unreadable, or
// names a category that no longer exists.
func (i *Index) Filter(ctx context.Context) string {
	raw, ok, err := i.store.Get(ctx, store.KeySelectedCategory)
	if err != nil || !ok {
		return All
	}
	value := strings.TrimSpace(string(raw))
	if value == "" || value == All || !i.Has(value) {
		return All
	}
	return value
}

// Matching returns the quotes visible under filter. An unknown category yields
// an empty result.
func (i *Index) Matching(filter string) []quote.Quote {
	quotes := i.coll.Snapshot()
	if filter == "" || filter == All {
		return quotes
	}
	out := make([]quote.Quote, 0, len(quotes))
	for _, q := range quotes {
		if q.Category == filter {
			out = append(out, q)
		}
	}
	return out
}
