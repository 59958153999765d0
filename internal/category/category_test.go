package category

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/quoted/internal/collection"
	"github.com/five82/quoted/internal/quote"
	"github.com/five82/quoted/internal/store"
)

func newIndex(t *testing.T, seed []quote.Quote) (*Index, *collection.Collection, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	coll := collection.New(st, seed)
	return New(coll, st), coll, st
}

func TestCategories_DistinctAndOrderIndependent(t *testing.T) {
	a, _, _ := newIndex(t, []quote.Quote{
		{Text: "1", Category: "Life"}, {Text: "2", Category: "Humor"}, {Text: "3", Category: "Life"},
	})
	b, _, _ := newIndex(t, []quote.Quote{
		{Text: "3", Category: "Life"}, {Text: "1", Category: "Life"}, {Text: "2", Category: "Humor"},
	})
	assert.Equal(t, []string{"Humor", "Life"}, a.Categories())
	assert.Equal(t, a.Categories(), b.Categories())
}

func TestCategories_RecomputedAfterMutations(t *testing.T) {
	ctx := context.Background()
	idx, coll, _ := newIndex(t, quote.Defaults())

	_, err := coll.Add(ctx, "new", "Science")
	require.NoError(t, err)
	assert.Contains(t, idx.Categories(), "Science")

	_, err = coll.MergeNew(ctx, []quote.Quote{{Text: "remote", Category: "Server"}}, quote.KeyText)
	require.NoError(t, err)
	assert.Contains(t, idx.Categories(), "Server")
}

func TestCategories_ConcurrentMutationsKeepLatestSet(t *testing.T) {
	ctx := context.Background()
	idx, coll, _ := newIndex(t, nil)

	const writers = 8
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for r := 0; r < 50; r++ {
				_, err := coll.Add(ctx, fmt.Sprintf("q-%d-%d", w, r), fmt.Sprintf("cat-%d", w))
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	// Every mutation has returned, so the last refresh saw every category.
	assert.Len(t, idx.Categories(), writers)
	for w := 0; w < writers; w++ {
		assert.True(t, idx.Has(fmt.Sprintf("cat-%d", w)))
	}
}

func TestFilter_DefaultsAndPersistence(t *testing.T) {
	ctx := context.Background()
	idx, coll, st := newIndex(t, quote.Defaults())

	assert.Equal(t, All, idx.Filter(ctx))

	require.NoError(t, idx.SetFilter(ctx, " Humor "))
	assert.Equal(t, "Humor", idx.Filter(ctx))

	// A fresh index over the same store sees the persisted choice.
	again := New(coll, st)
	assert.Equal(t, "Humor", again.Filter(ctx))

	require.NoError(t, idx.SetFilter(ctx, ""))
	assert.Equal(t, All, idx.Filter(ctx))
}

func TestFilter_StaleValueFallsBackToAll(t *testing.T) {
	ctx := context.Background()
	idx, _, _ := newIndex(t, quote.Defaults())

	require.NoError(t, idx.SetFilter(ctx, "Vanished"))
	assert.Equal(t, All, idx.Filter(ctx))
	assert.Empty(t, idx.Matching("Vanished"))
}

func TestSetFilter_PersistFailure(t *testing.T) {
	idx, _, st := newIndex(t, quote.Defaults())
	st.SetFailPuts(errors.New("disk full"))
	err := idx.SetFilter(context.Background(), "Life")
	require.ErrorIs(t, err, quote.ErrPersistence)
}

func TestMatching(t *testing.T) {
	idx, _, _ := newIndex(t, quote.Defaults())

	assert.Len(t, idx.Matching(All), 3)
	assert.Len(t, idx.Matching(""), 3)
	for _, c := range idx.Categories() {
		matches := idx.Matching(c)
		require.NotEmpty(t, matches)
		for _, q := range matches {
			assert.Equal(t, c, q.Category)
		}
	}
}
