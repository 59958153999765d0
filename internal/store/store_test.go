package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "quoted.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })
	return map[string]Store{
		"sqlite": sqlite,
		"memory": NewMemory(),
	}
}

func TestStore_GetMissingKey(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			value, ok, err := s.Get(context.Background(), KeyQuotes)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, value)
		})
	}
}

func TestStore_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, KeySelectedCategory, []byte("Life")))
			require.NoError(t, s.Put(ctx, KeySelectedCategory, []byte("Humor")))

			value, ok, err := s.Get(ctx, KeySelectedCategory)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "Humor", string(value))

			// Keys are independent.
			_, ok, err = s.Get(ctx, KeyQuotes)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "quoted.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, KeyQuotes, []byte(`[{"text":"a","category":"b"}]`)))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	value, ok, err := reopened.Get(ctx, KeyQuotes)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"text":"a","category":"b"}]`, string(value))
}

func TestSQLite_ClosedStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "quoted.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, _, err = s.Get(context.Background(), KeyQuotes)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Put(context.Background(), KeyQuotes, nil), ErrClosed)
}

func TestMemory_FailPutsAndCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	value := []byte("original")
	require.NoError(t, m.Put(ctx, "k", value))
	value[0] = 'X'
	got, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "original", string(got))

	boom := errors.New("quota exceeded")
	m.SetFailPuts(boom)
	assert.ErrorIs(t, m.Put(ctx, "k", []byte("new")), boom)
	got, _, _ = m.Get(ctx, "k")
	assert.Equal(t, "original", string(got))

	m.SetFailPuts(nil)
	require.NoError(t, m.Put(ctx, "k", []byte("new")))
}
