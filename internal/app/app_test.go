package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/five82/quoted/internal/notify"
	"github.com/five82/quoted/internal/quote"
	"github.com/five82/quoted/internal/remoteserver"
	"github.com/five82/quoted/internal/syncer"
	"github.com/five82/quoted/internal/transfer"
)

type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) add(m notify.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m.Text)
}

func (r *recorder) texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

func newRemote(t *testing.T) (*remoteserver.Server, string) {
	t.Helper()
	rs := remoteserver.New(remoteserver.DefaultPosts(), nil)
	srv := httptest.NewServer(rs.Handler())
	t.Cleanup(srv.Close)
	return rs, srv.URL + "/posts"
}

func testOptions(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	return Options{
		ConfigPath: filepath.Join(dir, "missing.toml"),
		SessionDir: filepath.Join(dir, "sessions"),
		RemoteURL:  "http://127.0.0.1:1/posts",
		Ephemeral:  true,
		Logger:     zaptest.NewLogger(t),
	}
}

func newApp(t *testing.T, opts Options) (*App, *recorder) {
	t.Helper()
	a, err := New(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	rec := &recorder{}
	unsubscribe := a.Bus().Subscribe(rec.add)
	t.Cleanup(unsubscribe)
	return a, rec
}

func TestNew_SeedsDefaults(t *testing.T) {
	a, _ := newApp(t, testOptions(t))

	assert.Equal(t, quote.Defaults(), a.Quotes())
	assert.Equal(t, 3, a.Count())
	assert.ElementsMatch(t, []string{"Humor", "Inspiration", "Life"}, a.Categories())
	assert.Equal(t, "all", a.Filter(context.Background()))
	assert.Equal(t, "idle", a.SyncState())
}

func TestAdd_PushesToRemote(t *testing.T) {
	rs, url := newRemote(t)
	opts := testOptions(t)
	opts.RemoteURL = url
	a, _ := newApp(t, opts)

	q, err := a.Add(context.Background(), "  Ship it  ", " Work ")
	require.NoError(t, err)
	assert.Equal(t, quote.Quote{Text: "Ship it", Category: "Work"}, q)
	assert.Equal(t, 4, a.Count())
	assert.Contains(t, a.Categories(), "Work")

	current, ok := a.Current(context.Background())
	require.True(t, ok)
	assert.Equal(t, q, current)

	require.NoError(t, a.Close())
	pushed := rs.Pushed()
	require.Len(t, pushed, 1)
	var body map[string]any
	require.NoError(t, json.Unmarshal(pushed[0], &body))
	assert.Equal(t, "Ship it", body["text"])
	assert.Equal(t, "Work", body["category"])
}

func TestAdd_NoPushSkipsRemote(t *testing.T) {
	rs, url := newRemote(t)
	opts := testOptions(t)
	opts.RemoteURL = url
	opts.NoPush = true
	a, _ := newApp(t, opts)

	_, err := a.Add(context.Background(), "quiet", "Local")
	require.NoError(t, err)
	require.NoError(t, a.Close())
	assert.Empty(t, rs.Pushed())
}

func TestAdd_PushFailureIsLoggedOnly(t *testing.T) {
	a, _ := newApp(t, testOptions(t))

	_, err := a.Add(context.Background(), "offline", "Local")
	require.NoError(t, err)
	require.NoError(t, a.Close())
	assert.Equal(t, 4, a.Count())
}

func TestAdd_Validation(t *testing.T) {
	a, _ := newApp(t, testOptions(t))

	for _, tc := range []struct{ text, cat string }{
		{"", "Life"},
		{"text", "   "},
	} {
		_, err := a.Add(context.Background(), tc.text, tc.cat)
		require.ErrorIs(t, err, quote.ErrValidation)
	}
	assert.Equal(t, 3, a.Count())
}

func TestFilterAndNext(t *testing.T) {
	a, _ := newApp(t, testOptions(t))
	ctx := context.Background()

	require.NoError(t, a.SetFilter(ctx, "Humor"))
	assert.Equal(t, "Humor", a.Filter(ctx))
	for i := 0; i < 5; i++ {
		q, ok := a.Next(ctx)
		require.True(t, ok)
		assert.Equal(t, "Humor", q.Category)
	}

	_, ok := a.Pick(ctx, "Nope")
	assert.False(t, ok)

	require.NoError(t, a.SetFilter(ctx, ""))
	assert.Equal(t, "all", a.Filter(ctx))
}

func TestCurrent_PinnedSessionSurvivesRestart(t *testing.T) {
	opts := testOptions(t)
	opts.SessionID = "term-1"

	first, err := New(context.Background(), opts)
	require.NoError(t, err)
	shown, ok := first.Next(context.Background())
	require.True(t, ok)
	require.NoError(t, first.Close())

	opts.Logger = zaptest.NewLogger(t)
	second, _ := newApp(t, opts)
	current, ok := second.Current(context.Background())
	require.True(t, ok)
	assert.Equal(t, shown, current)
	assert.Equal(t, "term-1", second.SessionID())
}

func TestImport(t *testing.T) {
	a, rec := newApp(t, testOptions(t))
	ctx := context.Background()

	payload := `[{"text":"The best way to predict the future is to invent it.","category":"Inspiration"},{"text":"New","category":"Fresh"}]`
	n, err := a.Import(ctx, strings.NewReader(payload), transfer.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	// Imports are appended without a duplicate check.
	assert.Equal(t, 5, a.Count())
	assert.Contains(t, rec.texts(), ImportedMessage(2))
}

func TestImport_MalformedChangesNothing(t *testing.T) {
	a, rec := newApp(t, testOptions(t))

	_, err := a.Import(context.Background(), strings.NewReader(`{"text":"x"}`), transfer.FormatJSON)
	require.ErrorIs(t, err, quote.ErrImportDecode)
	assert.Equal(t, 3, a.Count())
	assert.Contains(t, rec.texts(), "Import failed: file is not a list of quotes")
}

func TestExport(t *testing.T) {
	a, _ := newApp(t, testOptions(t))

	var buf bytes.Buffer
	require.NoError(t, a.Export(&buf, transfer.FormatJSON))

	var got []quote.Quote
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, quote.Defaults(), got)
}

func TestSyncNow(t *testing.T) {
	_, url := newRemote(t)
	opts := testOptions(t)
	opts.RemoteURL = url
	a, rec := newApp(t, opts)
	ctx := context.Background()

	res, err := a.SyncNow(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, res.Merged)
	assert.Equal(t, 3+len(res.Merged), a.Count())
	assert.Contains(t, a.Categories(), "Server")
	assert.Equal(t, []string{syncer.MergedMessage(len(res.Merged))}, rec.texts())

	snap := a.Status().Snapshot()
	assert.True(t, snap.HasSynced())
	assert.Equal(t, len(res.Merged), snap.LastMerged)

	again, err := a.SyncNow(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Merged)
	assert.Len(t, rec.texts(), 1)
}

func TestSyncNow_UnreachableKeepsCollection(t *testing.T) {
	a, rec := newApp(t, testOptions(t))

	_, err := a.SyncNow(context.Background())
	require.ErrorIs(t, err, quote.ErrTransport)
	assert.Equal(t, 3, a.Count())
	assert.Empty(t, rec.texts())
	assert.Equal(t, 1, a.Status().Snapshot().ConsecutiveFailures)
}

func TestMetricsRouter(t *testing.T) {
	a, _ := newApp(t, testOptions(t))
	_, err := a.Add(context.Background(), "counted", "Local")
	require.NoError(t, err)

	srv := httptest.NewServer(a.MetricsRouter())
	t.Cleanup(srv.Close)

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "quoted_quotes_added_total 1")
}

func TestClose_Idempotent(t *testing.T) {
	a, err := New(context.Background(), testOptions(t))
	require.NoError(t, err)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}

func TestAdd_PushLogsThroughTaskLogger(t *testing.T) {
	_, url := newRemote(t)
	core, logs := observer.New(zapcore.DebugLevel)
	opts := testOptions(t)
	opts.RemoteURL = url
	opts.Logger = zap.New(core)
	a, _ := newApp(t, opts)

	started := logs.FilterMessage("quoted started").All()
	require.Len(t, started, 1)
	assert.Equal(t, a.Engine().Interval(), started[0].ContextMap()["sync_interval"])
	assert.Equal(t, 30*time.Second, a.Engine().Interval())

	_, err := a.Add(context.Background(), "logged", "Work")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	pushed := logs.FilterMessage("quote pushed").All()
	require.Len(t, pushed, 1)
	assert.Equal(t, "push quote", pushed[0].ContextMap()["task"])
	assert.Equal(t, "Work", pushed[0].ContextMap()["category"])
}

func TestDispatch_RecoversPanic(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts := testOptions(t)
	opts.Logger = zap.New(core)
	a, _ := newApp(t, opts)

	a.dispatch("explode", func(context.Context) error { panic("boom") })
	require.NoError(t, a.Close())

	entries := logs.FilterMessage("panic in background task").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "explode", entries[0].ContextMap()["task"])
}

func TestNew_FileLoggerLevelAndClose(t *testing.T) {
	for _, debug := range []bool{false, true} {
		opts := testOptions(t)
		opts.Logger = nil
		opts.LogPath = filepath.Join(t.TempDir(), "quoted.log")
		opts.Debug = debug

		a, err := New(context.Background(), opts)
		require.NoError(t, err)
		assert.Equal(t, debug, a.Logger().Core().Enabled(zapcore.DebugLevel))
		require.NoError(t, a.Close())

		raw, err := os.ReadFile(opts.LogPath)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "quoted stopped")
	}
}
