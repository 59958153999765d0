package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/quoted/internal/app"
	"github.com/five82/quoted/internal/quote"
	"github.com/five82/quoted/internal/remoteserver"
	"github.com/five82/quoted/internal/selector"
)

// env is an isolated home for one test: every path quoted touches lives
// under dir.
type env struct {
	t      *testing.T
	dir    string
	remote string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return &env{t: t, dir: dir, remote: "http://127.0.0.1:1/posts"}
}

func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	base := []string{
		"--config", filepath.Join(e.dir, "config.toml"),
		"--prefs", filepath.Join(e.dir, "prefs.toml"),
		"--db", filepath.Join(e.dir, "quoted.db"),
		"--session-dir", filepath.Join(e.dir, "sessions"),
		"--remote", e.remote,
		"--no-push",
	}
	cmd.SetArgs(append(args[:1:1], append(base, args[1:]...)...))
	err := cmd.Execute()
	return out.String(), err
}

func (e *env) exportJSON() []quote.Quote {
	e.t.Helper()
	out, err := e.run("export")
	require.NoError(e.t, err)
	var quotes []quote.Quote
	require.NoError(e.t, json.Unmarshal([]byte(out), &quotes))
	return quotes
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "quoted", cmd.Use)
	assert.Contains(t, cmd.Long, "category")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"add", "show", "categories", "filter", "sync", "import", "export", "serve-remote"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Setenv("QUOTED_SESSION", "pinned")
	cmd := NewRootCommand()

	for _, name := range []string{"config", "db", "session", "session-dir", "remote", "verbose", "ephemeral", "no-push"} {
		require.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag --%s", name)
	}
	assert.Equal(t, "v", cmd.PersistentFlags().Lookup("verbose").Shorthand)
	assert.Equal(t, "pinned", cmd.PersistentFlags().Lookup("session").DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("metrics-addr"))
}

func TestAddThenShow(t *testing.T) {
	e := newEnv(t)

	out, err := e.run("add", "--text", "  Ship it  ", "--category", "Work")
	require.NoError(t, err)
	assert.Equal(t, "\"Ship it\"\n  [Work]\n", out)

	// A second invocation reads the same database.
	out, err = e.run("show", "--category", "Work")
	require.NoError(t, err)
	assert.Equal(t, "\"Ship it\"\n  [Work]\n", out)
	assert.Len(t, e.exportJSON(), 4)
}

func TestAdd_Validation(t *testing.T) {
	e := newEnv(t)

	_, err := e.run("add", "--category", "Work")
	require.Error(t, err)

	_, err = e.run("add", "--text", "   ", "--category", "Work")
	require.ErrorIs(t, err, quote.ErrValidation)
	assert.Len(t, e.exportJSON(), 3)
}

func TestShow_NoMatch(t *testing.T) {
	e := newEnv(t)

	out, err := e.run("show", "--category", "Nope")
	require.NoError(t, err)
	assert.Equal(t, selector.NoQuotesMessage+"\n", out)
}

func TestFilterAndCategories(t *testing.T) {
	e := newEnv(t)

	out, err := e.run("filter")
	require.NoError(t, err)
	assert.Equal(t, "all\n", out)

	out, err = e.run("filter", "Humor")
	require.NoError(t, err)
	assert.Equal(t, "Humor\n", out)

	out, err = e.run("categories")
	require.NoError(t, err)
	assert.Contains(t, out, "* Humor\n")
	assert.Contains(t, out, "  all\n")
	assert.Contains(t, out, "  Life\n")

	out, err = e.run("show")
	require.NoError(t, err)
	assert.Contains(t, out, "[Humor]")

	out, err = e.run("filter", "all")
	require.NoError(t, err)
	assert.Equal(t, "all\n", out)
}

func TestImportExport(t *testing.T) {
	e := newEnv(t)

	in := filepath.Join(e.dir, "in.yaml")
	require.NoError(t, os.WriteFile(in, []byte("- text: Hello\n  category: Greetings\n- text: Bye\n  category: Greetings\n"), 0o644))

	out, err := e.run("import", in)
	require.NoError(t, err)
	assert.Equal(t, app.ImportedMessage(2)+"\n", out)

	dest := filepath.Join(e.dir, "out.yml")
	out, err = e.run("export", dest)
	require.NoError(t, err)
	assert.Equal(t, "5 quote(s) exported to "+dest+"\n", out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "text: Hello")
	assert.Contains(t, string(data), "category: Greetings")
}

func TestImport_Malformed(t *testing.T) {
	e := newEnv(t)

	in := filepath.Join(e.dir, "bad.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"text":"x","category":"y"}`), 0o644))

	_, err := e.run("import", in)
	require.ErrorIs(t, err, quote.ErrImportDecode)
	assert.Len(t, e.exportJSON(), 3)

	_, err = e.run("import", filepath.Join(e.dir, "missing.json"))
	require.Error(t, err)

	_, err = e.run("export", "--format", "xml")
	require.Error(t, err)
}

func TestSync(t *testing.T) {
	e := newEnv(t)
	rs := remoteserver.New(remoteserver.DefaultPosts(), nil)
	srv := httptest.NewServer(rs.Handler())
	t.Cleanup(srv.Close)
	e.remote = srv.URL + "/posts"

	out, err := e.run("sync")
	require.NoError(t, err)
	assert.Contains(t, out, "new quote(s) synced from server")

	out, err = e.run("sync")
	require.NoError(t, err)
	assert.Equal(t, "Already up to date\n", out)
}

func TestSync_Unreachable(t *testing.T) {
	e := newEnv(t)

	_, err := e.run("sync")
	require.ErrorIs(t, err, quote.ErrTransport)
	assert.Len(t, e.exportJSON(), 3)
}

func TestVerboseRaisesLogLevel(t *testing.T) {
	opts := &RootOptions{Verbose: true}

	tui := opts.appOptions(true)
	assert.True(t, tui.Debug)
	assert.False(t, tui.Verbose, "the TUI must not tee logs to the terminal")

	sub := opts.appOptions(false)
	assert.True(t, sub.Debug)
	assert.True(t, sub.Verbose)

	quiet := (&RootOptions{}).appOptions(false)
	assert.False(t, quiet.Debug)
}
