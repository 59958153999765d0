// Package session keeps state that lives for one browsing session: the quote
// that was shown last. Nothing here is ever copied into the durable store.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/quoted/internal/quote"
)

// EnvSessionID names the environment variable that pins a session id across
// invocations, e.g. for the lifetime of a terminal.
const EnvSessionID = "QUOTED_SESSION"

var validID = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Cache is the session-scoped store.
type Cache struct {
	mu        sync.Mutex
	id        string
	path      string
	ephemeral bool
}

type fileData struct {
	LastShown *quote.Quote `toml:"last_shown,omitempty"`
}

// DefaultDir returns the directory used when none is configured.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), "quoted-sessions")
}

// Open returns the cache for id inside dir. An empty id starts a new session
// with a random id that ends when Close is called.
func Open(dir, id string) (*Cache, error) {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir()
	}
	id = strings.TrimSpace(id)
	ephemeral := false
	if id == "" {
		id = uuid.NewString()
		ephemeral = true
	}
	if !validID.MatchString(id) {
		return nil, fmt.Errorf("invalid session id %q", id)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &Cache{
		id:        id,
		path:      filepath.Join(dir, id+".toml"),
		ephemeral: ephemeral,
	}, nil
}

// ID returns the session id.
func (c *Cache) ID() string {
	return c.id
}

// LastShown returns the quote shown last in this session, if any.
func (c *Cache) LastShown() (quote.Quote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.read()
	if err != nil || data.LastShown == nil {
		return quote.Quote{}, false
	}
	q := quote.Normalize(*data.LastShown)
	if quote.Validate(q) != nil {
		return quote.Quote{}, false
	}
	return q, true
}

// SetLastShown records q as the quote shown last.
func (c *Cache) SetLastShown(q quote.Quote) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	bytes, err := toml.Marshal(fileData{LastShown: &q})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(c.path, bytes, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Close ends the session. Ephemeral sessions lose their state; pinned sessions
// keep it for the next invocation that uses the same id.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ephemeral {
		return nil
	}
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (c *Cache) read() (fileData, error) {
	var data fileData
	bytes, err := os.ReadFile(c.path)
	if err != nil {
		return data, err
	}
	if err := toml.Unmarshal(bytes, &data); err != nil {
		return fileData{}, err
	}
	return data, nil
}
