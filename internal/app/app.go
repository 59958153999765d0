package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/quoted/internal/category"
	"github.com/five82/quoted/internal/collection"
	"github.com/five82/quoted/internal/config"
	"github.com/five82/quoted/internal/logging"
	"github.com/five82/quoted/internal/metrics"
	"github.com/five82/quoted/internal/notify"
	"github.com/five82/quoted/internal/quote"
	"github.com/five82/quoted/internal/remote"
	"github.com/five82/quoted/internal/selector"
	"github.com/five82/quoted/internal/session"
	"github.com/five82/quoted/internal/state"
	"github.com/five82/quoted/internal/store"
	"github.com/five82/quoted/internal/syncer"
)

// Options configure the quoted application. Empty fields fall back to the
// config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/quoted/prefs.toml
	DBPath     string
	SessionID  string // empty starts an ephemeral session
	SessionDir string
	RemoteURL  string
	LogPath    string
	Ephemeral  bool // keep quotes in memory only
	Verbose    bool // tee logs to stderr
	Debug      bool // log at debug level
	NoPush     bool

	// MetricsAddr serves Prometheus metrics at /metrics while the TUI runs.
	MetricsAddr string

	// Logger overrides the file logger built from the config.
	Logger *zap.Logger
}

// App is the composition root shared by the TUI and the CLI commands.
type App struct {
	cfg      config.Config
	opts     Options
	logger   *zap.Logger
	closeLog func()

	store    store.Store
	coll     *collection.Collection
	index    *category.Index
	selector *selector.Selector
	session  *session.Cache
	client   *remote.Client
	pusher   remote.Pusher
	bus      *notify.Bus
	status   *state.Store
	metrics  *metrics.Collector
	engine   *syncer.Engine

	pushes    sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// New loads the configuration and wires every component. The caller owns the
// returned App and must Close it.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := applyOverrides(&cfg, opts); err != nil {
		return nil, err
	}

	logger, closeLog := opts.Logger, func() {}
	if logger == nil {
		logger, closeLog, err = logging.New(logging.Options{
			Path:    cfg.LogPath,
			Verbose: opts.Verbose,
			Debug:   opts.Debug,
		})
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	a := &App{
		cfg:      cfg,
		opts:     opts,
		logger:   logger,
		closeLog: closeLog,
		selector: selector.New(nil),
		bus:      notify.NewBus(),
		status:   &state.Store{},
		metrics:  metrics.NewCollector(),
	}

	if err := a.openStore(); err != nil {
		closeLog()
		return nil, err
	}
	a.loadCollection(ctx)
	a.index = category.New(a.coll, a.store)

	sessionDir := cfg.SessionDir
	if sessionDir == "" {
		sessionDir = session.DefaultDir()
	}
	a.session, err = session.Open(sessionDir, opts.SessionID)
	if err != nil {
		_ = a.store.Close()
		closeLog()
		return nil, fmt.Errorf("open session: %w", err)
	}

	a.client, err = remote.NewClient(cfg.RemoteURL,
		remote.WithBatchSize(cfg.BatchSize),
		remote.WithCategory(cfg.ServerCategory),
	)
	if err != nil {
		_ = a.session.Close()
		_ = a.store.Close()
		closeLog()
		return nil, fmt.Errorf("init remote client: %w", err)
	}
	if cfg.Push && !opts.NoPush {
		a.pusher = a.client
	}

	a.engine = syncer.New(a.coll, a.client, a.bus,
		syncer.WithInterval(cfg.SyncInterval),
		syncer.WithIdentityKey(cfg.IdentityKey),
		syncer.WithStatus(a.status),
		syncer.WithMetrics(a.metrics),
		syncer.WithLogger(logger.Named("sync")),
	)

	logger.Info("quoted started",
		zap.String("session", a.session.ID()),
		zap.String("remote", a.client.Endpoint()),
		zap.Int("quotes", a.coll.Len()),
		zap.Duration("sync_interval", a.engine.Interval()),
		zap.Bool("ephemeral_store", opts.Ephemeral),
	)
	return a, nil
}

func applyOverrides(cfg *config.Config, opts Options) error {
	expand := func(dst *string, value string) error {
		if value == "" {
			return nil
		}
		expanded, err := config.ExpandPath(value)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", value, err)
		}
		*dst = expanded
		return nil
	}
	if err := expand(&cfg.DBPath, opts.DBPath); err != nil {
		return err
	}
	if err := expand(&cfg.SessionDir, opts.SessionDir); err != nil {
		return err
	}
	if err := expand(&cfg.LogPath, opts.LogPath); err != nil {
		return err
	}
	if opts.RemoteURL != "" {
		cfg.RemoteURL = opts.RemoteURL
	}
	return nil
}

func (a *App) openStore() error {
	if a.opts.Ephemeral {
		a.store = store.NewMemory()
		return nil
	}
	st, err := store.OpenSQLite(a.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	a.store = st
	return nil
}

// loadCollection reads the persisted quotes. An unreadable blob is logged and
// the session continues on the seed quotes; the blob is overwritten by the
// next successful mutation.
func (a *App) loadCollection(ctx context.Context) {
	opt := collection.WithLogger(a.logger.Named("collection"))
	coll, err := collection.Load(ctx, a.store, opt)
	if err != nil {
		logging.Error(a.logger, "persisted quotes unreadable; starting from defaults", err)
		coll = collection.New(a.store, quote.Defaults(), opt)
	}
	a.coll = coll
}

// Close stops the sync engine, waits for pending pushes, ends the session and
// closes the store. It is safe to call more than once.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.engine.Stop()
		a.pushes.Wait()

		var errs []error
		if err := a.session.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close session: %w", err))
		}
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
		a.logger.Info("quoted stopped")
		_ = a.logger.Sync()
		a.closeLog()
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}

// Config returns the effective configuration.
func (a *App) Config() config.Config { return a.cfg }

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger { return a.logger }

// Bus returns the notification bus.
func (a *App) Bus() *notify.Bus { return a.bus }

// Status returns the sync status store.
func (a *App) Status() *state.Store { return a.status }

// Metrics returns the metrics collector.
func (a *App) Metrics() *metrics.Collector { return a.metrics }

// Engine returns the sync engine.
func (a *App) Engine() *syncer.Engine { return a.engine }

// SessionID returns the session cache id.
func (a *App) SessionID() string { return a.session.ID() }
