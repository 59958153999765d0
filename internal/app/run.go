package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/quoted/internal/logging"
	"github.com/five82/quoted/internal/prefs"
	"github.com/five82/quoted/internal/ui"
)

const shutdownTimeout = 10 * time.Second

// Run boots the quoted TUI with background sync until the user quits or the
// context is cancelled.
func Run(ctx context.Context, opts Options) error {
	a, err := New(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return a.RunTUI(ctx)
}

// RunTUI starts the sync engine and the optional metrics listener, then blocks
// in the TUI. Quitting the TUI stops the rest.
func (a *App) RunTUI(ctx context.Context) error {
	userPrefs, err := prefs.Load(a.opts.PrefsPath)
	if err != nil {
		logging.Warn(a.logger, "preferences unreadable; using defaults", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.engine.Start(ctx)
	defer a.engine.Stop()

	g, gctx := errgroup.WithContext(ctx)
	if a.opts.MetricsAddr != "" {
		g.Go(func() error {
			return Serve(gctx, a.opts.MetricsAddr, a.MetricsRouter(), a.logger.Named("metrics"))
		})
	}
	g.Go(func() error {
		defer cancel()
		return ui.Run(ui.Options{
			Context:       gctx,
			Service:       a,
			Status:        a.status,
			Bus:           a.bus,
			ThemeName:     userPrefs.Theme,
			PrefsPath:     a.opts.PrefsPath,
			ShowLog:       userPrefs.ShowLog,
			LogPath:       a.cfg.LogPath,
			BannerTimeout: a.cfg.BannerTimeout,
		})
	})
	return g.Wait()
}

// MetricsRouter exposes the collector's registry.
func (a *App) MetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())
	return r
}

// Serve runs handler on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- goerr.Wrap(err, "failed to start server", goerr.V("addr", addr))
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return goerr.Wrap(err, "failed to shutdown server gracefully")
	}
	logger.Info("HTTP server stopped", zap.String("addr", addr))
	return nil
}
