package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/five82/quoted/internal/logging"
)

// dispatchTimeout bounds a background task that outlives its caller.
const dispatchTimeout = 10 * time.Second

// dispatch runs fn on its own goroutine with a fresh context that carries a
// logger tagged with the task name. Failures and panics are logged; nothing is
// reported back to the caller. Close waits for dispatched work to finish.
func (a *App) dispatch(name string, fn func(ctx context.Context) error) {
	logger := a.logger.With(zap.String("task", name))
	a.pushes.Add(1)
	go func() {
		defer a.pushes.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in background task", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := fn(logging.With(ctx, logger)); err != nil {
			logging.Warn(logger, "background task failed", err)
		}
	}()
}
