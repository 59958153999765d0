package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/five82/quoted/internal/logging"
	"github.com/five82/quoted/internal/quote"
	"github.com/five82/quoted/internal/syncer"
	"github.com/five82/quoted/internal/transfer"
)

// ImportedMessage is the notification text for a successful import.
func ImportedMessage(n int) string {
	return fmt.Sprintf("%d quote(s) imported", n)
}

// Quotes returns every quote in collection order.
func (a *App) Quotes() []quote.Quote {
	return a.coll.Snapshot()
}

// Count returns the collection size.
func (a *App) Count() int {
	return a.coll.Len()
}

// Categories returns the distinct categories, sorted.
func (a *App) Categories() []string {
	return a.index.Categories()
}

// Filter returns the active category filter, "all" when none applies.
func (a *App) Filter(ctx context.Context) string {
	return a.index.Filter(ctx)
}

// SetFilter persists the category filter. Blank means all.
func (a *App) SetFilter(ctx context.Context, value string) error {
	if err := a.index.SetFilter(ctx, value); err != nil {
		logging.Error(a.logger, "persist category filter failed", err)
		return err
	}
	return nil
}

// Pick selects a random quote under filter and records it as the session's
// last shown quote. It returns false when nothing matches.
func (a *App) Pick(ctx context.Context, filter string) (quote.Quote, bool) {
	q, ok := a.selector.Pick(a.index.Matching(filter))
	if !ok {
		return quote.Quote{}, false
	}
	a.remember(q)
	return q, true
}

// Next picks a random quote under the active filter.
func (a *App) Next(ctx context.Context) (quote.Quote, bool) {
	return a.Pick(ctx, a.Filter(ctx))
}

// Current returns the session's last shown quote, or a fresh pick when the
// session has none.
func (a *App) Current(ctx context.Context) (quote.Quote, bool) {
	if q, ok := a.session.LastShown(); ok {
		return q, true
	}
	return a.Next(ctx)
}

// Add validates and stores a user quote, then pushes it to the remote in the
// background when pushing is enabled. Validation failures wrap
// quote.ErrValidation and change nothing.
func (a *App) Add(ctx context.Context, text, cat string) (quote.Quote, error) {
	q, err := a.coll.Add(ctx, text, cat)
	if err != nil && q == (quote.Quote{}) {
		return quote.Quote{}, err
	}
	a.metrics.RecordAdd()
	a.remember(q)
	if err != nil {
		// Persistence failed; the quote stays in memory and is still pushed.
		logging.Error(a.logger, "persist added quote failed", err)
	}

	if a.pusher != nil {
		a.dispatch("push quote", func(ctx context.Context) error {
			if perr := a.pusher.Push(ctx, q); perr != nil {
				a.metrics.RecordPushFailure()
				return perr
			}
			logging.From(ctx).Debug("quote pushed", zap.String("category", q.Category))
			return nil
		})
	}
	return q, err
}

// Import decodes r and appends every quote without a duplicate check. A
// malformed payload wraps quote.ErrImportDecode and changes nothing.
func (a *App) Import(ctx context.Context, r io.Reader, format transfer.Format) (int, error) {
	quotes, err := transfer.Decode(r, format)
	if err != nil {
		logging.Warn(a.logger, "import rejected", err)
		a.bus.Publish("Import failed: file is not a list of quotes")
		return 0, err
	}
	n, err := a.coll.Append(ctx, quotes)
	if n > 0 {
		a.metrics.RecordImport(n)
		a.bus.Publish(ImportedMessage(n))
		a.logger.Info("quotes imported", zap.Int("count", n))
	}
	if err != nil {
		logging.Error(a.logger, "persist imported quotes failed", err)
	}
	return n, err
}

// Export writes the whole collection to w.
func (a *App) Export(w io.Writer, format transfer.Format) error {
	return transfer.Export(w, a.coll.Snapshot(), format)
}

// SyncNow runs an on-demand sync cycle. It is a no-op when a cycle is
// already running.
func (a *App) SyncNow(ctx context.Context) (syncer.Result, error) {
	return a.engine.RunCycle(ctx)
}

// SyncState returns the engine state for display.
func (a *App) SyncState() string {
	return a.engine.State().String()
}

func (a *App) remember(q quote.Quote) {
	if err := a.session.SetLastShown(q); err != nil {
		a.logger.Warn("session cache write failed", zap.Error(err))
	}
}
