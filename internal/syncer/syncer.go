// Package syncer runs the replica sync engine: it pulls a bounded batch from
// the remote source on a fixed interval, merges the records the collection
// does not already hold, and announces the merge on the notification bus.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/five82/quoted/internal/collection"
	"github.com/five82/quoted/internal/logging"
	"github.com/five82/quoted/internal/metrics"
	"github.com/five82/quoted/internal/notify"
	"github.com/five82/quoted/internal/quote"
	"github.com/five82/quoted/internal/remote"
	"github.com/five82/quoted/internal/state"
)

// DefaultInterval is the time between scheduled cycles.
const DefaultInterval = 30 * time.Second

// State is the engine's position in a cycle.
type State int32

const (
	Idle State = iota
	Fetching
	Merging
	ErrorBackoff
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Merging:
		return "merging"
	case ErrorBackoff:
		return "error-backoff"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Result describes one call to RunCycle.
type Result struct {
	Skipped bool          // another cycle held the gate; nothing ran
	Fetched int           // valid candidates received
	Merged  []quote.Quote // quotes appended to the collection
}

// Engine owns the sync state machine. It is safe for concurrent use.
type Engine struct {
	coll     *collection.Collection
	fetcher  remote.Fetcher
	bus      *notify.Bus
	interval time.Duration
	key      quote.IdentityKey
	status   *state.Store
	metrics  *metrics.Collector
	logger   *zap.Logger

	// gate admits at most one cycle at a time.
	gate  *semaphore.Weighted
	state atomic.Int32

	lifeMu  sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterval sets the time between scheduled cycles.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithIdentityKey sets how a candidate is matched against existing quotes.
func WithIdentityKey(key quote.IdentityKey) Option {
	return func(e *Engine) { e.key = key }
}

// WithStatus records every cycle outcome in status.
func WithStatus(status *state.Store) Option {
	return func(e *Engine) { e.status = status }
}

// WithMetrics records every cycle outcome in m.
func WithMetrics(m *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New builds an engine that merges into coll from fetcher and announces on bus.
func New(coll *collection.Collection, fetcher remote.Fetcher, bus *notify.Bus, opts ...Option) *Engine {
	e := &Engine{
		coll:     coll,
		fetcher:  fetcher,
		bus:      bus,
		interval: DefaultInterval,
		key:      quote.KeyText,
		logger:   zap.NewNop(),
		gate:     semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current cycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Interval returns the scheduled cadence.
func (e *Engine) Interval() time.Duration {
	return e.interval
}

// MergedMessage is the notification text for a cycle that appended n quotes.
func MergedMessage(n int) string {
	return fmt.Sprintf("%d new quote(s) synced from server", n)
}

// RunCycle runs one cycle now. When another cycle is in flight it returns
// Result{Skipped: true} without doing anything. A fetch failure aborts the
// cycle with the collection untouched and is returned. A persistence failure
// while committing is returned too, but the merged quotes stay in memory and
// are still announced.
func (e *Engine) RunCycle(ctx context.Context) (Result, error) {
	if !e.gate.TryAcquire(1) {
		e.logger.Debug("sync cycle skipped; previous cycle still running")
		e.metrics.RecordCycle(metrics.ResultSkipped, 0, 0)
		return Result{Skipped: true}, nil
	}
	defer e.gate.Release(1)

	start := time.Now()
	e.setState(Fetching)
	candidates, err := e.fetcher.FetchBatch(ctx)
	if err != nil {
		e.setState(ErrorBackoff)
		e.fail(err, time.Since(start))
		e.setState(Idle)
		return Result{}, err
	}

	e.setState(Merging)
	candidates = normalize(candidates)
	merged, err := e.coll.MergeNew(ctx, candidates, e.key)
	e.setState(Idle)

	result := Result{Fetched: len(candidates), Merged: merged}
	if err != nil {
		logging.Error(e.logger, "persist merged quotes failed", err, zap.Int("merged", len(merged)))
	}
	if n := len(merged); n > 0 {
		e.bus.Publish(MergedMessage(n))
		e.logger.Info("sync merged quotes", zap.Int("fetched", len(candidates)), zap.Int("merged", n))
		e.metrics.RecordCycle(metrics.ResultMerged, n, time.Since(start))
	} else {
		e.logger.Debug("sync cycle found nothing new", zap.Int("fetched", len(candidates)))
		e.metrics.RecordCycle(metrics.ResultNoop, 0, time.Since(start))
	}
	if e.status != nil {
		e.status.RecordSuccess(len(merged))
	}
	return result, err
}

func (e *Engine) fail(err error, took time.Duration) {
	kind := "transport"
	if errors.Is(err, quote.ErrFormat) {
		kind = "format"
	}
	logging.Warn(e.logger, "sync fetch failed; will retry next interval", err, zap.String("kind", kind))
	e.metrics.RecordFetchFailure(kind)
	e.metrics.RecordCycle(metrics.ResultFailed, 0, took)
	if e.status != nil {
		e.status.RecordFailure(err)
	}
}

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
}

// normalize trims candidates and drops any that would break the non-empty
// invariant.
func normalize(candidates []quote.Quote) []quote.Quote {
	out := make([]quote.Quote, 0, len(candidates))
	for _, c := range candidates {
		c = quote.Normalize(c)
		if quote.Validate(c) != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Start runs one cycle immediately and then one per interval on a background
// goroutine. It returns immediately. Calling Start on a running engine is a
// no-op.
func (e *Engine) Start(ctx context.Context) {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()
	if e.running {
		return
	}
	e.running = true
	e.stopCh = make(chan struct{})
	e.doneCh = make(chan struct{})

	e.logger.Info("sync engine starting", zap.Duration("interval", e.interval), zap.String("identity_key", e.key.String()))
	go e.run(ctx, e.stopCh, e.doneCh)
}

// Stop halts the schedule and waits for an in-flight cycle to finish.
func (e *Engine) Stop() {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()
	if !e.running {
		return
	}
	close(e.stopCh)
	<-e.doneCh
	e.running = false
	e.logger.Info("sync engine stopped")
}

func (e *Engine) run(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	// Cycles outlive cancellation of ctx; the HTTP timeout bounds them instead.
	cycleCtx := context.WithoutCancel(ctx)

	e.tick(cycleCtx)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.tick(cycleCtx)
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (e *Engine) tick(ctx context.Context) {
	// Errors are already logged and recorded by RunCycle.
	_, _ = e.RunCycle(ctx)
}
