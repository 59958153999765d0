// Package metrics exposes Prometheus counters for sync cycles, merges and
// user-facing writes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quoted"

// Cycle results used as the "result" label.
const (
	ResultMerged  = "merged"
	ResultNoop    = "noop"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// Collector holds the Prometheus metrics for one process. Each collector owns
// its registry so tests can build as many as they like.
type Collector struct {
	registry *prometheus.Registry

	SyncCycles    *prometheus.CounterVec
	SyncDuration  prometheus.Histogram
	QuotesMerged  prometheus.Counter
	FetchFailures *prometheus.CounterVec

	QuotesAdded    prometheus.Counter
	QuotesImported prometheus.Counter
	PushFailures   prometheus.Counter
}

// NewCollector creates a collector with every metric registered.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		SyncCycles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sync_cycles_total",
				Help:      "Sync cycles by result",
			},
			[]string{"result"},
		),
		SyncDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sync_cycle_duration_seconds",
				Help:      "Duration of sync cycles that ran",
				Buckets:   prometheus.DefBuckets,
			},
		),
		QuotesMerged: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quotes_merged_total",
				Help:      "Quotes appended by sync merges",
			},
		),
		FetchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_failures_total",
				Help:      "Failed remote fetches by kind",
			},
			[]string{"kind"},
		),
		QuotesAdded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quotes_added_total",
				Help:      "Quotes added by the user",
			},
		),
		QuotesImported: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quotes_imported_total",
				Help:      "Quotes appended by import",
			},
		),
		PushFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "push_failures_total",
				Help:      "Fire-and-forget pushes that failed",
			},
		),
	}

	registry.MustRegister(
		c.SyncCycles,
		c.SyncDuration,
		c.QuotesMerged,
		c.FetchFailures,
		c.QuotesAdded,
		c.QuotesImported,
		c.PushFailures,
	)
	return c
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordCycle counts one cycle. Skipped cycles do not observe a duration.
// A nil collector is a no-op so callers need not guard.
func (c *Collector) RecordCycle(result string, merged int, took time.Duration) {
	if c == nil {
		return
	}
	c.SyncCycles.WithLabelValues(result).Inc()
	if result == ResultSkipped {
		return
	}
	c.SyncDuration.Observe(took.Seconds())
	if merged > 0 {
		c.QuotesMerged.Add(float64(merged))
	}
}

// RecordFetchFailure counts a failed fetch under kind ("transport" or "format").
func (c *Collector) RecordFetchFailure(kind string) {
	if c == nil {
		return
	}
	c.FetchFailures.WithLabelValues(kind).Inc()
}

// RecordAdd counts a user addition.
func (c *Collector) RecordAdd() {
	if c == nil {
		return
	}
	c.QuotesAdded.Inc()
}

// RecordImport counts n imported quotes.
func (c *Collector) RecordImport(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.QuotesImported.Add(float64(n))
}

// RecordPushFailure counts a failed push.
func (c *Collector) RecordPushFailure() {
	if c == nil {
		return
	}
	c.PushFailures.Inc()
}
