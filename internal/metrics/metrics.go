// Package metrics exposes the indexer's Prometheus instrumentation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EventsProcessed counts events applied successfully, by kind
	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "punks_indexer",
		Name:      "events_processed_total",
		Help:      "Number of marketplace events applied to the store, by event kind.",
	}, []string{"kind"})

	// EventsTerminated counts messages dropped as unparseable or invalid
	EventsTerminated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "punks_indexer",
		Name:      "events_terminated_total",
		Help:      "Number of intake messages terminated without processing.",
	})

	// EventsFailed counts events whose processing failed and was redelivered
	EventsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "punks_indexer",
		Name:      "events_failed_total",
		Help:      "Number of events that failed processing and were negatively acknowledged.",
	})

	// ProcessedBlock tracks the block number of the last processed event
	ProcessedBlock = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "punks_indexer",
		Name:      "processed_block",
		Help:      "Block number of the most recently processed event.",
	})

	// ProcessDuration observes per-event processing latency
	ProcessDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "punks_indexer",
		Name:      "process_duration_seconds",
		Help:      "Time spent applying one event to the store.",
		Buckets:   prometheus.DefBuckets,
	})
)

// Serve exposes the /metrics endpoint on the given address. It blocks until
// the listener fails, so callers run it in its own goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
