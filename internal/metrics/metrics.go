// Package metrics exposes Prometheus counters and histograms for the
// long-running nanofuse server. Nothing in blockfs imports this
// package; metrics are purely an observability concern of the FUSE
// front end.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Ops counts FUSE-driven blockfs operations by name and outcome.
	Ops = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nanofuse",
		Name:      "operations_total",
		Help:      "Count of blockfs operations invoked through the FUSE front end.",
	}, []string{"op", "outcome"})

	// OpDuration tracks how long each blockfs operation takes.
	OpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nanofuse",
		Name:      "operation_duration_seconds",
		Help:      "Latency of blockfs operations invoked through the FUSE front end.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	// OpenHandles reports whether a handle is currently open (0 or 1),
	// mirroring the core's single-handle invariant.
	OpenHandles = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "nanofuse",
		Name:      "open_handles",
		Help:      "Whether a blockfs handle is currently open (0 or 1).",
	})
)

// Observe records the outcome and duration of one blockfs operation.
func Observe(op string, durationSeconds float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	Ops.WithLabelValues(op, outcome).Inc()
	OpDuration.WithLabelValues(op).Observe(durationSeconds)
}

// Handler returns the HTTP handler to mount at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve starts an HTTP server exposing /metrics at addr. It returns
// immediately; the caller is responsible for the server's lifetime via
// the returned *http.Server.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go srv.ListenAndServe()
	return srv
}
