// Package metrics counts fetched pages, rejected candidates and found streams
// for Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder collects crawl counters on its own registry. A nil *Recorder
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	pagesFetched       *prometheus.CounterVec
	candidatesRejected *prometheus.CounterVec
	streamsFound       *prometheus.CounterVec
	decodeRounds       prometheus.Histogram
	fetchDuration      prometheus.Histogram
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		pagesFetched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generic_pages_fetched_total",
				Help: "Total number of pages fetched, labeled by result.",
			},
			[]string{"result"},
		),
		candidatesRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generic_candidates_rejected_total",
				Help: "Total number of candidate URLs dropped by the filter, labeled by reason.",
			},
			[]string{"reason"},
		),
		streamsFound: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generic_streams_found_total",
				Help: "Total number of streams found, labeled by stream type.",
			},
			[]string{"type"},
		),
		decodeRounds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "generic_decode_rounds",
				Help:    "Number of decode rounds that changed a page.",
				Buckets: []float64{0, 1, 2, 3, 5, 8},
			},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "generic_fetch_duration_seconds",
				Help:    "Duration of page fetches in seconds.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	r.registry.MustRegister(r.pagesFetched)
	r.registry.MustRegister(r.candidatesRejected)
	r.registry.MustRegister(r.streamsFound)
	r.registry.MustRegister(r.decodeRounds)
	r.registry.MustRegister(r.fetchDuration)
	return r
}

func (r *Recorder) PageFetched(d time.Duration, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.pagesFetched.WithLabelValues(result).Inc()
	r.fetchDuration.Observe(d.Seconds())
}

func (r *Recorder) CandidateRejected(reason string) {
	if r == nil {
		return
	}
	r.candidatesRejected.WithLabelValues(reason).Inc()
}

func (r *Recorder) StreamFound(streamType string) {
	if r == nil {
		return
	}
	r.streamsFound.WithLabelValues(streamType).Inc()
}

func (r *Recorder) DecodeRounds(n int) {
	if r == nil {
		return
	}
	r.decodeRounds.Observe(float64(n))
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Expose serves /metrics on addr until ctx is done.
func (r *Recorder) Expose(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Exposing Prometheus metrics", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Failed to start Prometheus metrics server", "error", err)
	}
}
