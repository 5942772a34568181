package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dshills/prismfold/internal/review"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// scansTotal counts full document passes.
	scansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "prismfold",
		Name:      "scans_total",
		Help:      "Total full-document formatting passes",
	})

	// commentsTotal counts candidates by what the pass did with them.
	// Labels: outcome (formatted, ignored, skipped, failed)
	commentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prismfold",
		Name:      "comments_total",
		Help:      "Comment candidates by outcome",
	}, []string{"outcome"})

	scanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "prismfold",
		Name:      "scan_duration_seconds",
		Help:      "Duration of one full-document pass",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
)

// ObserveScan records one pass.
func ObserveScan(res review.ScanResult, elapsed time.Duration) {
	scansTotal.Inc()
	commentsTotal.WithLabelValues("formatted").Add(float64(res.Stats.Formatted))
	commentsTotal.WithLabelValues("ignored").Add(float64(res.Stats.Ignored))
	commentsTotal.WithLabelValues("skipped").Add(float64(res.Stats.Skipped))
	commentsTotal.WithLabelValues("failed").Add(float64(res.Stats.Failed))
	scanDuration.Observe(elapsed.Seconds())
}

// Router exposes /metrics and /healthz.
func Router() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return r
}

// Serve listens on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("stopping metrics server: %w", err)
		}
		return nil
	}
}
