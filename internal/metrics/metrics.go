// Package metrics exposes Prometheus instrumentation for the client.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BackendRequests counts backend HTTP requests by method and outcome
	// (ok, unreachable, malformed, rejected).
	BackendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusrec_backend_requests_total",
		Help: "Backend HTTP requests by method and outcome.",
	}, []string{"method", "outcome"})

	// ResourceFetches counts context fetches by resource family and the
	// data source that ended up serving the state.
	ResourceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusrec_resource_fetch_total",
		Help: "Resource context fetches by resource and resulting data source.",
	}, []string{"resource", "source"})

	// MutationsBlocked counts mutations rejected because the context was
	// serving mock data.
	MutationsBlocked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusrec_mutations_blocked_total",
		Help: "Mutations rejected while a context was mock-backed.",
	}, []string{"resource"})

	// Logins counts login attempts by outcome (api, demo, invalid, error).
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusrec_login_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	// BackendUp reports the last observed health-check result.
	BackendUp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campusrec_backend_up",
		Help: "1 when the last backend health check succeeded, 0 otherwise.",
	})
)

// Serve exposes /metrics on addr until the returned shutdown function
// is called. Used by long-running commands when metrics.addr is set.
func Serve(addr string, logger *slog.Logger) func(context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("metrics listener started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics listener failed", "error", err)
		}
	}()

	return srv.Shutdown
}
