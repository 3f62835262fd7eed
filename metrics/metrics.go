// Package metrics exposes Prometheus metrics for the wallet service on a
// dedicated listen address.
package metrics

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the instruments recorded by the wallet handlers.
type Metrics struct {
	registry *prometheus.Registry

	// RegistrationsTotal counts wallet registrations by outcome ("ok" or
	// "error").
	RegistrationsTotal *prometheus.CounterVec

	// RecoveriesTotal counts recovery attempts by outcome ("recovered",
	// "below_threshold" or "error").
	RecoveriesTotal *prometheus.CounterVec

	// KeyDerivationSeconds observes end-to-end key derivation latency.
	KeyDerivationSeconds prometheus.Histogram
}

// New creates the metric set registered under the given namespace. Hyphens
// are mapped to underscores to satisfy the metric naming rules.
func New(namespace string) *Metrics {
	namespace = strings.ReplaceAll(namespace, "-", "_")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		RegistrationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Wallet registrations by outcome.",
		}, []string{"outcome"}),
		RecoveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recoveries_total",
			Help:      "Wallet recovery attempts by outcome.",
		}, []string{"outcome"}),
		KeyDerivationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "key_derivation_seconds",
			Help:      "Latency of deterministic key derivation.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(m.RegistrationsTotal, m.RecoveriesTotal, m.KeyDerivationSeconds)
	return m
}

// MetricsServer serves the /metrics endpoint on its own address.
type MetricsServer struct {
	srv     *http.Server
	Metrics *Metrics
}

// NewServer creates a metrics HTTP server for the given namespace and
// listen address.
func NewServer(namespace, listenAddr string) *MetricsServer {
	m := New(namespace)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	return &MetricsServer{
		srv:     &http.Server{Addr: listenAddr, Handler: mux},
		Metrics: m,
	}
}

// ListenAndServe blocks serving metrics until shutdown.
func (s *MetricsServer) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
