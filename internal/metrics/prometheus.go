// Package metrics exposes Prometheus metrics for a spam run.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for txspam.
type Metrics struct {
	// Per-strategy and per-endpoint transaction counters
	TxSent   *prometheus.CounterVec
	TxFailed *prometheus.CounterVec

	// Cycle failures before a transaction was produced
	BuildErrors prometheus.Counter

	// Send latency histogram
	SendLatency prometheus.Histogram

	// Gauges for current state
	SendRate      prometheus.Gauge
	LoadedWallets prometheus.Gauge
	LoadedClients prometheus.Gauge

	// HTTP server
	server *http.Server
	mu     sync.Mutex
}

// New creates a Metrics instance with the given namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		TxSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_sent_total",
			Help:      "Total number of transactions sent",
		}, []string{"strategy", "endpoint"}),
		TxFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_failed_total",
			Help:      "Total number of transaction sends that failed",
		}, []string{"strategy", "endpoint"}),
		BuildErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_errors_total",
			Help:      "Total number of cycles that failed before sending",
		}),
		SendLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "send_latency_seconds",
			Help:      "Transaction submission latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		}),
		SendRate: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "send_rate",
			Help:      "Configured send rate in transactions per second",
		}),
		LoadedWallets: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loaded_wallets",
			Help:      "Number of wallets loaded into the pool",
		}),
		LoadedClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loaded_clients",
			Help:      "Number of RPC endpoints loaded into the pool",
		}),
	}
}

// Start starts the HTTP server for Prometheus metrics.
func (m *Metrics) Start(_ context.Context, port int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server != nil {
		return fmt.Errorf("metrics server already running")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	m.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("Metrics server error: %v\n", err)
		}
	}()

	return nil
}

// Stop stops the HTTP server gracefully.
func (m *Metrics) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server == nil {
		return nil
	}

	err := m.server.Shutdown(ctx)
	m.server = nil
	return err
}

// RecordTxSent increments the sent counter and records submission latency.
func (m *Metrics) RecordTxSent(strategy, endpoint string, latency time.Duration) {
	m.TxSent.WithLabelValues(strategy, endpoint).Inc()
	m.SendLatency.Observe(latency.Seconds())
}

// RecordTxFailed increments the failed-send counter.
func (m *Metrics) RecordTxFailed(strategy, endpoint string) {
	m.TxFailed.WithLabelValues(strategy, endpoint).Inc()
}

// RecordBuildError increments the pre-send failure counter.
func (m *Metrics) RecordBuildError() {
	m.BuildErrors.Inc()
}

// SetSendRate sets the configured send rate gauge.
func (m *Metrics) SetSendRate(rate float64) {
	m.SendRate.Set(rate)
}

// SetPoolSizes records the loaded wallet and endpoint counts.
func (m *Metrics) SetPoolSizes(wallets, clients int) {
	m.LoadedWallets.Set(float64(wallets))
	m.LoadedClients.Set(float64(clients))
}
