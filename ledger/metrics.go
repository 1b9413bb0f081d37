package ledger

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "sync"
)

// Metrics contains metrics exposed by this package. They are best-effort
// progress indicators and are never consulted for correctness.
type Metrics struct {
	// Height of the remote chain tip, as last reported by the ledger.
	TargetHeight metrics.Gauge
	// Highest height present in the local store.
	SyncedHeight metrics.Gauge
	// Highest height for which full verification has been recorded.
	VerifiedHeight metrics.Gauge
}

// PrometheusMetrics returns Metrics built using the Prometheus client
// library.
func PrometheusMetrics(namespace string) *Metrics {
	return &Metrics{
		TargetHeight: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "target_height",
			Help:      "Height of the remote chain tip.",
		}, []string{}),
		SyncedHeight: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "synced_height",
			Help:      "Highest block height present in the local store.",
		}, []string{}),
		VerifiedHeight: prometheus.NewGaugeFrom(stdprometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "verified_height",
			Help:      "Highest block height that has been fully verified.",
		}, []string{}),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		TargetHeight:   discard.NewGauge(),
		SyncedHeight:   discard.NewGauge(),
		VerifiedHeight: discard.NewGauge(),
	}
}
