package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/trebuchet-org/treb-wallet/internal/usecase"
)

// Prometheus records deployment activity on its own registry
type Prometheus struct {
	registry *prometheus.Registry
	attempts *prometheus.CounterVec
	gasLimit *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treb_wallet_deployments_total",
				Help: "Deploy calls by outcome",
			},
			[]string{"outcome"},
		),
		gasLimit: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "treb_wallet_deploy_gas_limit",
				Help:    "Gas limit attached to deployment transactions",
				Buckets: prometheus.ExponentialBuckets(100_000, 2, 8),
			},
			[]string{"source"},
		),
	}

	p.registry.MustRegister(
		p.attempts,
		p.gasLimit,
		collectors.NewGoCollector(),
	)
	return p
}

// Registry exposes the registry for scraping
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// ObserveAttempt counts a finished deploy call
func (p *Prometheus) ObserveAttempt(outcome usecase.DeploymentOutcome) {
	p.attempts.WithLabelValues(string(outcome)).Inc()
}

// ObserveGasLimit records the gas limit chosen for a transaction
func (p *Prometheus) ObserveGasLimit(limit uint64, fallback bool) {
	source := "estimate"
	if fallback {
		source = "fallback"
	}
	p.gasLimit.WithLabelValues(source).Observe(float64(limit))
}

var _ usecase.DeploymentMetrics = (*Prometheus)(nil)
