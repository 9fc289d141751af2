// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts the two external operations the service performs
type Metrics struct {
	VaultFetches      *prometheus.CounterVec
	DepositsSubmitted *prometheus.CounterVec
}

// New registers the service counters on the given registry
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		VaultFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "morpho",
				Name:      "vault_fetches_total",
				Help:      "Vault list queries against the GraphQL API",
			},
			[]string{"status"},
		),
		DepositsSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "morpho",
				Name:      "deposits_total",
				Help:      "Supply transactions submitted to the Morpho contract",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(m.VaultFetches, m.DepositsSubmitted)
	return m
}
