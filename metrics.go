// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

package querykit

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Results of a statement cache lookup.
const (
	lookupHit    = "hit"
	lookupMiss   = "miss"
	lookupBypass = "bypass"
)

// Metrics holds the statement cache metrics of one or more DBs.
type Metrics struct {
	lookups *prometheus.CounterVec
	size    prometheus.Gauge
}

// NewMetrics creates an unregistered set of metrics. Use it to give a DB its
// own metrics through [Config], typically in tests.
func NewMetrics() *Metrics {
	return &Metrics{
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "querykit_statement_cache_lookups_total",
				Help: "Total of statement cache lookups by result",
			},
			[]string{"result"},
		),
		size: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "querykit_statement_cache_size",
				Help: "Number of prepared statements held in statement caches",
			},
		),
	}
}

// MustRegister registers the metrics on the given registry. It panics if
// metrics with the same names are already registered.
func (m *Metrics) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(m.lookups, m.size)
}

func (m *Metrics) lookup(result string) {
	m.lookups.WithLabelValues(result).Inc()
}

// defaultMetrics is shared by every DB created without its own metrics.
var defaultMetrics = NewMetrics()

// MustRegisterMetrics will register the statement cache metrics shared by
// every DB created without its own [Metrics] on the given registry.
// If metrics with the same name already exist on the registry this function
// will panic.
func MustRegisterMetrics(registry prometheus.Registerer) {
	defaultMetrics.MustRegister(registry)
}
