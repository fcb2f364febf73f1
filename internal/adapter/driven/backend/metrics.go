package backend

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ledgerdesk"

// Metrics holds Prometheus metrics for the request pipeline. A nil *Metrics
// records nothing.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RenewalsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
}

// NewMetrics creates and registers pipeline metrics on the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Backend calls by final outcome.",
		}, []string{"outcome"}),
		RenewalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "token_renewals_total",
			Help:      "Access token renewal attempts by result.",
		}, []string{"result"}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Duration of backend calls including renewal and replay.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.RequestsTotal, m.RenewalsTotal, m.RequestDuration)
	return m
}

func (m *Metrics) observeRequest(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(outcome).Inc()
	m.RequestDuration.Observe(d.Seconds())
}

func (m *Metrics) observeRenewal(result string) {
	if m == nil {
		return
	}
	m.RenewalsTotal.WithLabelValues(result).Inc()
}
