package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	Questions          *prometheus.CounterVec
	CompletionDuration *prometheus.HistogramVec
	Fetches            *prometheus.CounterVec
	Upserts            prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		Questions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cdpask_questions_total",
			Help: "Questions handled, by outcome",
		}, []string{"outcome"}),

		CompletionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cdpask_completion_duration_seconds",
			Help:    "Completion call latency distribution",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),

		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cdpask_fetch_total",
			Help: "Documentation fetches, by platform and status",
		}, []string{"platform", "status"}),

		Upserts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cdpask_store_upserts_total",
			Help: "Documents written to the store",
		}),
	}

	m.Registry.MustRegister(
		m.Questions,
		m.CompletionDuration,
		m.Fetches,
		m.Upserts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
