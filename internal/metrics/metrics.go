// Package metrics holds the Prometheus collectors for content publishing and
// live sync.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cms"

var (
	Mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Admin mutations by table and outcome.",
	}, []string{"table", "outcome"})

	EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "change_events_published_total",
		Help:      "Change events handed to the bus, by table and result.",
	}, []string{"table", "result"})

	LiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_sessions",
		Help:      "Connected live-sync streams.",
	})

	Refreshes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "live_refreshes_total",
		Help:      "Debounced refreshes pushed to live clients.",
	})

	DegradedReads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "degraded_reads_total",
		Help:      "Reads that fell back to an empty result after a store error.",
	}, []string{"operation"})

	PageCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_cache_requests_total",
		Help:      "Page bundle cache lookups and refused stale fills by result.",
	}, []string{"result"})
)

// Registry is the registry served on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		Mutations,
		EventsPublished,
		LiveSessions,
		Refreshes,
		DegradedReads,
		PageCache,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
}

// Handler serves Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
