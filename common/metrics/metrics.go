package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fridaygt"

// Result labels
const (
	ResultOK    = "ok"
	ResultError = "error"
)

type collectors struct {
	reorderTotal    *prometheus.CounterVec
	reorderDuration *prometheus.HistogramVec
	reorderItems    *prometheus.HistogramVec
	cacheRequests   *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
	fanoutConns     prometheus.Gauge
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

var singleton = sync.OnceValue(func() *collectors {
	return &collectors{
		reorderTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reorder_total",
			Help:      "Reorder requests by collection and outcome reason.",
		}, []string{"collection", "result"}),
		reorderDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reorder_duration_seconds",
			Help:      "Latency of reorder requests including validation and re-read.",
			Buckets: []float64{
				0.001, 0.002, 0.005,
				0.01, 0.02, 0.05,
				0.1, 0.2, 0.5,
				1, 2, 5,
			},
		}, []string{"collection"}),
		reorderItems: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reorder_items",
			Help:      "Number of items submitted per reorder.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
		}, []string{"collection"}),
		cacheRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Roster cache lookups by result.",
		}, []string{"result"}),
		eventsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Realtime roster events published by result.",
		}, []string{"result"}),
		fanoutConns: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fanout_connections",
			Help:      "Open WebSocket connections on this fanout instance.",
		}),
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route template and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
})

// ObserveReorder records one reorder attempt
func ObserveReorder(collection, result string, items int, took time.Duration) {
	m := singleton()
	m.reorderTotal.WithLabelValues(collection, result).Inc()
	m.reorderDuration.WithLabelValues(collection).Observe(took.Seconds())
	m.reorderItems.WithLabelValues(collection).Observe(float64(items))
}

// CacheLookup records a cache hit or miss
func CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	singleton().cacheRequests.WithLabelValues(result).Inc()
}

// EventPublished records a realtime publish attempt
func EventPublished(err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	singleton().eventsPublished.WithLabelValues(result).Inc()
}

// FanoutConnections sets the current connection gauge
func FanoutConnections(n int) {
	singleton().fanoutConns.Set(float64(n))
}

// ReorderCount returns the counter value for a label pair (tests, debug endpoints)
func ReorderCount(collection, result string) float64 {
	return counterValue(singleton().reorderTotal.WithLabelValues(collection, result))
}

// ObserveHTTP records one served request. route is the template, not the raw path.
func ObserveHTTP(method, route string, status int, took time.Duration) {
	m := singleton()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

// HTTPCount returns the request counter for a label triple
func HTTPCount(method, route string, status int) float64 {
	return counterValue(singleton().httpRequests.WithLabelValues(method, route, strconv.Itoa(status)))
}
