// Package metrics exposes Prometheus counters for imports, cache lookups,
// thought output and the HTTP API.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrlokans/journo/internal/notion"
)

const Namespace = "journo"

// Collector holds all metrics on its own registry, so several collectors
// can coexist in tests.
type Collector struct {
	registry *prometheus.Registry

	RemoteCalls     *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
	ThoughtsEmitted *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		RemoteCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "remote_calls_total",
			Help:      "Notion API calls by operation and outcome.",
		}, []string{"operation", "status"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "cache_lookups_total",
			Help:      "Artifact cache lookups with skip requested, by result.",
		}, []string{"operation", "result"}),
		ThoughtsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "thoughts_emitted_total",
			Help:      "Thoughts returned after processing, by segmentation mode.",
		}, []string{"mode"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	c.registry.MustRegister(
		c.RemoteCalls,
		c.CacheLookups,
		c.ThoughtsEmitted,
		c.HTTPRequests,
		c.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// RemoteCall counts one API call. Failures are labelled with the HTTP
// status when the API answered, "error" otherwise.
func (c *Collector) RemoteCall(operation string, err error) {
	c.RemoteCalls.WithLabelValues(operation, callStatus(err)).Inc()
}

func (c *Collector) CacheLookup(operation string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.CacheLookups.WithLabelValues(operation, result).Inc()
}

func (c *Collector) AddThoughts(mode string, n int) {
	c.ThoughtsEmitted.WithLabelValues(mode).Add(float64(n))
}

func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func callStatus(err error) string {
	if err == nil {
		return "ok"
	}
	var apiErr *notion.APIError
	if errors.As(err, &apiErr) {
		return strconv.Itoa(apiErr.Status)
	}
	return "error"
}
