// Package metrics wraps Prometheus collectors for the data-access layer:
// fetch outcomes, throttle suppressions, cache hits and session refreshes.
// All methods are safe on a nil *Collector, so components can run without metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the layer's metrics and its own registry
type Collector struct {
	registry *prometheus.Registry

	fetchTotal      *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	suppressedTotal *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	refreshTotal    *prometheus.CounterVec
	hookTimeouts    *prometheus.CounterVec
}

// NewCollector creates collector with a fresh registry
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "gophboard"
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
	}

	c.fetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Authenticated fetch results by status code",
		},
		[]string{"method", "status"},
	)

	c.fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of authenticated fetches that reached the network",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	c.suppressedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "throttle_suppressed_total",
			Help:      "Requests suppressed locally by the failure throttle",
		},
		[]string{"scope"},
	)

	c.cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by key and result",
		},
		[]string{"key", "result"},
	)

	c.refreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_refresh_total",
			Help:      "Session refresh attempts by result",
		},
		[]string{"result"},
	)

	c.hookTimeouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hook_wait_timeouts_total",
			Help:      "Guarded fetches that exceeded their wait timeout",
		},
		[]string{"feature"},
	)

	c.registry.MustRegister(
		c.fetchTotal,
		c.fetchDuration,
		c.suppressedTotal,
		c.cacheLookups,
		c.refreshTotal,
		c.hookTimeouts,
	)

	return c
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler returns HTTP handler exposing the registry
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveFetch records a fetch that reached the network
func (c *Collector) ObserveFetch(method string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.fetchTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.fetchDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// CountResult records a fetch result that never reached the network
func (c *Collector) CountResult(method string, status int) {
	if c == nil {
		return
	}
	c.fetchTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Suppressed records a throttled request; scope is "target" or "auth"
func (c *Collector) Suppressed(scope string) {
	if c == nil {
		return
	}
	c.suppressedTotal.WithLabelValues(scope).Inc()
}

// CacheHit records a valid cache read
func (c *Collector) CacheHit(key string) {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(key, "hit").Inc()
}

// CacheMiss records a missing or expired cache read
func (c *Collector) CacheMiss(key string) {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(key, "miss").Inc()
}

// Refresh records a session refresh attempt
func (c *Collector) Refresh(ok bool) {
	if c == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	c.refreshTotal.WithLabelValues(result).Inc()
}

// HookTimeout records a wait timeout of a guarded fetch
func (c *Collector) HookTimeout(feature string) {
	if c == nil {
		return
	}
	c.hookTimeouts.WithLabelValues(feature).Inc()
}
