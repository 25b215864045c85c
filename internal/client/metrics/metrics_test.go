package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("test")

	c.ObserveFetch("GET", 200, 10*time.Millisecond)
	c.ObserveFetch("GET", 200, 20*time.Millisecond)
	c.CountResult("GET", 429)
	c.Suppressed("target")
	c.CacheHit("GOALS_DATA")
	c.CacheMiss("GOALS_DATA")
	c.CacheMiss("GOALS_DATA")
	c.Refresh(true)
	c.Refresh(false)
	c.HookTimeout("goals")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.fetchTotal.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fetchTotal.WithLabelValues("GET", "429")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.suppressedTotal.WithLabelValues("target")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("GOALS_DATA", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("GOALS_DATA", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.refreshTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.refreshTotal.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.hookTimeouts.WithLabelValues("goals")))
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.ObserveFetch("GET", 200, time.Second)
		c.CountResult("GET", 500)
		c.Suppressed("auth")
		c.CacheHit("k")
		c.CacheMiss("k")
		c.Refresh(true)
		c.HookTimeout("feed")
	})
	assert.Nil(t, c.Registry())
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("")
	c.CacheHit("WATCHLIST")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `gophboard_cache_lookups_total{key="WATCHLIST",result="hit"} 1`)
}
