// Package metrics exposes Prometheus metrics for the HTTP layer, the
// pageview counter and the flush loop.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mdblog"

// Pageview results.
const (
	PageviewCounted = "counted"
	PageviewIgnored = "ignored"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	PageviewsTotal *prometheus.CounterVec
	PostsLoaded    prometheus.Gauge

	FlushesTotal      prometheus.Counter
	FlushRecordsTotal *prometheus.CounterVec
	FlushDuration     prometheus.Histogram
	RestoredRecords   prometheus.Gauge
}

// New creates the metrics on a private registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		PageviewsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "views",
			Name:      "pageviews_total",
			Help:      "Pageview notifications by result.",
		}, []string{"result"}),
		PostsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "posts_loaded",
			Help:      "Published posts loaded at startup.",
		}),
		FlushesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "views",
			Name:      "flushes_total",
			Help:      "View count flushes to the database.",
		}),
		FlushRecordsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "views",
			Name:      "flush_records_total",
			Help:      "Records written or failed during flushes.",
		}, []string{"result"}),
		FlushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "views",
			Name:      "flush_duration_seconds",
			Help:      "Time spent writing one snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		RestoredRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "views",
			Name:      "restored_records",
			Help:      "Records restored from the database at startup.",
		}),
	}
}

// Registry is the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records one sample per request. Requests that matched no route
// are grouped under "unmatched" to keep label cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// ObservePageview counts one pageview notification.
func (m *Metrics) ObservePageview(counted bool) {
	result := PageviewIgnored
	if counted {
		result = PageviewCounted
	}
	m.PageviewsTotal.WithLabelValues(result).Inc()
}

// ObserveFlush records the outcome of one flush.
func (m *Metrics) ObserveFlush(written, failed int, took time.Duration) {
	m.FlushesTotal.Inc()
	m.FlushRecordsTotal.WithLabelValues("written").Add(float64(written))
	m.FlushRecordsTotal.WithLabelValues("failed").Add(float64(failed))
	m.FlushDuration.Observe(took.Seconds())
}

// ObserveRestore records how many records were restored at startup.
func (m *Metrics) ObserveRestore(restored int) {
	m.RestoredRecords.Set(float64(restored))
}
