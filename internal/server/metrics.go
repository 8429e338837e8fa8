package server

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/scrapbook/pkg/observability"
)

var (
	// httpRequests counts finished requests.
	// Labels: method, route (chi pattern), status.
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrapbook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrapbook_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	httpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrapbook_http_errors_total",
			Help: "Total number of requests that ended in a server-side error",
		},
		[]string{"method", "route"},
	)

	// layoutTotal counts pack runs. Labels: policy, outcome ("ok", "error").
	layoutTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrapbook_layout_total",
			Help: "Total number of grid layouts computed",
		},
		[]string{"policy", "outcome"},
	)

	layoutDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrapbook_layout_duration_seconds",
			Help:    "Duration of grid packing in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"policy"},
	)

	layoutItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scrapbook_layout_items",
			Help:    "Number of items per layout request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	renderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrapbook_render_duration_seconds",
			Help:    "Duration of artifact rendering in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"formats", "outcome"},
	)

	// dragTotal counts finished gestures.
	// Labels: outcome ("emitted", "ignored", "cancelled_user", "cancelled_layout").
	dragTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrapbook_drag_total",
			Help: "Total number of drag gestures by outcome",
		},
		[]string{"outcome"},
	)

	cacheOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrapbook_cache_operations_total",
			Help: "Cache lookups and writes",
		},
		[]string{"type", "op"},
	)

	cacheBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrapbook_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		},
		[]string{"type"},
	)
)

// RegisterMetrics routes the observability hooks to Prometheus.
func RegisterMetrics() {
	observability.SetPipelineHooks(pipelineMetrics{})
	observability.SetDragHooks(dragMetrics{})
	observability.SetCacheHooks(cacheMetrics{})
	observability.SetHTTPHooks(httpMetrics{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

type pipelineMetrics struct{}

func (pipelineMetrics) OnLayoutStart(_ context.Context, _ string, itemCount int) {
	layoutItems.Observe(float64(itemCount))
}

func (pipelineMetrics) OnLayoutComplete(_ context.Context, policy string, _ int, d time.Duration, err error) {
	layoutTotal.WithLabelValues(policy, outcome(err)).Inc()
	layoutDuration.WithLabelValues(policy).Observe(d.Seconds())
}

func (pipelineMetrics) OnRenderStart(context.Context, []string) {}

func (pipelineMetrics) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	renderDuration.WithLabelValues(strings.Join(formats, ","), outcome(err)).Observe(d.Seconds())
}

type dragMetrics struct{}

func (dragMetrics) OnDragStart(context.Context, string) {}

func (dragMetrics) OnDragEnd(_ context.Context, emitted bool) {
	if emitted {
		dragTotal.WithLabelValues("emitted").Inc()
	} else {
		dragTotal.WithLabelValues("ignored").Inc()
	}
}

func (dragMetrics) OnDragCancel(_ context.Context, reason string) {
	dragTotal.WithLabelValues("cancelled_" + reason).Inc()
}

type cacheMetrics struct{}

func (cacheMetrics) OnCacheHit(_ context.Context, keyType string) {
	cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (cacheMetrics) OnCacheMiss(_ context.Context, keyType string) {
	cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (cacheMetrics) OnCacheSet(_ context.Context, keyType string, size int) {
	cacheOps.WithLabelValues(keyType, "set").Inc()
	cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

type httpMetrics struct{}

func (httpMetrics) OnRequest(context.Context, string, string) {}

func (httpMetrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (httpMetrics) OnError(_ context.Context, method, route string, _ error) {
	httpErrors.WithLabelValues(method, route).Inc()
}
