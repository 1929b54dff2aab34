// Package metrics exposes Prometheus collectors for HTTP traffic,
// rendering, imports, sanitization and LLM calls. Collectors register with the default
// registry the first time any of them is used.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lpmanager"

var (
	once sync.Once

	renders          *prometheus.CounterVec
	renderDuration   *prometheus.HistogramVec
	imports          *prometheus.CounterVec
	sanitized        prometheus.Counter
	llmGenerations   *prometheus.CounterVec
	activeWorkspaces prometheus.Gauge
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	rejections       *prometheus.CounterVec
)

func initMetrics() {
	once.Do(func() {
		renders = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Section documents rendered, by section type and result",
		}, []string{"section_type", "result"})

		renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering one section document",
			Buckets:   prometheus.DefBuckets,
		}, []string{"section_type"})

		imports = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Store imports, by result",
		}, []string{"result"})

		sanitized = promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sanitized_documents_total",
			Help:      "Pasted HTML documents that went through the sanitizer",
		})

		llmGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_generations_total",
			Help:      "Direct LLM generation calls, by provider and result",
		}, []string{"provider", "result"})

		activeWorkspaces = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workspaces",
			Help:      "Session workspaces currently held in memory",
		})

		requests = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by route pattern, method and status code",
		}, []string{"route", "method", "code"})

		requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 5, 30, 120},
		}, []string{"route"})

		rejections = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rejections_total",
			Help:      "Requests stopped by middleware, by reason",
		}, []string{"reason"})
	})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveRender records one render attempt.
func ObserveRender(sectionType string, started time.Time, err error) {
	initMetrics()
	renders.WithLabelValues(sectionType, result(err)).Inc()
	renderDuration.WithLabelValues(sectionType).Observe(time.Since(started).Seconds())
}

// ObserveImport records one import attempt.
func ObserveImport(err error) {
	initMetrics()
	imports.WithLabelValues(result(err)).Inc()
}

// IncSanitized counts one sanitized document.
func IncSanitized() {
	initMetrics()
	sanitized.Inc()
}

// ObserveGeneration records one LLM call.
func ObserveGeneration(provider string, err error) {
	initMetrics()
	llmGenerations.WithLabelValues(provider, result(err)).Inc()
}

// SetWorkspaces reports how many workspaces are live.
func SetWorkspaces(n int) {
	initMetrics()
	activeWorkspaces.Set(float64(n))
}

// ObserveRequest records one served HTTP request. route is the matched
// route pattern, never the raw path.
func ObserveRequest(route, method string, status int, started time.Time) {
	initMetrics()
	requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(route).Observe(time.Since(started).Seconds())
}

// IncRejected counts a request refused by middleware ("csrf", "rate_limit",
// "panic").
func IncRejected(reason string) {
	initMetrics()
	rejections.WithLabelValues(reason).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	initMetrics()
	return promhttp.Handler()
}
