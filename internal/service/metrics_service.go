package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eduhubvn/moderation-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the moderation
// gateway.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	decisionsTotal  *prometheus.CounterVec
	queueDepth      *prometheus.GaugeVec
	refreshDuration *prometheus.HistogramVec
	normFailures    *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	decisionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_decisions_total",
		Help: "Total approve/reject decisions by entity type",
	}, []string{"entity", "decision"})

	queueDepth := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "moderation_queue_depth",
		Help: "Current pending-queue depth by entity type",
	}, []string{"entity"})

	refreshDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moderation_refresh_duration_seconds",
		Help:    "Duration of pending-queue refreshes",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity"})

	normFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_normalization_failures_total",
		Help: "Upstream payloads that failed normalization",
	}, []string{"entity"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, decisionsTotal, queueDepth, refreshDuration, normFailures, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		decisionsTotal:  decisionsTotal,
		queueDepth:      queueDepth,
		refreshDuration: refreshDuration,
		normFailures:    normFailures,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordDecision counts one finalised approve/reject decision.
func (m *MetricsService) RecordDecision(entity models.EntityType, decision models.RevisionStatus) {
	if m == nil {
		return
	}
	m.decisionsTotal.WithLabelValues(string(entity), string(decision)).Inc()
}

// SetQueueDepth publishes the current pending-queue depth.
func (m *MetricsService) SetQueueDepth(entity models.EntityType, depth int) {
	if m == nil {
		return
	}
	m.queueDepth.WithLabelValues(string(entity)).Set(float64(depth))
}

// ObserveRefresh records the duration of a queue refresh.
func (m *MetricsService) ObserveRefresh(entity models.EntityType, duration time.Duration) {
	if m == nil {
		return
	}
	m.refreshDuration.WithLabelValues(string(entity)).Observe(duration.Seconds())
}

// RecordNormalizationFailure counts an upstream payload the normalizer
// could not map.
func (m *MetricsService) RecordNormalizationFailure(entity models.EntityType) {
	if m == nil {
		return
	}
	m.normFailures.WithLabelValues(string(entity)).Inc()
}
