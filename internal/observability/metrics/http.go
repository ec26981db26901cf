package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics instruments the api process: request traffic plus
// business counters for uploads and chat.
type HTTPMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsTotal       *prometheus.CounterVec
	chatQuestionsTotal *prometheus.CounterVec
	exportsTotal       *prometheus.CounterVec
}

func NewHTTPMetrics(service string) *HTTPMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loanintel",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loanintel",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "loanintel",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loanintel",
			Subsystem: "documents",
			Name:      "uploads_total",
			Help:      "Total accepted document uploads.",
		},
		[]string{"service", "mime_type"},
	)
	chatQuestionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loanintel",
			Subsystem: "chat",
			Name:      "questions_total",
			Help:      "Total chat questions by outcome.",
		},
		[]string{"service", "outcome"},
	)
	exportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loanintel",
			Subsystem: "exports",
			Name:      "total",
			Help:      "Total loan exports by format.",
		},
		[]string{"service", "format"},
	)

	registry.MustRegister(
		requestTotal, requestDuration, requestInFlight,
		uploadsTotal, chatQuestionsTotal, exportsTotal,
	)

	return &HTTPMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		uploadsTotal:       uploadsTotal,
		chatQuestionsTotal: chatQuestionsTotal,
		exportsTotal:       exportsTotal,
	}
}

func (m *HTTPMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest feeds the access-log middleware observations.
func (m *HTTPMetrics) RecordRequest(service, method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	normalized := normalizePath(path)
	m.requestTotal.WithLabelValues(service, method, normalized, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(service, method, normalized).Observe(duration.Seconds())
}

func (m *HTTPMetrics) RequestStarted() {
	if m == nil {
		return
	}
	m.requestInFlight.Inc()
}

func (m *HTTPMetrics) RequestFinished() {
	if m == nil {
		return
	}
	m.requestInFlight.Dec()
}

func (m *HTTPMetrics) RecordUpload(service, mimeType string) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues(service, mimeType).Inc()
}

func (m *HTTPMetrics) RecordChatQuestion(service, outcome string) {
	if m == nil {
		return
	}
	m.chatQuestionsTotal.WithLabelValues(service, outcome).Inc()
}

func (m *HTTPMetrics) RecordExport(service, format string) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(service, format).Inc()
}

// normalizePath collapses id segments so the label space stays small.
func normalizePath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if i < 2 || p == "" {
			continue
		}
		switch parts[i-1] {
		case "files", "loans":
			if p != "compare" && p != "export" {
				parts[i] = ":id"
			}
		}
	}
	return strings.Join(parts, "/")
}
