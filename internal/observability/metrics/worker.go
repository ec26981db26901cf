package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// WorkerMetrics instruments the document pipeline: per-document
// outcomes, timing, queue lag and analysis shape.
type WorkerMetrics struct {
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	queueLag        *prometheus.HistogramVec

	analysisSections *prometheus.HistogramVec
	analysisWarnings *prometheus.HistogramVec
	riskScore        *prometheus.HistogramVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loanintel",
			Subsystem: "worker",
			Name:      "document_process_total",
			Help:      "Total processed documents by outcome.",
		},
		[]string{"service", "outcome"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loanintel",
			Subsystem: "worker",
			Name:      "document_process_duration_seconds",
			Help:      "Document processing duration in seconds by outcome.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120, 300},
		},
		[]string{"service", "outcome"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "loanintel",
			Subsystem: "worker",
			Name:      "document_process_in_flight",
			Help:      "Number of in-flight document processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loanintel",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between upload and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	analysisSections := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loanintel",
			Subsystem: "analysis",
			Name:      "sections",
			Help:      "Distribution of section counts per analyzed document.",
			Buckets:   []float64{5, 10, 15, 18, 20, 25, 30, 40},
		},
		[]string{"service"},
	)
	analysisWarnings := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loanintel",
			Subsystem: "analysis",
			Name:      "warnings",
			Help:      "Distribution of flagged sections per analyzed document.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 10, 15},
		},
		[]string{"service"},
	)
	riskScore := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loanintel",
			Subsystem: "analysis",
			Name:      "risk_score",
			Help:      "Distribution of derived risk scores.",
			Buckets:   []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"service"},
	)

	registry.MustRegister(
		processTotal, processDuration, processInFlight, queueLag,
		analysisSections, analysisWarnings, riskScore,
	)

	return &WorkerMetrics{
		registry:         registry,
		processTotal:     processTotal,
		processDuration:  processDuration,
		processInFlight:  processInFlight,
		queueLag:         queueLag,
		analysisSections: analysisSections,
		analysisWarnings: analysisWarnings,
		riskScore:        riskScore,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartDocument() {
	if m == nil {
		return
	}
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishDocument(service, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.processInFlight.Dec()
	m.processTotal.WithLabelValues(service, outcome).Inc()
	m.processDuration.WithLabelValues(service, outcome).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if m == nil || lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) ObserveAnalysis(service string, sections, warnings, riskScore int) {
	if m == nil {
		return
	}
	m.analysisSections.WithLabelValues(service).Observe(float64(sections))
	m.analysisWarnings.WithLabelValues(service).Observe(float64(warnings))
	m.riskScore.WithLabelValues(service).Observe(float64(riskScore))
}
