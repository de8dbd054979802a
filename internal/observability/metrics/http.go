package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServerMetrics collects request counters and timings plus the domain
// counters for document lifecycle operations.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsTotal      *prometheus.CounterVec
	mutationsTotal    *prometheus.CounterVec
	pagesApproved     prometheus.Counter
	webhookFailures   *prometheus.CounterVec
	documentsReturned prometheus.Histogram
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docbase",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docbase",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docbase",
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
			Namespace: "docbase",
			Subsystem: "documents",
			Name:      "uploads_total",
			Help:      "Total document uploads by kind (new or replace).",
		},
		[]string{"service", "kind"},
	)
	mutationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docbase",
			Subsystem: "documents",
			Name:      "mutations_total",
			Help:      "Total document mutations by operation.",
		},
		[]string{"service", "operation"},
	)
	pagesApproved := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "docbase",
			Subsystem: "ingest",
			Name:      "pages_approved_total",
			Help:      "Total review-queue pages approved for vectorization.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	webhookFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docbase",
			Subsystem: "webhook",
			Name:      "failures_total",
			Help:      "Total failed workflow webhook deliveries.",
		},
		[]string{"service", "endpoint"},
	)
	documentsReturned := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "docbase",
			Subsystem: "documents",
			Name:      "list_size",
			Help:      "Distribution of document counts returned by list requests.",
			Buckets:   []float64{0, 10, 25, 50, 100, 250, 500, 1000},
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		uploadsTotal,
		mutationsTotal,
		pagesApproved,
		webhookFailures,
		documentsReturned,
	)

	return &HTTPServerMetrics{
		registry:          registry,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestInFlight:   requestInFlight,
		uploadsTotal:      uploadsTotal,
		mutationsTotal:    mutationsTotal,
		pagesApproved:     pagesApproved,
		webhookFailures:   webhookFailures,
		documentsReturned: documentsReturned,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses id-bearing routes to keep label cardinality bounded.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/documents/"):
		return "/api/documents/{id}"
	case strings.HasPrefix(path, "/api/ingest/pages/"):
		return "/api/ingest/pages/{id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordUpload(service, kind string) {
	m.uploadsTotal.WithLabelValues(service, kind).Inc()
}

func (m *HTTPServerMetrics) RecordMutation(service, operation string) {
	m.mutationsTotal.WithLabelValues(service, operation).Inc()
}

func (m *HTTPServerMetrics) RecordPagesApproved(count int) {
	if count > 0 {
		m.pagesApproved.Add(float64(count))
	}
}

func (m *HTTPServerMetrics) RecordWebhookFailure(service, endpoint string) {
	m.webhookFailures.WithLabelValues(service, endpoint).Inc()
}

func (m *HTTPServerMetrics) RecordListSize(count int) {
	m.documentsReturned.Observe(float64(count))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}
