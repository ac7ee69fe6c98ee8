package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	workflowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_workflows_total",
			Help: "Total number of lead workflows run, by outcome",
		},
		[]string{"workflow", "outcome"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)

	viewRecomputes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_view_recomputes_total",
			Help: "Total number of times the effective lead query changed",
		},
	)

	leadsByStage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "leads_by_stage",
			Help: "Number of leads currently in each pipeline stage",
		},
		[]string{"stage"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush keeps the event stream working behind the metrics wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern labels by "/leads/{id}/qualify" rather than the raw path so lead ids
// don't blow up cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordWorkflow(workflow, outcome string) {
	workflowsTotal.WithLabelValues(workflow, outcome).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}

func RecordViewRecompute() {
	viewRecomputes.Inc()
}

func SetLeadsByStage(counts map[entity.Stage]int) {
	for _, stage := range entity.StageOrder {
		leadsByStage.WithLabelValues(string(stage)).Set(float64(counts[stage]))
	}
}

// Recorder hands the package-level collectors to code that takes a metrics interface.
type Recorder struct{}

func (Recorder) RecordWorkflow(workflow, outcome string) { RecordWorkflow(workflow, outcome) }
func (Recorder) RecordIntegrationError(service string)   { RecordIntegrationError(service) }
