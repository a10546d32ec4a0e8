package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_sessions",
	Help: "Number of live chat sessions",
})

var activeWorkers = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_workers",
	Help: "Number of running extraction workers",
})

var indexedChunks = promauto.NewCounter(prometheus.CounterOpts{
	Name: "indexed_chunks_total",
	Help: "Chunks embedded and appended to a session index",
})

var rateLimitRetries = promauto.NewCounter(prometheus.CounterOpts{
	Name: "embedding_rate_limit_retries_total",
	Help: "How often an embedding batch waited for the rate limit backoff",
})

var answersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "answers_total",
	Help: "Generated answers labelled by mode and outcome",
}, []string{"mode", "outcome"})

var scoredRecords = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "evaluation_records_scored_total",
	Help: "Evaluation records scored labelled by outcome",
}, []string{"outcome"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementActiveSessions() {
	activeSessions.Inc()
}

func DecrementActiveSessions() {
	activeSessions.Dec()
}

func IncrementActiveWorkerCount() {
	activeWorkers.Inc()
}

func DecrementActiveWorkerCount() {
	activeWorkers.Dec()
}

func AddIndexedChunks(n int) {
	indexedChunks.Add(float64(n))
}

func IncrementRateLimitRetries() {
	rateLimitRetries.Inc()
}

func CountAnswer(mode, outcome string) {
	answersTotal.WithLabelValues(mode, outcome).Inc()
}

func CountScoredRecord(outcome string) {
	scoredRecords.WithLabelValues(outcome).Inc()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_request_duration_seconds",
	Help:    "Total time spent answering or ingesting.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60, 120},
}, []string{"operation"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureRequestMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
