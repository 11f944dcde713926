// Package observability groups the Prometheus instruments used by the service.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	SynthesisAttempts *prometheus.CounterVec
	SegmentLatency    prometheus.Histogram
	ChunksPerJob      prometheus.Histogram
	JobsRejected      *prometheus.CounterVec
	WSMessages        *prometheus.CounterVec
	ActiveJobs        prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		SynthesisAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesis_attempts_total",
			Help:      "Segment synthesis attempts by backend and outcome.",
		}, []string{"backend", "outcome"}),
		SegmentLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "segment_latency_ms",
			Help:      "Per-segment synthesis latency in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000},
		}),
		ChunksPerJob: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chunks_per_job",
			Help:      "Number of chunks produced per synthesis job.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 55},
		}),
		JobsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_rejected_total",
			Help:      "Jobs rejected before synthesis by reason.",
		}, []string{"reason"}),
		WSMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_total",
			Help:      "WebSocket chat messages by direction and type.",
		}, []string{"direction", "type"}),
		ActiveJobs: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_jobs",
			Help:      "Synthesis jobs currently in flight.",
		}),
	}
}

func (m *Metrics) ObserveSegmentLatency(d time.Duration) {
	m.SegmentLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
