// Package metrics registers the gateway's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "celeste"
	subsystem = "gateway"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 120},
		},
		[]string{"method", "route"},
	)

	// Backend calls by capability, provider and status (ok or error).
	BackendCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "backend_calls_total",
			Help:      "Total backend calls",
		},
		[]string{"capability", "provider", "status"},
	)

	BackendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "backend_duration_seconds",
			Help:      "Backend call duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 300},
		},
		[]string{"capability", "provider"},
	)

	StreamChunksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stream_chunks_total",
			Help:      "Total NDJSON records written to text streams",
		},
		[]string{"provider"},
	)

	StreamFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stream_failures_total",
			Help:      "Text streams terminated by an upstream failure",
		},
		[]string{"provider"},
	)

	MediaProxyBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "media_proxy_bytes_total",
			Help:      "Total bytes relayed by the media proxy",
		},
	)

	AudioHandlesStoredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "audio_handles_stored_total",
			Help:      "Total audio clips stored for later retrieval",
		},
	)
)

// Handler returns the Prometheus metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records an HTTP request
func RecordRequest(method, route, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(durationSec)
}

// RecordBackendCall records one backend invocation
func RecordBackendCall(capability, provider, status string, durationSec float64) {
	BackendCallsTotal.WithLabelValues(capability, provider, status).Inc()
	BackendDuration.WithLabelValues(capability, provider).Observe(durationSec)
}

// RecordStreamChunk counts one relayed stream record
func RecordStreamChunk(provider string) {
	StreamChunksTotal.WithLabelValues(provider).Inc()
}

// RecordStreamFailure counts a stream terminated mid-flight
func RecordStreamFailure(provider string) {
	StreamFailuresTotal.WithLabelValues(provider).Inc()
}

// RecordMediaBytes counts relayed media bytes
func RecordMediaBytes(n int) {
	MediaProxyBytesTotal.Add(float64(n))
}

// RecordAudioStored counts a stored audio clip
func RecordAudioStored() {
	AudioHandlesStoredTotal.Inc()
}
