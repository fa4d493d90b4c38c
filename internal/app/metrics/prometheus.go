package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the transcription service.
type Metrics struct {
	// Pipeline metrics
	PipelineRequests  prometheus.Counter
	PipelineSuccesses prometheus.Counter
	PipelineFailures  *prometheus.CounterVec
	PipelineDuration  prometheus.Histogram
	UploadBytes       prometheus.Histogram
	AudioDuration     prometheus.Histogram

	// Transcription metrics
	TranscriptionRetries prometheus.Counter

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PipelineRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicescribe_pipeline_requests_total",
			Help: "Total number of pipeline runs started",
		}),
		PipelineSuccesses: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicescribe_pipeline_successes_total",
			Help: "Total number of pipeline runs that completed and persisted a transcript",
		}),
		PipelineFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voicescribe_pipeline_failures_total",
			Help: "Total number of pipeline failures by stage",
		}, []string{"stage"}),
		PipelineDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicescribe_pipeline_duration_seconds",
			Help:    "End-to-end duration of pipeline runs",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~2 minutes
		}),
		UploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicescribe_upload_size_bytes",
			Help:    "Size of uploaded audio payloads in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8), // 1KB to ~16MB
		}),
		AudioDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicescribe_audio_duration_seconds",
			Help:    "Duration of uploaded audio in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~17 minutes
		}),
		TranscriptionRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicescribe_transcription_retries_total",
			Help: "Total number of transcription attempt retries",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicescribe_cache_hits_total",
			Help: "Total number of result cache hits",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicescribe_cache_misses_total",
			Help: "Total number of result cache misses",
		}),
	}
}

// RecordPipelineRequest increments the pipeline requests counter.
func (m *Metrics) RecordPipelineRequest(payloadBytes int) {
	m.PipelineRequests.Inc()
	m.UploadBytes.Observe(float64(payloadBytes))
}

// RecordPipelineSuccess records a successful pipeline run.
func (m *Metrics) RecordPipelineSuccess(durationSeconds float64) {
	m.PipelineSuccesses.Inc()
	m.PipelineDuration.Observe(durationSeconds)
}

// RecordPipelineFailure records a failed pipeline run for the given stage.
func (m *Metrics) RecordPipelineFailure(stage string, durationSeconds float64) {
	m.PipelineFailures.WithLabelValues(stage).Inc()
	m.PipelineDuration.Observe(durationSeconds)
}

// RecordAudioDuration records the probed audio length.
func (m *Metrics) RecordAudioDuration(seconds int) {
	m.AudioDuration.Observe(float64(seconds))
}

// RecordTranscriptionRetry increments the retry counter.
func (m *Metrics) RecordTranscriptionRetry() {
	m.TranscriptionRetries.Inc()
}

// RecordCacheHit increments the cache hit counter.
func (m *Metrics) RecordCacheHit() {
	m.CacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func (m *Metrics) RecordCacheMiss() {
	m.CacheMisses.Inc()
}
