package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "crash_severity"

// Metrics holds the Prometheus counters, histograms, and gauges for scoring,
// the remote scorer client and the stream pipeline.
type Metrics struct {
	// Scoring metrics.
	Predictions          *prometheus.CounterVec   // labels: source={http,stream}, severity
	PredictionConfidence *prometheus.HistogramVec // labels: severity
	ValidationErrors     *prometheus.CounterVec   // labels: route

	// Remote scorer metrics.
	RemoteRequests    *prometheus.CounterVec // labels: outcome={success,error,status}
	RemoteCache       *prometheus.CounterVec // labels: result={hit,miss}
	RemoteAPIDuration prometheus.Histogram
	RemoteEnabled     prometheus.Gauge

	// Stream pipeline metrics.
	MessagesConsumed        prometheus.Counter
	MessagesProduced        prometheus.Counter
	TransformErrors         prometheus.Counter
	PipelineRunning         prometheus.Gauge
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.Predictions,
		m.PredictionConfidence,
		m.ValidationErrors,
		m.RemoteRequests,
		m.RemoteCache,
		m.RemoteAPIDuration,
		m.RemoteEnabled,
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Predictions served by source and severity.",
		}, []string{"source", "severity"}),
		PredictionConfidence: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_confidence",
			Help:      "Confidence of served predictions by severity.",
			Buckets:   []float64{0.65, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95},
		}, []string{"severity"}),
		ValidationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Request bodies rejected by schema validation, by route.",
		}, []string{"route"}),
		RemoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_requests_total",
			Help:      "Remote scorer requests by outcome.",
		}, []string{"outcome"}),
		RemoteCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_cache_total",
			Help:      "Remote scorer cache lookups by result.",
		}, []string{"result"}),
		RemoteAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_api_duration_seconds",
			Help:      "Remote scorer request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		RemoteEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "remote_enabled",
			Help:      "1 when predictions are delegated to a remote scorer, 0 otherwise.",
		}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total messages read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total messages written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total messages that could not be decoded or scored.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ObservePrediction records one served prediction.
func (m *Metrics) ObservePrediction(source, severity string, confidence float64) {
	m.Predictions.WithLabelValues(source, severity).Inc()
	m.PredictionConfidence.WithLabelValues(severity).Observe(confidence)
}
