package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type implMetrics struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	records     *prometheus.CounterVec
	anomalies   *prometheus.CounterVec
	sensitivity *prometheus.GaugeVec
	separation  *prometheus.GaugeVec
	stages      *prometheus.HistogramVec
	alertSteps  *prometheus.CounterVec
}

// New creates a Metrics backed by its own registry.
func New() Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &implMetrics{
		registry: reg,
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Detection runs by mode and final status.",
		}, []string{"mode", "status"}),
		records: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_scored_total",
			Help:      "Event records scored.",
		}, []string{"mode"}),
		anomalies: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomalies_flagged_total",
			Help:      "Event records flagged anomalous.",
		}, []string{"mode"}),
		sensitivity: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selected_sensitivity",
			Help:      "Sensitivity used for the last run.",
		}, []string{"mode"}),
		separation: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "score_separation",
			Help:      "95th minus 5th percentile of anomaly scores for the last run.",
		}, []string{"mode"}),
		stages: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each run stage.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"stage"}),
		alertSteps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_steps_total",
			Help:      "Alert pipeline step outcomes.",
		}, []string{"step", "status"}),
	}
}
