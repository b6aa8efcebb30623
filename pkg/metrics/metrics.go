package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func (m *implMetrics) IncRun(mode, status string) {
	m.runs.WithLabelValues(mode, status).Inc()
}

func (m *implMetrics) AddRecords(mode string, total, anomalies int) {
	m.records.WithLabelValues(mode).Add(float64(total))
	m.anomalies.WithLabelValues(mode).Add(float64(anomalies))
}

func (m *implMetrics) SetSelection(mode string, sensitivity, separation float64) {
	m.sensitivity.WithLabelValues(mode).Set(sensitivity)
	m.separation.WithLabelValues(mode).Set(separation)
}

func (m *implMetrics) ObserveStage(stage string, d time.Duration) {
	m.stages.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *implMetrics) IncAlertStep(step, status string) {
	m.alertSteps.WithLabelValues(step, status).Inc()
}

func (m *implMetrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
