package metrics

import "time"

// Metrics records what one detection run did. The detector exits after a
// run, so the registry is written to a node-exporter textfile instead of
// being scraped.
type Metrics interface {
	IncRun(mode, status string)
	AddRecords(mode string, total, anomalies int)
	SetSelection(mode string, sensitivity, separation float64)
	ObserveStage(stage string, d time.Duration)
	IncAlertStep(step, status string)

	// WriteTextfile atomically writes every collected metric to path.
	WriteTextfile(path string) error
}
