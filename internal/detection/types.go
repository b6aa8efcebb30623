package detection

import (
	"io"

	"anomaly-srv/internal/alert"
	"anomaly-srv/internal/export"
	"anomaly-srv/internal/model"
	"anomaly-srv/pkg/tuner"
)

// Status summarizes a completed run.
type Status string

const (
	StatusAnomaliesFound Status = "anomalies_found"
	StatusNoAnomalies    Status = "no_anomalies"
)

type BatchInput struct {
	RunID  string
	Source io.Reader
	// Categorical and Numeric name the extra descriptor columns to encode.
	Categorical []string
	Numeric     []string
	// Candidates overrides the default sensitivity grid.
	Candidates []float64
}

type LoginInput struct {
	RunID  string
	Source io.Reader
}

type RunResult struct {
	RunID       string
	Mode        string
	Status      Status
	Sensitivity float64
	Separation  float64
	Total       int
	Anomalies   int
	Header      []string
	Scored      []model.ScoredRecord
	// Evaluations is set for batch runs only.
	Evaluations []tuner.Evaluation
	Export      export.Output
	// Alert is set for login runs only.
	Alert *alert.Outcome
}
