package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"anomaly-srv/internal/model"
)

// Columns appended to every exported row.
const (
	ColumnAnomalyScore  = "anomaly_score"
	ColumnAnomalyFlag   = "anomaly_flag"
	ColumnInsertionTime = "insertion_time"
)

// WriteScored writes the original columns of each scored record followed by
// anomaly_score and anomaly_flag (0/1).
func WriteScored(w io.Writer, header []string, scored []model.ScoredRecord) error {
	cw := csv.NewWriter(w)

	out := append(append([]string{}, header...), ColumnAnomalyScore, ColumnAnomalyFlag)
	if err := cw.Write(out); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range scored {
		row := append(append(make([]string, 0, len(s.Record.Raw)+2), s.Record.Raw...), FormatScore(s.Score), FormatFlag(s.Flag))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", s.Index, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatScore renders a score with full precision.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// FormatFlag renders a flag as 0 or 1.
func FormatFlag(flag bool) string {
	if flag {
		return "1"
	}
	return "0"
}
