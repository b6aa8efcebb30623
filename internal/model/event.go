package model

import "time"

// EventRecord is one row of the input dataset. It is never mutated after load.
type EventRecord struct {
	ID           string
	ActorID      string
	Activity     string
	Timestamp    time.Time
	HasTimestamp bool
	Categorical  map[string]string
	Numeric      map[string]float64

	// Raw is the original CSV row, aligned with Dataset.Header.
	Raw []string
}

// Dataset is a snapshot of event records loaded under a resolved schema.
type Dataset struct {
	Header  []string
	Schema  Schema
	Records []EventRecord
}

// Len returns the number of records.
func (d Dataset) Len() int {
	return len(d.Records)
}

// ScoredRecord ties a record to its anomaly score and flag.
type ScoredRecord struct {
	Index  int
	Record EventRecord
	Score  float64
	Flag   bool
}

// Flagged returns the scored records whose flag is set, in input order.
func Flagged(scored []ScoredRecord) []ScoredRecord {
	var out []ScoredRecord
	for _, s := range scored {
		if s.Flag {
			out = append(out, s)
		}
	}
	return out
}

// Detection modes.
const (
	// ModeBatch scores an open-schema activity log and searches the sensitivity.
	ModeBatch = "batch"
	// ModeLogin scores login events only, at a fixed sensitivity.
	ModeLogin = "login"
)
