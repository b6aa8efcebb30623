package alert

import (
	"time"

	"anomaly-srv/internal/model"
)

// Batch is the set of records flagged anomalous in one run. Build it with
// NewBatch and do not modify it afterwards.
type Batch struct {
	RunID      string
	Mode       string
	Header     []string
	Records    []model.ScoredRecord
	InsertedAt time.Time
}

// NewBatch copies header and flagged so later changes by the caller cannot
// leak into the batch.
func NewBatch(runID, mode string, header []string, flagged []model.ScoredRecord, insertedAt time.Time) Batch {
	return Batch{
		RunID:      runID,
		Mode:       mode,
		Header:     append([]string(nil), header...),
		Records:    append([]model.ScoredRecord(nil), flagged...),
		InsertedAt: insertedAt.UTC(),
	}
}

func (b Batch) Len() int    { return len(b.Records) }
func (b Batch) Empty() bool { return len(b.Records) == 0 }

// Status of one pipeline step.
type Status string

const (
	StatusSkipped   Status = "skipped"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// StepResult reports one side effect.
type StepResult struct {
	Status    Status
	Err       error
	Retryable bool
	// Rows appended (persistence) or records reported (notification).
	Rows int
}

// Outcome carries independent results for persistence and notification.
type Outcome struct {
	Persistence  StepResult
	Notification StepResult
}

// NoOp is true when the batch was empty and nothing was attempted.
func (o Outcome) NoOp() bool {
	return o.Persistence.Status == StatusSkipped && o.Notification.Status == StatusSkipped
}

// Succeeded is true when no step failed.
func (o Outcome) Succeeded() bool {
	return o.Persistence.Status != StatusFailed && o.Notification.Status != StatusFailed
}

// Partial is true when exactly one step failed.
func (o Outcome) Partial() bool {
	return (o.Persistence.Status == StatusFailed) != (o.Notification.Status == StatusFailed)
}

// Notification is the single summary message sent for a batch.
type Notification struct {
	RunID     string
	Recipient string
	Subject   string
	Summary   string
	Count     int
	// Text is a fixed-width table of the batch; HTML the same table as markup.
	Text       string
	HTML       string
	Attachment Attachment
}

// Attachment is a machine-readable export of the batch.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}
