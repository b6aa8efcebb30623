package detection

import (
	"context"
	"errors"

	"anomaly-srv/internal/model"
	"anomaly-srv/pkg/iforest"
	"anomaly-srv/pkg/tuner"
)

var (
	ErrNoLoginRecords = errors.New("no login records in input")
	ErrNoRecords      = errors.New("input has no records")
)

// Kind names the failure class of a run error for logs and exit diagnostics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrSchema):
		return "schema_error"
	case errors.Is(err, iforest.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, tuner.ErrNoSeparableModel):
		return "no_separable_model"
	case errors.Is(err, ErrNoLoginRecords):
		return "no_login_records"
	case errors.Is(err, ErrNoRecords):
		return "no_records"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
