package repository

import "anomaly-srv/internal/alert"

// AppendOptions contains options for appending an alert batch.
type AppendOptions struct {
	// Table is "table" or "schema.table".
	Table string
	Batch alert.Batch
}
