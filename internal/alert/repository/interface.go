package repository

import "context"

//go:generate mockery --name Repository
type Repository interface {
	// Append writes every record of the batch as a new row. It never updates
	// or deduplicates against rows from earlier runs.
	Append(ctx context.Context, opts AppendOptions) (int, error)
}
