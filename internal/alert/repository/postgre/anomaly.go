package postgres

import (
	"context"
	"fmt"

	"anomaly-srv/internal/alert/repository"
	postgresPkg "anomaly-srv/pkg/postgre"
)

func (r *implRepository) Append(ctx context.Context, opts repository.AppendOptions) (n int, err error) {
	if opts.Batch.Empty() {
		return 0, nil
	}
	if err := postgresPkg.IsUUID(opts.Batch.RunID); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Append.IsUUID: %v", err)
		return 0, fmt.Errorf("%w: %v", repository.ErrInvalidRunID, err)
	}
	schema, table, err := postgresPkg.SplitTableName(opts.Table)
	if err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Append.SplitTableName: %v", err)
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Append.BeginTx: %v", err)
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, buildCreateTableQuery(schema, table)); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Append.CreateTable: %v", err)
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, buildCopyQuery(schema, table))
	if err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Append.PrepareCopy: %v", err)
		return 0, err
	}

	for _, rec := range opts.Batch.Records {
		row, rowErr := buildRow(opts.Batch, rec)
		if rowErr != nil {
			_ = stmt.Close()
			err = rowErr
			r.l.Errorf(ctx, "internal.alert.repository.postgres.Append.buildRow: %v", err)
			return 0, err
		}
		if _, err = stmt.ExecContext(ctx, row...); err != nil {
			_ = stmt.Close()
			r.l.Errorf(ctx, "internal.alert.repository.postgres.Append.CopyRow: %v", err)
			return 0, err
		}
	}
	// An argument-less Exec flushes the COPY buffer.
	if _, err = stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Append.CopyFlush: %v", err)
		return 0, err
	}
	if err = stmt.Close(); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Append.CloseCopy: %v", err)
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Append.Commit: %v", err)
		return 0, err
	}
	return opts.Batch.Len(), nil
}
