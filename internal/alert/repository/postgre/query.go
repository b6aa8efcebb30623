package postgres

import (
	"encoding/json"
	"fmt"

	"anomaly-srv/internal/alert"
	"anomaly-srv/internal/model"

	"github.com/lib/pq"
)

var columns = []string{
	"run_id",
	"mode",
	"record_id",
	"actor_id",
	"activity_type",
	"event_time",
	"attributes",
	"anomaly_score",
	"anomaly_flag",
	"insertion_time",
}

func qualifiedName(schema, table string) string {
	if schema == "" {
		return pq.QuoteIdentifier(table)
	}
	return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(table)
}

func buildCreateTableQuery(schema, table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id             BIGSERIAL PRIMARY KEY,
	run_id         UUID NOT NULL,
	mode           TEXT NOT NULL,
	record_id      TEXT,
	actor_id       TEXT,
	activity_type  TEXT,
	event_time     TIMESTAMPTZ,
	attributes     JSONB NOT NULL,
	anomaly_score  DOUBLE PRECISION NOT NULL,
	anomaly_flag   SMALLINT NOT NULL,
	insertion_time TIMESTAMPTZ NOT NULL
)`, qualifiedName(schema, table))
}

func buildCopyQuery(schema, table string) string {
	if schema == "" {
		return pq.CopyIn(table, columns...)
	}
	return pq.CopyInSchema(schema, table, columns...)
}

// buildRow maps one scored record to the COPY column order. attributes keeps
// the complete original row keyed by header, so the open schema survives.
func buildRow(b alert.Batch, rec model.ScoredRecord) ([]any, error) {
	attrs := make(map[string]string, len(b.Header))
	for i, h := range b.Header {
		if i < len(rec.Record.Raw) {
			attrs[h] = rec.Record.Raw[i]
		}
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return nil, err
	}

	var eventTime any
	if rec.Record.HasTimestamp {
		eventTime = rec.Record.Timestamp
	}

	flag := 0
	if rec.Flag {
		flag = 1
	}

	return []any{
		b.RunID,
		b.Mode,
		nullable(rec.Record.ID),
		nullable(rec.Record.ActorID),
		nullable(rec.Record.Activity),
		eventTime,
		string(raw),
		rec.Score,
		flag,
		b.InsertedAt,
	}, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
