package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"anomaly-srv/internal/alert"
	"anomaly-srv/internal/dataset"
	"anomaly-srv/internal/detection"
	"anomaly-srv/internal/export"
	"anomaly-srv/internal/feature"
	"anomaly-srv/internal/model"
	"anomaly-srv/pkg/metrics"
)

const (
	runFailed    = "failed"
	runSucceeded = "succeeded"
)

func (uc *implUseCase) load(ctx context.Context, r io.Reader, schema model.Schema) (model.Dataset, error) {
	if r == nil {
		return model.Dataset{}, errors.New("input source is required")
	}
	done := uc.stage(metrics.StageLoad)
	defer done()
	return dataset.Load(r, schema)
}

func (uc *implUseCase) encode(ctx context.Context, ds model.Dataset) (feature.Matrix, error) {
	done := uc.stage(metrics.StageEncode)
	defer done()

	X, st, err := feature.FitTransform(ds)
	if err != nil {
		return nil, err
	}
	uc.l.Debugf(ctx, "internal.detection.usecase.encode: %d records, %d features", len(X), st.Width())
	return X, nil
}

// collect pairs each record with its score and flag, keeping input order.
func (uc *implUseCase) collect(res detection.RunResult, ds model.Dataset, scores []float64, flags []bool) detection.RunResult {
	res.Header = ds.Header
	res.Total = ds.Len()
	res.Scored = make([]model.ScoredRecord, ds.Len())
	res.Anomalies = 0
	for i, rec := range ds.Records {
		res.Scored[i] = model.ScoredRecord{Index: i, Record: rec, Score: scores[i], Flag: flags[i]}
		if flags[i] {
			res.Anomalies++
		}
	}
	res.Status = detection.StatusNoAnomalies
	if res.Anomalies > 0 {
		res.Status = detection.StatusAnomaliesFound
	}
	return res
}

func (uc *implUseCase) publish(ctx context.Context, res detection.RunResult) (export.Output, error) {
	if uc.exporter == nil {
		return export.Output{}, nil
	}
	done := uc.stage(metrics.StageExport)
	defer done()
	return uc.exporter.Publish(ctx, export.PublishInput{
		RunID:    res.RunID,
		FileName: export.FileName(res.Mode),
		Header:   res.Header,
		Records:  res.Scored,
	})
}

func (uc *implUseCase) finish(ctx context.Context, res detection.RunResult) {
	if uc.metrics != nil {
		uc.metrics.IncRun(res.Mode, runSucceeded)
		uc.metrics.AddRecords(res.Mode, res.Total, res.Anomalies)
		uc.metrics.SetSelection(res.Mode, res.Sensitivity, res.Separation)
	}
	uc.l.Infof(ctx, "internal.detection.usecase: %s run finished: total records=%d, detected anomalies=%d, status=%s",
		res.Mode, res.Total, res.Anomalies, res.Status)
}

func (uc *implUseCase) fail(ctx context.Context, res detection.RunResult, step string, err error) (detection.RunResult, error) {
	if uc.metrics != nil {
		uc.metrics.IncRun(res.Mode, runFailed)
	}
	uc.l.Errorf(ctx, "internal.detection.usecase.%s: %s: %v", step, detection.Kind(err), err)
	return res, fmt.Errorf("%s: %w", step, err)
}

func (uc *implUseCase) logOutcome(ctx context.Context, out alert.Outcome) {
	switch {
	case out.NoOp():
		uc.l.Infof(ctx, "internal.detection.usecase.RunLogin: no anomalies, alert pipeline skipped")
	case out.Succeeded():
		uc.l.Infof(ctx, "internal.detection.usecase.RunLogin: stored %d rows and sent notification",
			out.Persistence.Rows)
	default:
		uc.l.Warnf(ctx, "internal.detection.usecase.RunLogin: alert pipeline degraded: persistence=%s notification=%s",
			out.Persistence.Status, out.Notification.Status)
	}
}

func (uc *implUseCase) stage(name string) func() {
	start := time.Now()
	return func() {
		if uc.metrics != nil {
			uc.metrics.ObserveStage(name, time.Since(start))
		}
	}
}
