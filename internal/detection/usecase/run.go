package usecase

import (
	"context"

	"anomaly-srv/internal/alert"
	"anomaly-srv/internal/dataset"
	"anomaly-srv/internal/detection"
	"anomaly-srv/internal/model"
	"anomaly-srv/pkg/iforest"
	"anomaly-srv/pkg/metrics"
	"anomaly-srv/pkg/tuner"
)

func (uc *implUseCase) RunBatch(ctx context.Context, input detection.BatchInput) (detection.RunResult, error) {
	res := detection.RunResult{RunID: input.RunID, Mode: model.ModeBatch}

	ds, err := uc.load(ctx, input.Source, dataset.BatchSchema(input.Categorical, input.Numeric))
	if err != nil {
		return uc.fail(ctx, res, "RunBatch.load", err)
	}
	if ds.Len() == 0 {
		return uc.fail(ctx, res, "RunBatch.load", detection.ErrNoRecords)
	}

	X, err := uc.encode(ctx, ds)
	if err != nil {
		return uc.fail(ctx, res, "RunBatch.encode", err)
	}

	candidates := input.Candidates
	if len(candidates) == 0 {
		candidates = tuner.DefaultCandidates()
	}
	done := uc.stage(metrics.StageModel)
	sel, err := tuner.Search(ctx, X, candidates, tuner.Options{Workers: uc.cfg.Workers, Ensemble: uc.cfg.Ensemble})
	done()
	for _, e := range sel.Evaluations {
		if e.Err != nil {
			uc.l.Warnf(ctx, "internal.detection.usecase.RunBatch.Search: sensitivity %.2f eliminated: %v", e.Sensitivity, e.Err)
			continue
		}
		uc.l.Debugf(ctx, "internal.detection.usecase.RunBatch.Search: sensitivity %.2f separation %.6f", e.Sensitivity, e.Separation)
	}
	res.Evaluations = sel.Evaluations
	if err != nil {
		return uc.fail(ctx, res, "RunBatch.Search", err)
	}
	res.Sensitivity = sel.Sensitivity
	res.Separation = sel.Separation
	uc.l.Infof(ctx, "internal.detection.usecase.RunBatch: selected sensitivity %.2f (separation %.6f)", sel.Sensitivity, sel.Separation)

	res = uc.collect(res, ds, sel.Scores, sel.Flags)

	if res.Export, err = uc.publish(ctx, res); err != nil {
		return uc.fail(ctx, res, "RunBatch.publish", err)
	}

	uc.finish(ctx, res)
	return res, nil
}

func (uc *implUseCase) RunLogin(ctx context.Context, input detection.LoginInput) (detection.RunResult, error) {
	res := detection.RunResult{RunID: input.RunID, Mode: model.ModeLogin, Sensitivity: uc.cfg.LoginSensitivity}

	all, err := uc.load(ctx, input.Source, dataset.LoginSchema())
	if err != nil {
		return uc.fail(ctx, res, "RunLogin.load", err)
	}
	ds := dataset.FilterActivity(all, dataset.ActivityLogin)
	uc.l.Infof(ctx, "internal.detection.usecase.RunLogin: %d of %d records are logins", ds.Len(), all.Len())
	if ds.Len() == 0 {
		return uc.fail(ctx, res, "RunLogin.FilterActivity", detection.ErrNoLoginRecords)
	}

	X, err := uc.encode(ctx, ds)
	if err != nil {
		return uc.fail(ctx, res, "RunLogin.encode", err)
	}

	done := uc.stage(metrics.StageModel)
	m, err := iforest.Fit(X, uc.cfg.LoginSensitivity, uc.cfg.Ensemble)
	if err != nil {
		done()
		return uc.fail(ctx, res, "RunLogin.Fit", err)
	}
	scores := m.Score(X)
	flags := iforest.FlagScores(scores)
	done()
	res.Separation = tuner.Separation(scores)

	res = uc.collect(res, ds, scores, flags)

	if res.Export, err = uc.publish(ctx, res); err != nil {
		return uc.fail(ctx, res, "RunLogin.publish", err)
	}

	if uc.alerts != nil {
		done := uc.stage(metrics.StageAlert)
		batch := alert.NewBatch(res.RunID, res.Mode, res.Header, model.Flagged(res.Scored), uc.now())
		out := uc.alerts.Process(ctx, batch)
		done()
		res.Alert = &out
		uc.logOutcome(ctx, out)
	}

	uc.finish(ctx, res)
	return res, nil
}
