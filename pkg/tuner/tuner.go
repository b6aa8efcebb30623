// Package tuner searches a grid of sensitivities for the isolation forest
// whose scores separate best, measured as the spread between the 95th and
// 5th score percentiles.
package tuner

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"anomaly-srv/pkg/iforest"
)

const (
	lowerPercentile = 5
	upperPercentile = 95
)

// Options configures a search.
type Options struct {
	// Workers bounds how many candidates are fitted at once. 0 means GOMAXPROCS.
	Workers  int
	Ensemble iforest.Options

	evaluate evaluateFunc
}

type evaluateFunc func(X [][]float64, sensitivity float64, opts iforest.Options) (*iforest.Model, []float64, error)

// Evaluation is the outcome of one candidate.
type Evaluation struct {
	Sensitivity float64
	Separation  float64
	Err         error
}

// Result is the winning candidate.
type Result struct {
	Sensitivity float64
	Separation  float64
	Model       *iforest.Model
	Scores      []float64
	Flags       []bool

	// Evaluations holds every candidate in grid order.
	Evaluations []Evaluation
}

// DefaultCandidates returns ten evenly spaced sensitivities from 0.01 to 0.10.
func DefaultCandidates() []float64 {
	return Linspace(0.01, 0.10, 10)
}

// Linspace returns n evenly spaced values from start to end inclusive.
func Linspace(start, end float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = end
	return out
}

// Separation is the 95th minus the 5th percentile of scores.
func Separation(scores []float64) float64 {
	return iforest.Percentile(scores, upperPercentile) - iforest.Percentile(scores, lowerPercentile)
}

type candidate struct {
	model      *iforest.Model
	scores     []float64
	separation float64
	err        error
}

// Search fits one ensemble per candidate (concurrently, each with its own
// trees) and returns the candidate with the strictly greatest separation.
// Ties keep the earlier candidate. Candidates that cannot be fitted because
// of too little data are skipped; if none is left, or all separations are
// zero, a *NoSeparableModelError is returned.
func Search(ctx context.Context, X [][]float64, candidates []float64, opts Options) (Result, error) {
	if len(candidates) == 0 {
		return Result{}, ErrNoCandidates
	}
	evaluate := opts.evaluate
	if evaluate == nil {
		evaluate = fitAndScore
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]candidate, len(candidates))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range candidates {
		i, s := i, s
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			model, scores, err := evaluate(X, s, opts.Ensemble)
			if err != nil {
				if errors.Is(err, iforest.ErrInsufficientData) {
					results[i] = candidate{err: err}
					return nil
				}
				return err
			}
			results[i] = candidate{model: model, scores: scores, separation: Separation(scores)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	best := -1
	eliminated := 0
	res := Result{Evaluations: make([]Evaluation, len(candidates))}
	for i, c := range results {
		res.Evaluations[i] = Evaluation{Sensitivity: candidates[i], Separation: c.separation, Err: c.err}
		if c.err != nil {
			eliminated++
			continue
		}
		if best < 0 || c.separation > results[best].separation {
			best = i
		}
	}

	if best < 0 || !(results[best].separation > 0) {
		return res, &NoSeparableModelError{Tried: len(candidates), Eliminated: eliminated}
	}

	res.Sensitivity = candidates[best]
	res.Separation = results[best].separation
	res.Model = results[best].model
	res.Scores = results[best].scores
	res.Flags = iforest.FlagScores(results[best].scores)
	return res, nil
}

func fitAndScore(X [][]float64, sensitivity float64, opts iforest.Options) (*iforest.Model, []float64, error) {
	model, err := iforest.Fit(X, sensitivity, opts)
	if err != nil {
		return nil, nil, err
	}
	return model, model.Score(X), nil
}
