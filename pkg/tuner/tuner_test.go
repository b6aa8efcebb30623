package tuner

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anomaly-srv/pkg/iforest"
)

// stubEvaluate returns fixed score vectors per sensitivity.
func stubEvaluate(scores map[float64][]float64, errs map[float64]error) evaluateFunc {
	return func(X [][]float64, s float64, opts iforest.Options) (*iforest.Model, []float64, error) {
		if err, ok := errs[s]; ok {
			return nil, nil, err
		}
		return nil, scores[s], nil
	}
}

// spread returns 21 evenly spaced values from 0 to width.
func spread(width float64) []float64 {
	out := make([]float64, 21)
	for i := range out {
		out[i] = width * float64(i) / 20
	}
	return out
}

func TestLinspace(t *testing.T) {
	got := DefaultCandidates()
	require.Len(t, got, 10)
	assert.InDelta(t, 0.01, got[0], 1e-12)
	assert.InDelta(t, 0.05, got[4], 1e-12)
	assert.Equal(t, 0.10, got[9])

	assert.Nil(t, Linspace(0, 1, 0))
	assert.Equal(t, []float64{0.3}, Linspace(0.3, 0.9, 1))
}

func TestSeparation(t *testing.T) {
	assert.InDelta(t, 9.0, Separation(spread(10)), 1e-12)
	assert.Equal(t, 0.0, Separation([]float64{2, 2, 2}))
}

func TestSearchPicksLargestSeparation(t *testing.T) {
	candidates := []float64{0.1, 0.2, 0.3}
	opts := Options{evaluate: stubEvaluate(map[float64][]float64{
		0.1: spread(1),
		0.2: spread(3),
		0.3: spread(2),
	}, nil)}

	res, err := Search(context.Background(), nil, candidates, opts)
	require.NoError(t, err)
	assert.Equal(t, 0.2, res.Sensitivity)
	assert.InDelta(t, 2.7, res.Separation, 1e-12)
	assert.Len(t, res.Flags, 21)
	require.Len(t, res.Evaluations, 3)
	assert.Equal(t, 0.3, res.Evaluations[2].Sensitivity)
}

func TestSearchTieKeepsEarliestCandidate(t *testing.T) {
	candidates := []float64{0.01, 0.02, 0.03, 0.04}
	opts := Options{Workers: 4, evaluate: stubEvaluate(map[float64][]float64{
		0.01: spread(1),
		0.02: spread(5),
		0.03: spread(5),
		0.04: spread(5),
	}, nil)}

	for i := 0; i < 20; i++ {
		res, err := Search(context.Background(), nil, candidates, opts)
		require.NoError(t, err)
		assert.Equal(t, 0.02, res.Sensitivity)
	}
}

func TestSearchEliminatesInsufficientData(t *testing.T) {
	candidates := []float64{0.01, 0.02}
	opts := Options{evaluate: stubEvaluate(
		map[float64][]float64{0.02: spread(1)},
		map[float64]error{0.01: &iforest.InsufficientDataError{Rows: 3, Min: 8}},
	)}

	res, err := Search(context.Background(), nil, candidates, opts)
	require.NoError(t, err)
	assert.Equal(t, 0.02, res.Sensitivity)
	assert.ErrorIs(t, res.Evaluations[0].Err, iforest.ErrInsufficientData)
}

func TestSearchNoSeparableModel(t *testing.T) {
	tests := []struct {
		name           string
		scores         map[float64][]float64
		errs           map[float64]error
		wantEliminated int
	}{
		{
			name:   "all flat",
			scores: map[float64][]float64{0.1: {1, 1, 1}, 0.2: {0, 0, 0}},
		},
		{
			name: "all eliminated",
			errs: map[float64]error{
				0.1: &iforest.InsufficientDataError{Rows: 2, Min: 8},
				0.2: &iforest.InsufficientDataError{Rows: 2, Min: 8},
			},
			wantEliminated: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Search(context.Background(), nil, []float64{0.1, 0.2}, Options{evaluate: stubEvaluate(tt.scores, tt.errs)})
			require.ErrorIs(t, err, ErrNoSeparableModel)
			var ne *NoSeparableModelError
			require.ErrorAs(t, err, &ne)
			assert.Equal(t, 2, ne.Tried)
			assert.Equal(t, tt.wantEliminated, ne.Eliminated)
		})
	}
}

func TestSearchAbortsOnOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	opts := Options{evaluate: stubEvaluate(
		map[float64][]float64{0.1: spread(1)},
		map[float64]error{0.2: boom},
	)}
	_, err := Search(context.Background(), nil, []float64{0.1, 0.2}, opts)
	assert.ErrorIs(t, err, boom)
}

func TestSearchNoCandidates(t *testing.T) {
	_, err := Search(context.Background(), nil, nil, Options{})
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Search(ctx, nil, DefaultCandidates(), Options{evaluate: stubEvaluate(nil, nil)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchRespectsWorkerLimit(t *testing.T) {
	var (
		mu      sync.Mutex
		running int
		peak    int
	)
	opts := Options{Workers: 2, evaluate: func(X [][]float64, s float64, _ iforest.Options) (*iforest.Model, []float64, error) {
		mu.Lock()
		running++
		if running > peak {
			peak = running
		}
		mu.Unlock()
		defer func() {
			mu.Lock()
			running--
			mu.Unlock()
		}()
		return nil, spread(s), nil
	}}

	_, err := Search(context.Background(), nil, DefaultCandidates(), opts)
	require.NoError(t, err)
	assert.LessOrEqual(t, peak, 2)
}

func TestSearchWithEnsemble(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	X := make([][]float64, 0, 101)
	for i := 0; i < 100; i++ {
		X = append(X, []float64{rng.NormFloat64(), rng.NormFloat64()})
	}
	X = append(X, []float64{9, 9})

	res, err := Search(context.Background(), X, DefaultCandidates(), Options{Ensemble: iforest.DefaultOptions()})
	require.NoError(t, err)
	require.NotNil(t, res.Model)
	assert.Equal(t, res.Sensitivity, res.Model.Sensitivity())
	assert.True(t, res.Flags[100])
	for _, e := range res.Evaluations {
		assert.LessOrEqual(t, e.Separation, res.Separation)
	}
}
