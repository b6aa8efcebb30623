package iforest

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cluster returns n points around the origin plus the given outliers at the end.
func cluster(n int, outliers ...[]float64) [][]float64 {
	rng := rand.New(rand.NewSource(7))
	X := make([][]float64, 0, n+len(outliers))
	for i := 0; i < n; i++ {
		X = append(X, []float64{rng.NormFloat64() * 0.5, rng.NormFloat64() * 0.5})
	}
	return append(X, outliers...)
}

func TestFitIsDeterministic(t *testing.T) {
	X := cluster(200, []float64{8, 8})

	a, err := Fit(X, 0.05, DefaultOptions())
	require.NoError(t, err)
	b, err := Fit(X, 0.05, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, a.Threshold(), b.Threshold())
	assert.Equal(t, a.Score(X), b.Score(X))
}

func TestSeedChangesTrees(t *testing.T) {
	X := cluster(200, []float64{8, 8})
	opts := DefaultOptions()
	a, err := Fit(X, 0.05, opts)
	require.NoError(t, err)
	opts.Seed = 7
	b, err := Fit(X, 0.05, opts)
	require.NoError(t, err)
	assert.NotEqual(t, a.RawScores(X), b.RawScores(X))
}

func TestOutlierScoresHighest(t *testing.T) {
	X := cluster(300, []float64{10, -10})
	m, err := Fit(X, 0.01, DefaultOptions())
	require.NoError(t, err)

	scores := m.Score(X)
	last := len(X) - 1
	for i := 0; i < last; i++ {
		assert.Less(t, scores[i], scores[last])
	}
	assert.True(t, m.Flag(X)[last])
	assert.LessOrEqual(t, scores[last], 1.0)
}

func TestFlagMatchesSensitivity(t *testing.T) {
	X := cluster(400)
	for _, s := range []float64{0.01, 0.05, 0.1, 0.25} {
		m, err := Fit(X, s, DefaultOptions())
		require.NoError(t, err)
		n := 0
		for _, f := range m.Flag(X) {
			if f {
				n++
			}
		}
		want := s * float64(len(X))
		assert.InDelta(t, want, float64(n), 2, "sensitivity %v", s)
	}
}

func TestFlagsGrowWithSensitivity(t *testing.T) {
	X := cluster(300, []float64{5, 5}, []float64{-6, 4})
	var prevFlags []bool
	var prevRaw []float64
	for _, s := range []float64{0.01, 0.02, 0.05, 0.1, 0.2} {
		m, err := Fit(X, s, DefaultOptions())
		require.NoError(t, err)
		raw := m.RawScores(X)
		scores := m.Score(X)
		flags := FlagScores(scores)

		// a row never stays unflagged while a lower-scoring row is flagged
		for a := range X {
			for b := range X {
				if scores[a] > scores[b] && flags[b] {
					require.True(t, flags[a], "sensitivity %v: row %d flagged but higher-scoring row %d not", s, b, a)
				}
			}
		}
		if prevFlags != nil {
			assert.Equal(t, prevRaw, raw, "trees do not depend on sensitivity")
			for i := range X {
				if prevFlags[i] {
					assert.True(t, flags[i], "sensitivity %v: row %d lost its flag", s, i)
				}
			}
		}
		prevFlags, prevRaw = flags, raw
	}
}

func TestScoreIsZeroAtThreshold(t *testing.T) {
	X := cluster(100)
	m, err := Fit(X, 0.1, DefaultOptions())
	require.NoError(t, err)
	raw := m.RawScores(X)
	scores := m.Score(X)
	for i := range raw {
		if raw[i] == m.Threshold() {
			assert.Equal(t, 0.0, scores[i])
		}
		assert.Equal(t, raw[i] >= m.Threshold(), scores[i] >= 0)
	}
}

func TestFitErrors(t *testing.T) {
	X := cluster(20)

	for _, s := range []float64{0, 1, -0.1, 1.5, math.NaN()} {
		_, err := Fit(X, s, DefaultOptions())
		assert.ErrorIs(t, err, ErrInvalidSensitivity, "sensitivity %v", s)
	}

	_, err := Fit(X[:5], 0.1, DefaultOptions())
	var ie *InsufficientDataError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, 5, ie.Rows)
	assert.Equal(t, DefaultMinRows, ie.Min)
	assert.ErrorIs(t, err, ErrInsufficientData)

	bad := cluster(20)
	bad[3] = []float64{1}
	_, err = Fit(bad, 0.1, DefaultOptions())
	assert.ErrorIs(t, err, ErrInconsistentWidth)
}

func TestConstantDataScoresEqually(t *testing.T) {
	X := make([][]float64, 30)
	for i := range X {
		X[i] = []float64{1, 2}
	}
	m, err := Fit(X, 0.05, DefaultOptions())
	require.NoError(t, err)
	for _, s := range m.Score(X) {
		assert.Equal(t, 0.0, s)
	}
}

func TestAveragePathLength(t *testing.T) {
	assert.Equal(t, 0.0, averagePathLength(0))
	assert.Equal(t, 0.0, averagePathLength(1))
	assert.Equal(t, 1.0, averagePathLength(2))
	assert.InDelta(t, 10.2448, averagePathLength(256), 1e-3)
}

func TestPercentile(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1}, {100, 5}, {50, 3}, {25, 2}, {10, 1.4}, {95, 4.8},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Percentile(values, tt.p), 1e-12, "p=%v", tt.p)
	}
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, values, "input must not be reordered")
	assert.True(t, math.IsNaN(Percentile(nil, 50)))
}
