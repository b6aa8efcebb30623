// Package iforest implements an isolation forest: an ensemble of random
// partitioning trees in which anomalous points need fewer splits to be
// isolated than normal ones.
package iforest

import (
	"math"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Fit builds an ensemble over X and fixes the flagging threshold so that
// about sensitivity of the fitted rows are flagged. Identical
// (X, sensitivity, opts.Seed) always produce the same model.
func Fit(X [][]float64, sensitivity float64, opts Options) (*Model, error) {
	opts = opts.withDefaults()
	if !(sensitivity > 0 && sensitivity < 1) {
		return nil, ErrInvalidSensitivity
	}
	if len(X) < opts.MinRows {
		return nil, &InsufficientDataError{Rows: len(X), Min: opts.MinRows}
	}
	width := len(X[0])
	for _, row := range X {
		if len(row) != width {
			return nil, ErrInconsistentWidth
		}
	}

	sampleSize := opts.SampleSize
	if sampleSize > len(X) {
		sampleSize = len(X)
	}
	heightLimit := int(math.Ceil(math.Log2(float64(sampleSize))))

	m := &Model{
		trees:       make([]*node, opts.Trees),
		sampleSize:  sampleSize,
		width:       width,
		sensitivity: sensitivity,
		seed:        opts.Seed,
	}
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range m.trees {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(treeSeed(opts.Seed, i)))
			idx := rng.Perm(len(X))[:sampleSize]
			sample := make([][]float64, sampleSize)
			for j, k := range idx {
				sample[j] = X[k]
			}
			m.trees[i] = buildTree(sample, 0, heightLimit, rng)
			return nil
		})
	}
	_ = g.Wait()

	m.threshold = Percentile(m.RawScores(X), 100*(1-sensitivity))
	return m, nil
}

// treeSeed derives an independent stream per tree from the ensemble seed.
func treeSeed(seed int64, tree int) int64 {
	return seed*1_000_003 + int64(tree)*7_919
}

func buildTree(X [][]float64, depth, limit int, rng *rand.Rand) *node {
	n := &node{size: len(X)}
	if len(X) <= 1 || depth >= limit {
		return n
	}

	width := len(X[0])
	mins := make([]float64, width)
	maxs := make([]float64, width)
	copy(mins, X[0])
	copy(maxs, X[0])
	for _, row := range X[1:] {
		for d, v := range row {
			if v < mins[d] {
				mins[d] = v
			}
			if v > maxs[d] {
				maxs[d] = v
			}
		}
	}

	var splittable []int
	for d := 0; d < width; d++ {
		if maxs[d] > mins[d] {
			splittable = append(splittable, d)
		}
	}
	if len(splittable) == 0 {
		return n
	}

	dim := splittable[rng.Intn(len(splittable))]
	// split lies in [min, max) so both sides are non-empty with the <= rule.
	split := mins[dim] + rng.Float64()*(maxs[dim]-mins[dim])

	left := make([][]float64, 0, len(X))
	right := make([][]float64, 0, len(X))
	for _, row := range X {
		if row[dim] <= split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	n.dim = dim
	n.split = split
	n.left = buildTree(left, depth+1, limit, rng)
	n.right = buildTree(right, depth+1, limit, rng)
	return n
}

// averagePathLength is c(n), the mean path length of an unsuccessful search
// in a binary search tree of n nodes.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	f := float64(n)
	return 2*(math.Log(f-1)+eulerGamma) - 2*(f-1)/f
}

func pathLength(n *node, x []float64) float64 {
	depth := 0
	for !n.leaf() {
		if x[n.dim] <= n.split {
			n = n.left
		} else {
			n = n.right
		}
		depth++
	}
	return float64(depth) + averagePathLength(n.size)
}

// RawScores returns the isolation score 2^(-E[h(x)]/c(ψ)) of each row, in (0, 1].
func (m *Model) RawScores(X [][]float64) []float64 {
	norm := averagePathLength(m.sampleSize)
	if norm <= 0 {
		norm = 1
	}
	scores := make([]float64, len(X))
	for i, x := range X {
		var sum float64
		for _, t := range m.trees {
			sum += pathLength(t, x)
		}
		scores[i] = math.Pow(2, -(sum/float64(len(m.trees)))/norm)
	}
	return scores
}

// Score returns the anomaly score of each row: the isolation score's margin
// over the threshold divided by the headroom left above it. The threshold
// maps to 0, an immediately isolated point to 1, inliers are negative.
func (m *Model) Score(X [][]float64) []float64 {
	headroom := math.Max(1-m.threshold, minHeadroom)
	scores := m.RawScores(X)
	for i, s := range scores {
		scores[i] = (s - m.threshold) / headroom
	}
	return scores
}

// Flag reports which rows reach the threshold.
func (m *Model) Flag(X [][]float64) []bool {
	return FlagScores(m.Score(X))
}

// FlagScores derives flags from scores produced by Score.
func FlagScores(scores []float64) []bool {
	flags := make([]bool, len(scores))
	for i, s := range scores {
		flags[i] = s >= 0
	}
	return flags
}

// Sensitivity is the anomalous fraction the model was fitted with.
func (m *Model) Sensitivity() float64 { return m.sensitivity }

// Threshold is the isolation score at or above which a row is flagged.
func (m *Model) Threshold() float64 { return m.threshold }

// Seed is the seed the trees were built from.
func (m *Model) Seed() int64 { return m.seed }

// Trees is the ensemble size.
func (m *Model) Trees() int { return len(m.trees) }

// Percentile returns the p-th percentile (0..100) of values using linear
// interpolation between closest ranks. values is not modified.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi >= len(sorted) {
		hi = len(sorted) - 1
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
