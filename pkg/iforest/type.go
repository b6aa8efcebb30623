package iforest

// Options tunes tree construction. Zero values fall back to the defaults.
type Options struct {
	Trees      int
	SampleSize int
	Seed       int64
	MinRows    int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Trees:      DefaultTrees,
		SampleSize: DefaultSampleSize,
		Seed:       DefaultSeed,
		MinRows:    DefaultMinRows,
	}
}

func (o Options) withDefaults() Options {
	if o.Trees <= 0 {
		o.Trees = DefaultTrees
	}
	if o.SampleSize <= 0 {
		o.SampleSize = DefaultSampleSize
	}
	if o.MinRows <= 0 {
		o.MinRows = DefaultMinRows
	}
	return o
}

// Model is a fitted isolation forest together with the threshold implied by
// its sensitivity. A Model is immutable and safe for concurrent scoring.
type Model struct {
	trees       []*node
	sampleSize  int
	width       int
	sensitivity float64
	threshold   float64
	seed        int64
}

type node struct {
	size  int
	dim   int
	split float64
	left  *node
	right *node
}

func (n *node) leaf() bool {
	return n.left == nil
}
