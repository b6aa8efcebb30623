package iforest

const (
	DefaultTrees      = 100
	DefaultSampleSize = 256
	DefaultSeed       = 42
	DefaultMinRows    = 8

	eulerGamma = 0.5772156649015329

	// minHeadroom keeps Score finite when the threshold reaches the maximum isolation score.
	minHeadroom = 1e-12
)
