package detection

import "context"

// UseCase runs one detection pass over an input snapshot.
type UseCase interface {
	// RunBatch scores an activity log and picks the sensitivity by search.
	RunBatch(ctx context.Context, input BatchInput) (RunResult, error)
	// RunLogin scores login events at the fixed login sensitivity and hands
	// the anomalies to the alert pipeline.
	RunLogin(ctx context.Context, input LoginInput) (RunResult, error)
}
