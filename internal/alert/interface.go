package alert

import "context"

// UseCase hands one run's alert batch to the record store and the
// notification channel.
type UseCase interface {
	// Process never returns an error: each side effect reports its own
	// status in the Outcome.
	Process(ctx context.Context, batch Batch) Outcome
}

// Notifier delivers a notification over one channel (mail, Discord, Redis).
type Notifier interface {
	Channel() string
	Send(ctx context.Context, n Notification) error
}
