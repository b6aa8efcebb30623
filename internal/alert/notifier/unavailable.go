package notifier

import (
	"context"
	"fmt"

	"anomaly-srv/internal/alert"
)

type unavailableNotifier struct {
	channel string
	cause   error
}

// NewUnavailable stands in for a channel that could not be set up. Every
// Send fails with cause, so the pipeline reports the notification step as
// failed instead of the run aborting.
func NewUnavailable(channel string, cause error) alert.Notifier {
	return &unavailableNotifier{channel: channel, cause: cause}
}

func (n *unavailableNotifier) Channel() string { return n.channel }

func (n *unavailableNotifier) Send(ctx context.Context, note alert.Notification) error {
	return fmt.Errorf("%s channel unavailable: %w", n.channel, n.cause)
}
