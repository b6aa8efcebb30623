package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"anomaly-srv/internal/alert"
	"anomaly-srv/pkg/redis"
)

// Message is the JSON document published on the alert channel.
type Message struct {
	RunID      string `json:"run_id"`
	Recipient  string `json:"recipient"`
	Subject    string `json:"subject"`
	Summary    string `json:"summary"`
	Count      int    `json:"count"`
	Table      string `json:"table"`
	Filename   string `json:"filename"`
	Attachment string `json:"attachment"`
}

type redisNotifier struct {
	client  redis.IRedis
	channel string
}

// NewRedis publishes notifications on a pub/sub channel.
func NewRedis(client redis.IRedis, channel string) alert.Notifier {
	return &redisNotifier{client: client, channel: channel}
}

func (n *redisNotifier) Channel() string { return ChannelRedis }

func (n *redisNotifier) Send(ctx context.Context, note alert.Notification) error {
	body, err := json.Marshal(Message{
		RunID:      note.RunID,
		Recipient:  note.Recipient,
		Subject:    note.Subject,
		Summary:    note.Summary,
		Count:      note.Count,
		Table:      note.Text,
		Filename:   note.Attachment.Filename,
		Attachment: string(note.Attachment.Data),
	})
	if err != nil {
		return fmt.Errorf("marshal alert message: %w", err)
	}

	if _, err := n.client.Publish(ctx, n.channel, body); err != nil {
		return fmt.Errorf("publish on %s: %w", n.channel, err)
	}
	return nil
}
