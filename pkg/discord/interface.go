package discord

import (
	"context"
	"fmt"
	"strings"

	"anomaly-srv/pkg/log"
)

type IDiscord interface {
	SendEmbed(ctx context.Context, options MessageOptions) error
	// SendEmbedWithFile posts the embed and attaches file to the same message.
	SendEmbedWithFile(ctx context.Context, options MessageOptions, file File) error
	Close() error
}

func parseWebhookURL(webhookURL string) (id, token string, err error) {
	webhookURL = strings.TrimSpace(webhookURL)
	prefix := defaultBaseURL + "/"
	if !strings.HasPrefix(webhookURL, prefix) {
		return "", "", fmt.Errorf("discord: invalid webhook URL format")
	}
	rest := strings.TrimPrefix(webhookURL, prefix)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("discord: webhook URL must be .../webhooks/{id}/{token}")
	}
	return parts[0], parts[1], nil
}

// New builds a client from a full webhook URL.
func New(l log.Logger, webhookURL string) (IDiscord, error) {
	if webhookURL == "" {
		return nil, errWebhookRequired
	}
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(l, id, token, DefaultConfig())
}
