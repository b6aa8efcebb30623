package discord

import "errors"

var (
	errWebhookRequired = errors.New("discord: webhook id and token are required")
	ErrFileTooLarge    = errors.New("discord: attachment exceeds webhook size limit")
)

// statusError is returned for non-2xx webhook responses.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return "discord webhook returned status " + itoa(e.code) + ": " + e.body
}

// retryable reports whether resending can help: rate limits and server errors.
func (e *statusError) retryable() bool {
	return e.code == 429 || e.code >= 500
}
