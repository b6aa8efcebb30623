package mail

import (
	"context"
)

// Mailer delivers a single message over SMTP.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New validates cfg and returns an SMTP mailer.
func New(cfg Config) (Mailer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &smtpMailer{cfg: cfg, dial: dialContext}, nil
}
