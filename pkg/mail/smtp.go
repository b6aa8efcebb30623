package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"time"
)

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrRecipientRequired
	}

	body, err := Build(m.cfg.From, msg, time.Now())
	if err != nil {
		return fmt.Errorf("mail: build message: %w", err)
	}

	conn, err := m.dial(ctx, "tcp", m.cfg.addr())
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", m.cfg.addr(), err)
	}
	// closing the conn unblocks any in-flight read once ctx is done
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return m.wrap(ctx, "handshake", err)
	}
	defer c.Close()

	if m.cfg.StartTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
				return m.wrap(ctx, "starttls", err)
			}
		}
	}
	if m.cfg.Username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
			if err := c.Auth(auth); err != nil {
				return m.wrap(ctx, "auth", err)
			}
		}
	}

	if err := c.Mail(m.cfg.From); err != nil {
		return m.wrap(ctx, "mail from", err)
	}
	for _, rcpt := range msg.To {
		if err := c.Rcpt(rcpt); err != nil {
			return m.wrap(ctx, "rcpt to", err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return m.wrap(ctx, "data", err)
	}
	if _, err := w.Write(body); err != nil {
		return m.wrap(ctx, "write body", err)
	}
	if err := w.Close(); err != nil {
		return m.wrap(ctx, "end data", err)
	}
	return c.Quit()
}

// wrap prefers the context error so callers can detect timeouts.
func (m *smtpMailer) wrap(ctx context.Context, stage string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("mail: %s: %w", stage, ctxErr)
	}
	return fmt.Errorf("mail: %s: %w", stage, err)
}
