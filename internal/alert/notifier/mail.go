package notifier

import (
	"context"

	"anomaly-srv/internal/alert"
	"anomaly-srv/pkg/mail"
)

type mailNotifier struct {
	mailer mail.Mailer
}

// NewMail sends notifications as an HTML mail with the CSV attached.
func NewMail(m mail.Mailer) alert.Notifier {
	return &mailNotifier{mailer: m}
}

func (n *mailNotifier) Channel() string { return ChannelEmail }

func (n *mailNotifier) Send(ctx context.Context, note alert.Notification) error {
	return n.mailer.Send(ctx, mail.Message{
		To:      recipients(note.Recipient),
		Subject: note.Subject,
		Text:    note.Summary + "\n\n" + note.Text,
		HTML:    note.HTML,
		Attachments: []mail.Attachment{{
			Filename:    note.Attachment.Filename,
			ContentType: note.Attachment.ContentType,
			Data:        note.Attachment.Data,
		}},
	})
}
