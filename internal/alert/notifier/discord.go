package notifier

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"anomaly-srv/internal/alert"
	"anomaly-srv/pkg/discord"
)

const codeFence = "```"

type discordNotifier struct {
	client discord.IDiscord
	now    func() time.Time
}

// NewDiscord posts an embed with the text table and attaches the CSV.
func NewDiscord(client discord.IDiscord) alert.Notifier {
	return &discordNotifier{client: client, now: time.Now}
}

func (n *discordNotifier) Channel() string { return ChannelDiscord }

func (n *discordNotifier) Send(ctx context.Context, note alert.Notification) error {
	opts := discord.MessageOptions{
		Type:        discord.MessageTypeWarning,
		Title:       note.Subject,
		Description: description(note),
		Fields: []discord.EmbedField{
			{Name: "Run", Value: note.RunID, Inline: true},
			{Name: "Anomalies", Value: strconv.Itoa(note.Count), Inline: true},
		},
		Timestamp: n.now(),
	}
	if len(note.Attachment.Data) > discord.MaxFileSize {
		// Webhooks reject the upload; post the embed alone.
		opts.Footer = &discord.EmbedFooter{
			Text: fmt.Sprintf("%s omitted: %d bytes exceeds the webhook upload limit", note.Attachment.Filename, len(note.Attachment.Data)),
		}
		return n.client.SendEmbed(ctx, opts)
	}
	return n.client.SendEmbedWithFile(ctx, opts, discord.File{
		Name:        note.Attachment.Filename,
		ContentType: note.Attachment.ContentType,
		Data:        note.Attachment.Data,
	})
}

// description fits the summary and as much of the table as the embed allows;
// the attachment always carries the full batch.
func description(note alert.Notification) string {
	head := note.Summary + "\n"
	room := discord.MaxDescriptionLen - len(head) - 2*len(codeFence) - 2
	if room <= 0 {
		return note.Summary
	}
	table := note.Text
	if len(table) > room {
		table = cutAtLine(table, room)
	}
	if table == "" {
		return note.Summary
	}
	return head + codeFence + "\n" + table + codeFence
}

func cutAtLine(s string, max int) string {
	s = s[:max]
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '\n' {
			return s[:i+1]
		}
	}
	return ""
}
