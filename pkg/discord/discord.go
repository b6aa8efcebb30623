package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"
)

// request is a prepared webhook body; build is called once per attempt.
type request struct {
	contentType string
	body        []byte
}

func (d *discordImpl) webhookURL() string {
	return fmt.Sprintf("%s/%s/%s", d.config.BaseURL, d.webhook.id, d.webhook.token)
}

func (d *discordImpl) Close() error {
	if d.client != nil {
		d.client.CloseIdleConnections()
	}
	return nil
}

func (d *discordImpl) SendEmbed(ctx context.Context, options MessageOptions) error {
	payload, err := d.buildPayload(options)
	if err != nil {
		return err
	}
	req, err := jsonRequest(payload)
	if err != nil {
		return err
	}
	return d.sendWithRetry(ctx, req)
}

func (d *discordImpl) SendEmbedWithFile(ctx context.Context, options MessageOptions, file File) error {
	if len(file.Data) > MaxFileSize {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, len(file.Data))
	}
	payload, err := d.buildPayload(options)
	if err != nil {
		return err
	}
	req, err := multipartRequest(payload, file)
	if err != nil {
		return err
	}
	return d.sendWithRetry(ctx, req)
}

func (d *discordImpl) buildPayload(options MessageOptions) (*WebhookPayload, error) {
	embed := Embed{
		Title:       truncateString(options.Title, MaxTitleLen),
		Description: truncateString(options.Description, MaxDescriptionLen),
		Color:       colorForType(options.Type),
		Fields:      options.Fields,
		Footer:      options.Footer,
	}
	if !options.Timestamp.IsZero() {
		embed.Timestamp = options.Timestamp.Format(time.RFC3339)
	}
	if err := validateEmbedLength(&embed); err != nil {
		return nil, err
	}

	payload := &WebhookPayload{
		Embeds:    []Embed{embed},
		Username:  options.Username,
		AvatarURL: options.AvatarURL,
	}
	if payload.Username == "" {
		payload.Username = d.config.DefaultUsername
	}
	if payload.AvatarURL == "" {
		payload.AvatarURL = d.config.DefaultAvatarURL
	}
	return payload, nil
}

func jsonRequest(payload *WebhookPayload) (request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return request{contentType: "application/json", body: body}, nil
}

// multipartRequest encodes payload_json plus files[0] as Discord expects for uploads.
func multipartRequest(payload *WebhookPayload, file File) (request, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := mw.WriteField("payload_json", string(payloadJSON)); err != nil {
		return request{}, err
	}

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files[0]"; filename=%q`, file.Name))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return request{}, err
	}
	if _, err := part.Write(file.Data); err != nil {
		return request{}, err
	}
	if err := mw.Close(); err != nil {
		return request{}, err
	}
	return request{contentType: mw.FormDataContentType(), body: buf.Bytes()}, nil
}

func (d *discordImpl) sendWithRetry(ctx context.Context, req request) error {
	var lastErr error
	for attempt := 0; attempt <= d.config.RetryCount; attempt++ {
		if attempt > 0 {
			if d.l != nil {
				d.l.Infof(ctx, "pkg.discord.sendWithRetry: retrying attempt %d/%d", attempt, d.config.RetryCount)
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("giving up after %d attempts: %w", attempt, ctx.Err())
			case <-time.After(d.config.RetryDelay):
			}
		}

		err := d.sendRequest(ctx, req)
		if err == nil {
			return nil
		}
		lastErr = err
		if d.l != nil {
			d.l.Warnf(ctx, "pkg.discord.sendWithRetry: attempt %d failed: %v", attempt+1, err)
		}

		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return fmt.Errorf("failed after %d attempts, last error: %w", d.config.RetryCount+1, lastErr)
}

func (d *discordImpl) sendRequest(ctx context.Context, req request) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL(), bytes.NewReader(req.body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", req.contentType)
	httpReq.Header.Set("User-Agent", UserAgent)

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return &statusError{code: resp.StatusCode, body: string(body)}
	}
	return nil
}

func validateEmbedLength(embed *Embed) error {
	total := len(embed.Title) + len(embed.Description)
	for _, f := range embed.Fields {
		total += len(f.Name) + len(f.Value)
	}
	if total > MaxEmbedLength {
		return fmt.Errorf("embed too long: %d characters (max: %d)", total, MaxEmbedLength)
	}
	return nil
}

func colorForType(msgType MessageType) int {
	switch msgType {
	case MessageTypeSuccess:
		return ColorSuccess
	case MessageTypeWarning:
		return ColorWarning
	case MessageTypeError:
		return ColorError
	default:
		return ColorInfo
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
