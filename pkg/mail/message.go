package mail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"
	"time"
)

const base64LineLen = 76

// Build renders msg as an RFC 5322 message with a multipart/mixed body.
func Build(from string, msg Message, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	mixed := multipart.NewWriter(&buf)

	header := []struct{ k, v string }{
		{"From", from},
		{"To", strings.Join(msg.To, ", ")},
		{"Subject", mime.QEncoding.Encode("utf-8", msg.Subject)},
		{"Date", now.Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "multipart/mixed; boundary=" + mixed.Boundary()},
	}
	var head bytes.Buffer
	for _, h := range header {
		fmt.Fprintf(&head, "%s: %s\r\n", h.k, h.v)
	}
	head.WriteString("\r\n")

	if err := writeAlternative(mixed, msg); err != nil {
		return nil, err
	}
	for _, a := range msg.Attachments {
		if err := writeAttachment(mixed, a); err != nil {
			return nil, err
		}
	}
	if err := mixed.Close(); err != nil {
		return nil, err
	}

	return append(head.Bytes(), buf.Bytes()...), nil
}

func writeAlternative(mixed *multipart.Writer, msg Message) error {
	var body bytes.Buffer
	alt := multipart.NewWriter(&body)

	if err := writeQuoted(alt, "text/plain; charset=utf-8", msg.Text); err != nil {
		return err
	}
	if msg.HTML != "" {
		if err := writeQuoted(alt, "text/html; charset=utf-8", msg.HTML); err != nil {
			return err
		}
	}
	if err := alt.Close(); err != nil {
		return err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", "multipart/alternative; boundary="+alt.Boundary())
	part, err := mixed.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(body.Bytes())
	return err
}

func writeQuoted(w *multipart.Writer, contentType, content string) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", contentType)
	h.Set("Content-Transfer-Encoding", "quoted-printable")
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := io.WriteString(qp, content); err != nil {
		return err
	}
	return qp.Close()
}

func writeAttachment(w *multipart.Writer, a Attachment) error {
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Type", contentType)
	h.Set("Content-Transfer-Encoding", "base64")
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString(a.Data)
	for len(encoded) > base64LineLen {
		if _, err := io.WriteString(part, encoded[:base64LineLen]+"\r\n"); err != nil {
			return err
		}
		encoded = encoded[base64LineLen:]
	}
	_, err = io.WriteString(part, encoded+"\r\n")
	return err
}
