package usecase

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html/template"
	"text/tabwriter"

	"anomaly-srv/internal/alert"
	"anomaly-srv/internal/dataset"
	"anomaly-srv/internal/model"
)

const (
	attachmentName        = "anomalies.csv"
	attachmentContentType = "text/csv"
	timeLayout            = "2006-01-02 15:04:05"
)

var htmlTemplate = template.Must(template.New("alert").Parse(`<h2>{{.Title}}</h2>
<p>{{.Summary}}</p>
<table border="1" cellpadding="4" cellspacing="0">
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
`))

func subject(mode string) string {
	if mode == model.ModeLogin {
		return "Login Anomaly Alert"
	}
	return "Activity Anomaly Alert"
}

func summary(mode string, count int) string {
	if mode == model.ModeLogin {
		return fmt.Sprintf("Detected %d unusual login attempts.", count)
	}
	return fmt.Sprintf("Detected %d unusual activity records.", count)
}

// tableHeader is the batch header plus the columns the detector adds.
func tableHeader(b alert.Batch) []string {
	return append(append([]string{}, b.Header...),
		dataset.ColumnAnomalyScore, dataset.ColumnAnomalyFlag, dataset.ColumnInsertionTime)
}

func tableRows(b alert.Batch) [][]string {
	inserted := b.InsertedAt.Format(timeLayout)
	rows := make([][]string, 0, b.Len())
	for _, rec := range b.Records {
		row := make([]string, 0, len(b.Header)+3)
		for i := range b.Header {
			if i < len(rec.Record.Raw) {
				row = append(row, rec.Record.Raw[i])
			} else {
				row = append(row, "")
			}
		}
		row = append(row, dataset.FormatScore(rec.Score), dataset.FormatFlag(rec.Flag), inserted)
		rows = append(rows, row)
	}
	return rows
}

func buildNotification(b alert.Batch, recipient string) (alert.Notification, error) {
	header := tableHeader(b)
	rows := tableRows(b)

	text, err := renderText(header, rows)
	if err != nil {
		return alert.Notification{}, fmt.Errorf("render text table: %w", err)
	}

	var html bytes.Buffer
	err = htmlTemplate.Execute(&html, struct {
		Title   string
		Summary string
		Header  []string
		Rows    [][]string
	}{subject(b.Mode), summary(b.Mode, b.Len()), header, rows})
	if err != nil {
		return alert.Notification{}, fmt.Errorf("render html table: %w", err)
	}

	data, err := renderCSV(header, rows)
	if err != nil {
		return alert.Notification{}, fmt.Errorf("render csv export: %w", err)
	}

	return alert.Notification{
		RunID:     b.RunID,
		Recipient: recipient,
		Subject:   subject(b.Mode),
		Summary:   summary(b.Mode, b.Len()),
		Count:     b.Len(),
		Text:      text,
		HTML:      html.String(),
		Attachment: alert.Attachment{
			Filename:    attachmentName,
			ContentType: attachmentContentType,
			Data:        data,
		},
	}, nil
}

func renderText(header []string, rows [][]string) (string, error) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	writeLine := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c)
		}
		fmt.Fprintln(tw)
	}
	writeLine(header)
	for _, r := range rows {
		writeLine(r)
	}
	if err := tw.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
