package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"anomaly-srv/internal/model"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Load reads a CSV snapshot with a header row and parses every row under
// schema. Missing required columns and unparsable typed values are reported
// as *model.SchemaError.
func Load(r io.Reader, schema model.Schema) (model.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return model.Dataset{}, &model.SchemaError{Reason: "empty input, header row expected"}
		}
		return model.Dataset{}, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	resolved, err := schema.Resolve(header)
	if err != nil {
		return model.Dataset{}, err
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}

	ds := model.Dataset{Header: header, Schema: resolved}
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Dataset{}, fmt.Errorf("read row %d: %w", row, err)
		}

		rec, err := parseRecord(resolved, index, fields, row)
		if err != nil {
			return model.Dataset{}, err
		}
		ds.Records = append(ds.Records, rec)
	}
	return ds, nil
}

func parseRecord(schema model.Schema, index map[string]int, fields []string, row int) (model.EventRecord, error) {
	rec := model.EventRecord{
		Categorical: map[string]string{},
		Numeric:     map[string]float64{},
		Raw:         fields,
	}

	for _, col := range schema.Columns {
		value := strings.TrimSpace(fields[index[col.Name]])
		switch col.Role {
		case model.RoleID:
			rec.ID = value
		case model.RoleActor:
			rec.ActorID = value
		case model.RoleActivity:
			rec.Activity = value
		case model.RoleTimestamp:
			ts, err := ParseTime(value)
			if err != nil {
				if !col.Required {
					// optional timestamps are coerced to missing
					continue
				}
				return model.EventRecord{}, &model.SchemaError{Column: col.Name, Row: row, Reason: err.Error()}
			}
			rec.Timestamp = ts
			rec.HasTimestamp = true
		case model.RoleCategorical:
			rec.Categorical[col.Name] = value
		case model.RoleNumeric:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return model.EventRecord{}, &model.SchemaError{Column: col.Name, Row: row, Reason: fmt.Sprintf("not a number: %q", value)}
			}
			rec.Numeric[col.Name] = v
		}
	}
	return rec, nil
}

// ParseTime accepts RFC 3339 and the common "YYYY-MM-DD hh:mm:ss" variants.
func ParseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}

// FilterActivity keeps the records whose activity equals activity, ignoring case.
func FilterActivity(ds model.Dataset, activity string) model.Dataset {
	out := model.Dataset{Header: ds.Header, Schema: ds.Schema}
	for _, rec := range ds.Records {
		if strings.EqualFold(rec.Activity, activity) {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}
