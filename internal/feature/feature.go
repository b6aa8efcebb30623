// Package feature turns event records into the numeric matrix the outlier
// ensemble consumes: one-hot categorical columns followed by standardized
// numeric columns, including hour-of-day and day-of-week derived from the
// record timestamp. Identifier and actor columns never become features.
// Activity labels are compared case-insensitively, as the login filter does.
package feature

import (
	"math"
	"sort"
	"strings"

	"anomaly-srv/internal/model"
)

// Names of the derived temporal features.
const (
	FeatureHour      = "hour"
	FeatureDayOfWeek = "day_of_week"
)

// Matrix is one feature vector per record, in record order.
type Matrix [][]float64

// State is the fitted encoding: category indexes and scaling statistics.
// The same State must be used for every Transform of a run.
type State struct {
	categorical []categoricalColumn
	numeric     []numericColumn
	names       []string
}

type categoricalColumn struct {
	name       string
	activity   bool
	categories []string
	index      map[string]int
}

type numericColumn struct {
	name  string
	mean  float64
	scale float64
}

// Width is the length of every encoded vector.
func (s *State) Width() int {
	return len(s.names)
}

// Names returns the feature names in vector order, e.g. "location=Paris" or "hour".
func (s *State) Names() []string {
	return append([]string(nil), s.names...)
}

// FitTransform fits the encoding on ds and encodes ds with it.
func FitTransform(ds model.Dataset) (Matrix, *State, error) {
	st, err := fit(ds)
	if err != nil {
		return nil, nil, err
	}
	m, err := Transform(ds.Records, st)
	if err != nil {
		return nil, nil, err
	}
	return m, st, nil
}

func fit(ds model.Dataset) (*State, error) {
	st := &State{}

	var catCols []categoricalColumn
	if col, ok := ds.Schema.Column(model.RoleActivity); ok {
		catCols = append(catCols, categoricalColumn{name: col.Name, activity: true})
	}
	for _, name := range ds.Schema.Names(model.RoleCategorical) {
		catCols = append(catCols, categoricalColumn{name: name})
	}

	for _, c := range catCols {
		seen := map[string]bool{}
		for i, rec := range ds.Records {
			v, err := categoricalValue(rec, c, i)
			if err != nil {
				return nil, err
			}
			seen[v] = true
		}
		c.categories = make([]string, 0, len(seen))
		for v := range seen {
			c.categories = append(c.categories, v)
		}
		sort.Strings(c.categories)
		c.index = make(map[string]int, len(c.categories))
		for i, v := range c.categories {
			c.index[v] = i
			st.names = append(st.names, c.name+"="+v)
		}
		st.categorical = append(st.categorical, c)
	}

	numNames := ds.Schema.Names(model.RoleNumeric)
	if _, ok := ds.Schema.Column(model.RoleTimestamp); ok {
		for _, name := range numNames {
			if name == FeatureHour || name == FeatureDayOfWeek {
				return nil, &model.SchemaError{Column: name, Reason: "name is reserved for a derived temporal feature"}
			}
		}
		numNames = append(numNames, FeatureHour, FeatureDayOfWeek)
	}
	for _, name := range numNames {
		values := make([]float64, 0, len(ds.Records))
		for i, rec := range ds.Records {
			v, ok, err := numericValue(rec, name, i)
			if err != nil {
				return nil, err
			}
			if ok {
				values = append(values, v)
			}
		}
		mean, scale := standardize(values)
		st.numeric = append(st.numeric, numericColumn{name: name, mean: mean, scale: scale})
		st.names = append(st.names, name)
	}

	return st, nil
}

// Transform encodes records with a previously fitted State. Categories not
// seen at fit time encode to an all-zero block. A record without a timestamp
// takes the fitted mean for the temporal features, which encodes to 0.
func Transform(records []model.EventRecord, st *State) (Matrix, error) {
	m := make(Matrix, len(records))
	for i, rec := range records {
		row := make([]float64, 0, st.Width())
		for _, c := range st.categorical {
			v, err := categoricalValue(rec, c, i)
			if err != nil {
				return nil, err
			}
			block := make([]float64, len(c.categories))
			if idx, ok := c.index[v]; ok {
				block[idx] = 1
			}
			row = append(row, block...)
		}
		for _, n := range st.numeric {
			v, ok, err := numericValue(rec, n.name, i)
			if err != nil {
				return nil, err
			}
			if !ok {
				v = n.mean
			}
			row = append(row, (v-n.mean)/n.scale)
		}
		m[i] = row
	}
	return m, nil
}

func categoricalValue(rec model.EventRecord, c categoricalColumn, i int) (string, error) {
	if c.activity {
		return strings.ToLower(strings.TrimSpace(rec.Activity)), nil
	}
	v, ok := rec.Categorical[c.name]
	if !ok {
		return "", &model.SchemaError{Column: c.name, Row: i + 1, Reason: "record has no value for feature column"}
	}
	return v, nil
}

// numericValue reports ok=false for a temporal feature of a record without
// a timestamp.
func numericValue(rec model.EventRecord, name string, i int) (float64, bool, error) {
	switch name {
	case FeatureHour, FeatureDayOfWeek:
		if !rec.HasTimestamp {
			return 0, false, nil
		}
		if name == FeatureHour {
			return float64(rec.Timestamp.Hour()), true, nil
		}
		// Monday = 0 ... Sunday = 6
		return float64((int(rec.Timestamp.Weekday()) + 6) % 7), true, nil
	}
	v, ok := rec.Numeric[name]
	if !ok {
		return 0, false, &model.SchemaError{Column: name, Row: i + 1, Reason: "record has no value for feature column"}
	}
	return v, true, nil
}

// standardize returns the population mean and standard deviation of values.
// A zero deviation yields scale 1 so constant columns encode to 0.
func standardize(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 1
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(values)))
	if std == 0 {
		return mean, 1
	}
	return mean, std
}
