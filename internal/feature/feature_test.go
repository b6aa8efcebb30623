package feature

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anomaly-srv/internal/dataset"
	"anomaly-srv/internal/model"
)

const loginCSV = `event_id,user_id,activity_type,timestamp,location,ip_address
1,u1,login,2024-01-01 09:00:00,Paris,10.0.0.1
2,u2,login,2024-01-02 10:00:00,Berlin,10.0.0.2
3,u1,login,2024-01-03 11:00:00,Paris,10.0.0.1
4,u3,login,2024-01-07 12:00:00,Berlin,10.0.0.3
`

func loadLogin(t *testing.T) model.Dataset {
	t.Helper()
	ds, err := dataset.Load(strings.NewReader(loginCSV), dataset.LoginSchema())
	require.NoError(t, err)
	return ds
}

func TestFitTransformLayout(t *testing.T) {
	X, st, err := FitTransform(loadLogin(t))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"activity_type=login",
		"location=Berlin", "location=Paris",
		"ip_address=10.0.0.1", "ip_address=10.0.0.2", "ip_address=10.0.0.3",
		"hour", "day_of_week",
	}, st.Names())
	assert.Equal(t, 8, st.Width())
	require.Len(t, X, 4)

	// row 0: Paris, 10.0.0.1
	assert.Equal(t, []float64{1, 0, 1, 1, 0, 0}, X[0][:6])
	// row 3: Berlin, 10.0.0.3
	assert.Equal(t, []float64{1, 1, 0, 0, 0, 1}, X[3][:6])
}

func TestNumericColumnsAreStandardized(t *testing.T) {
	X, st, err := FitTransform(loadLogin(t))
	require.NoError(t, err)

	for col := st.Width() - 2; col < st.Width(); col++ {
		var sum, sq float64
		for _, row := range X {
			sum += row[col]
		}
		mean := sum / float64(len(X))
		for _, row := range X {
			sq += (row[col] - mean) * (row[col] - mean)
		}
		assert.InDelta(t, 0, mean, 1e-12, "column %d mean", col)
		assert.InDelta(t, 1, math.Sqrt(sq/float64(len(X))), 1e-12, "column %d std", col)
	}
}

func TestDayOfWeekStartsMonday(t *testing.T) {
	rec := model.EventRecord{Timestamp: time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), HasTimestamp: true}
	v, _, err := numericValue(rec, FeatureDayOfWeek, 0)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v, "Sunday")

	rec.Timestamp = time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)
	v, _, err = numericValue(rec, FeatureDayOfWeek, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v, "Monday")
	v, _, err = numericValue(rec, FeatureHour, 0)
	require.NoError(t, err)
	assert.Equal(t, 23.0, v)
}

func TestTransformRoundTrip(t *testing.T) {
	ds := loadLogin(t)
	X, st, err := FitTransform(ds)
	require.NoError(t, err)

	again, err := Transform(ds.Records, st)
	require.NoError(t, err)
	assert.Equal(t, X, again)
}

func TestTransformUnseenCategoryEncodesToZeros(t *testing.T) {
	ds := loadLogin(t)
	_, st, err := FitTransform(ds)
	require.NoError(t, err)

	rec := ds.Records[0]
	rec.Categorical = map[string]string{"location": "Lagos", "ip_address": "203.0.113.66"}
	X, err := Transform([]model.EventRecord{rec}, st)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0, 0, 0, 0}, X[0][:6])
	assert.Len(t, X[0], st.Width())
}

func TestTransformMissingFeatureColumn(t *testing.T) {
	ds := loadLogin(t)
	_, st, err := FitTransform(ds)
	require.NoError(t, err)

	rec := ds.Records[1]
	rec.Categorical = map[string]string{"location": "Paris"}
	_, err = Transform([]model.EventRecord{rec}, st)
	var se *model.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "ip_address", se.Column)
}

func TestNoTimestampNoTemporalFeatures(t *testing.T) {
	ds, err := dataset.Load(strings.NewReader("activity_type,location,ip_address\nlogin,Paris,1\nlogin,Rome,2\n"), dataset.LoginSchema())
	require.NoError(t, err)

	_, st, err := FitTransform(ds)
	require.NoError(t, err)
	assert.NotContains(t, st.Names(), FeatureHour)
	assert.NotContains(t, st.Names(), FeatureDayOfWeek)
}

func TestIdentifierColumnsAreNotFeatures(t *testing.T) {
	_, st, err := FitTransform(loadLogin(t))
	require.NoError(t, err)
	for _, name := range st.Names() {
		assert.False(t, strings.HasPrefix(name, "event_id"))
		assert.False(t, strings.HasPrefix(name, "user_id"))
	}
}

func TestConstantNumericColumnEncodesToZero(t *testing.T) {
	schema := dataset.BatchSchema(nil, []string{"bytes"})
	ds, err := dataset.Load(strings.NewReader(
		"timestamp,bytes\n2024-01-01 09:00:00,5\n2024-01-01 09:00:00,5\n"), schema)
	require.NoError(t, err)

	X, _, err := FitTransform(ds)
	require.NoError(t, err)
	for _, row := range X {
		for _, v := range row {
			assert.Equal(t, 0.0, v)
		}
	}
}

func TestReservedNumericName(t *testing.T) {
	schema := dataset.BatchSchema(nil, []string{"hour"})
	ds, err := dataset.Load(strings.NewReader("timestamp,hour\n2024-01-01 09:00:00,5\n"), schema)
	require.NoError(t, err)
	_, _, err = FitTransform(ds)
	assert.ErrorIs(t, err, model.ErrSchema)
}

func TestActivityCaseDoesNotChangeEncoding(t *testing.T) {
	mixed := strings.Replace(loginCSV, "3,u1,login,", "3,u1,Login,", 1)
	ds, err := dataset.Load(strings.NewReader(mixed), dataset.LoginSchema())
	require.NoError(t, err)

	X, st, err := FitTransform(ds)
	require.NoError(t, err)
	want, _, err := FitTransform(loadLogin(t))
	require.NoError(t, err)

	assert.Contains(t, st.Names(), "activity_type=login")
	assert.NotContains(t, st.Names(), "activity_type=Login")
	assert.Equal(t, want, X)
}

func TestMissingTimestampEncodesTemporalFeaturesAsMean(t *testing.T) {
	in := "activity_type,timestamp,location,ip_address\n" +
		"login,2024-01-01 08:00:00,Paris,1\n" +
		"login,,Paris,1\n" +
		"login,2024-01-01 10:00:00,Paris,1\n"
	ds, err := dataset.Load(strings.NewReader(in), dataset.LoginSchema())
	require.NoError(t, err)
	require.False(t, ds.Records[1].HasTimestamp)

	X, st, err := FitTransform(ds)
	require.NoError(t, err)
	hour := st.Width() - 2
	assert.Equal(t, 0.0, X[1][hour])
	assert.InDelta(t, -1, X[0][hour], 1e-12)
	assert.InDelta(t, 1, X[2][hour], 1e-12)
}
