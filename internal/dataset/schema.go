package dataset

import "anomaly-srv/internal/model"

// Default column names, matching the activity-log exports the detector is fed.
const (
	ColumnID        = "event_id"
	ColumnActor     = "user_id"
	ColumnActivity  = "activity_type"
	ColumnTimestamp = "timestamp"
	ColumnLocation  = "location"
	ColumnIP        = "ip_address"

	// ActivityLogin is the activity value kept by login mode.
	ActivityLogin = "login"
)

// BatchSchema declares the generic activity-log layout: a required timestamp
// plus the caller's categorical and numeric descriptor columns.
func BatchSchema(categorical, numeric []string) model.Schema {
	s := model.Schema{Columns: []model.Column{
		{Name: ColumnID, Role: model.RoleID},
		{Name: ColumnActor, Role: model.RoleActor},
		{Name: ColumnActivity, Role: model.RoleActivity},
		{Name: ColumnTimestamp, Role: model.RoleTimestamp, Required: true},
	}}
	for _, name := range categorical {
		s.Columns = append(s.Columns, model.Column{Name: name, Role: model.RoleCategorical, Required: true})
	}
	for _, name := range numeric {
		s.Columns = append(s.Columns, model.Column{Name: name, Role: model.RoleNumeric, Required: true})
	}
	return s
}

// LoginSchema declares the login-event layout: location and network origin
// are required, the timestamp is optional.
func LoginSchema() model.Schema {
	return model.Schema{Columns: []model.Column{
		{Name: ColumnID, Role: model.RoleID},
		{Name: ColumnActor, Role: model.RoleActor},
		{Name: ColumnActivity, Role: model.RoleActivity, Required: true},
		{Name: ColumnTimestamp, Role: model.RoleTimestamp},
		{Name: ColumnLocation, Role: model.RoleCategorical, Required: true},
		{Name: ColumnIP, Role: model.RoleCategorical, Required: true},
	}}
}
