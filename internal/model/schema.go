package model

import "fmt"

// Role is what a column means to the detector.
type Role string

const (
	RoleID          Role = "id"
	RoleActor       Role = "actor"
	RoleActivity    Role = "activity"
	RoleTimestamp   Role = "timestamp"
	RoleCategorical Role = "categorical"
	RoleNumeric     Role = "numeric"
)

// Column declares one input column.
type Column struct {
	Name     string
	Role     Role
	Required bool
}

// Schema is the declared layout of an input dataset. Columns that are not
// declared pass through to the export untouched and never become features.
type Schema struct {
	Columns []Column
}

// Column returns the first declared column with the given role.
func (s Schema) Column(role Role) (Column, bool) {
	for _, c := range s.Columns {
		if c.Role == role {
			return c, true
		}
	}
	return Column{}, false
}

// Names returns the names of all columns with the given role, in declaration order.
func (s Schema) Names(role Role) []string {
	var names []string
	for _, c := range s.Columns {
		if c.Role == role {
			names = append(names, c.Name)
		}
	}
	return names
}

// Resolve checks the schema against a CSV header. It returns the schema
// restricted to the columns that are present, or a *SchemaError when a
// required column is missing or the declaration itself is inconsistent.
func (s Schema) Resolve(header []string) (Schema, error) {
	if err := s.check(); err != nil {
		return Schema{}, err
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	var resolved Schema
	for _, c := range s.Columns {
		if !present[c.Name] {
			if c.Required {
				return Schema{}, &SchemaError{Column: c.Name, Reason: "missing required column"}
			}
			continue
		}
		resolved.Columns = append(resolved.Columns, c)
	}
	return resolved, nil
}

func (s Schema) check() error {
	seen := make(map[string]Role, len(s.Columns))
	singles := map[Role]bool{}
	for _, c := range s.Columns {
		if c.Name == "" {
			return &SchemaError{Reason: fmt.Sprintf("empty column name for role %s", c.Role)}
		}
		if prev, ok := seen[c.Name]; ok {
			return &SchemaError{Column: c.Name, Reason: fmt.Sprintf("declared twice (%s, %s)", prev, c.Role)}
		}
		seen[c.Name] = c.Role

		switch c.Role {
		case RoleID, RoleActor, RoleActivity, RoleTimestamp:
			if singles[c.Role] {
				return &SchemaError{Column: c.Name, Reason: fmt.Sprintf("only one %s column allowed", c.Role)}
			}
			singles[c.Role] = true
		case RoleCategorical, RoleNumeric:
		default:
			return &SchemaError{Column: c.Name, Reason: fmt.Sprintf("unknown role %q", c.Role)}
		}
	}
	return nil
}
