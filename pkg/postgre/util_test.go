package postgres

import (
	"errors"
	"testing"
)

func TestSplitTableName(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantSchema string
		wantTable  string
		wantErr    bool
	}{
		{name: "plain table", input: "login_anomalies", wantTable: "login_anomalies"},
		{name: "schema qualified", input: "alerts.login_anomalies", wantSchema: "alerts", wantTable: "login_anomalies"},
		{name: "empty", input: "", wantErr: true},
		{name: "too many parts", input: "a.b.c", wantErr: true},
		{name: "injection attempt", input: "x; DROP TABLE y", wantErr: true},
		{name: "leading digit", input: "1table", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, table, err := SplitTableName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitTableName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidIdentifier) {
					t.Errorf("SplitTableName(%q) error = %v, want ErrInvalidIdentifier", tt.input, err)
				}
				return
			}
			if schema != tt.wantSchema || table != tt.wantTable {
				t.Errorf("SplitTableName(%q) = (%q, %q), want (%q, %q)", tt.input, schema, table, tt.wantSchema, tt.wantTable)
			}
		})
	}
}

func TestIsUUID(t *testing.T) {
	if err := IsUUID(NewUUID()); err != nil {
		t.Errorf("IsUUID(NewUUID()) = %v, want nil", err)
	}
	if err := IsUUID("not-a-uuid"); !errors.Is(err, ErrInvalidUUID) {
		t.Errorf("IsUUID(not-a-uuid) = %v, want ErrInvalidUUID", err)
	}
	if err := IsUUID(""); !errors.Is(err, ErrInvalidUUID) {
		t.Errorf("IsUUID(\"\") = %v, want ErrInvalidUUID", err)
	}
}
