package postgres

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// IsUUID validates if the given string is a valid UUID.
func IsUUID(u string) error {
	if u == "" {
		return fmt.Errorf("%w: UUID cannot be empty", ErrInvalidUUID)
	}
	if _, err := uuid.Parse(u); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}
	return nil
}

// NewUUID generates a new UUID string.
func NewUUID() string {
	return uuid.New().String()
}

// SplitTableName splits "schema.table" or "table" and validates both parts
// as plain identifiers. The schema is empty when not given.
func SplitTableName(name string) (schema, table string, err error) {
	parts := strings.Split(name, ".")
	switch len(parts) {
	case 1:
		table = parts[0]
	case 2:
		schema, table = parts[0], parts[1]
		if !identifierPattern.MatchString(schema) {
			return "", "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, schema)
		}
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	if !identifierPattern.MatchString(table) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, table)
	}
	return schema, table, nil
}
