package model

import (
	"errors"
	"fmt"
)

// ErrSchema matches every *SchemaError with errors.Is.
var ErrSchema = errors.New("schema error")

// SchemaError reports an input that does not match the declared schema.
type SchemaError struct {
	Column string
	Row    int // 1-based data row, 0 when the error is about the header
	Reason string
}

func (e *SchemaError) Error() string {
	switch {
	case e.Column == "":
		return fmt.Sprintf("schema: %s", e.Reason)
	case e.Row > 0:
		return fmt.Sprintf("schema: column %q row %d: %s", e.Column, e.Row, e.Reason)
	default:
		return fmt.Sprintf("schema: column %q: %s", e.Column, e.Reason)
	}
}

// Is lets errors.Is(err, ErrSchema) match.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}
