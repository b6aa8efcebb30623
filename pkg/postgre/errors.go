package postgres

import (
	"errors"
)

var (
	ErrInvalidUUID       = errors.New("invalid UUID format")
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")
)
