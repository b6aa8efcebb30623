package iforest

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientData   = errors.New("insufficient data to fit ensemble")
	ErrInvalidSensitivity = errors.New("sensitivity must be in (0, 1)")
	ErrInconsistentWidth  = errors.New("feature vectors have different widths")
)

// InsufficientDataError is returned by Fit when the matrix has fewer rows
// than the ensemble needs.
type InsufficientDataError struct {
	Rows int
	Min  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data to fit ensemble: %d rows, need at least %d", e.Rows, e.Min)
}

// Is lets errors.Is(err, ErrInsufficientData) match.
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}
