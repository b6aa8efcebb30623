package tuner

import (
	"errors"
	"fmt"
)

var (
	ErrNoSeparableModel = errors.New("no separable model")
	ErrNoCandidates     = errors.New("no candidate sensitivities")
)

// NoSeparableModelError means every candidate either could not be fitted or
// produced a zero separation: the data looks the same under every sensitivity tried.
type NoSeparableModelError struct {
	Tried      int
	Eliminated int
}

func (e *NoSeparableModelError) Error() string {
	return fmt.Sprintf("no separable model: %d candidates tried, %d could not be fitted, the rest had zero separation",
		e.Tried, e.Eliminated)
}

// Is lets errors.Is(err, ErrNoSeparableModel) match.
func (e *NoSeparableModelError) Is(target error) bool {
	return target == ErrNoSeparableModel
}
