package export

import "errors"

var (
	ErrFileNameRequired = errors.New("export file name is required")
	ErrInvalidFileName  = errors.New("export file name must not contain a path")
)
