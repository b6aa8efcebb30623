package repository

import "errors"

var ErrInvalidRunID = errors.New("invalid run id")
