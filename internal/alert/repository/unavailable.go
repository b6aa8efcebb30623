package repository

import (
	"context"
	"fmt"
)

type unavailable struct{ cause error }

// Unavailable stands in for a record store that could not be opened. Every
// Append fails with cause.
func Unavailable(cause error) Repository {
	return unavailable{cause: cause}
}

func (u unavailable) Append(ctx context.Context, opts AppendOptions) (int, error) {
	return 0, fmt.Errorf("record store unavailable: %w", u.cause)
}
