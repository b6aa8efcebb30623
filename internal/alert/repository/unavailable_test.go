package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnavailableFailsEveryAppend(t *testing.T) {
	cause := errors.New("missing driver")
	n, err := Unavailable(cause).Append(context.Background(), AppendOptions{Table: "login_anomalies"})

	assert.Zero(t, n)
	assert.ErrorIs(t, err, cause)
}
