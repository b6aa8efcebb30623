package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(RedisConfig{Port: 6379})
	assert.ErrorIs(t, err, ErrHostRequired)
	_, err = New(RedisConfig{Host: "localhost", Port: 70000})
	assert.ErrorIs(t, err, ErrInvalidPort)
}

func TestNewDoesNotDial(t *testing.T) {
	c, err := New(RedisConfig{Host: "127.0.0.1", Port: 1})
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = c.Ping(ctx)
	assert.Error(t, err)
	_, err = c.Publish(ctx, "anomaly-alerts", []byte("{}"))
	assert.Error(t, err)
}

func TestPublishRequiresChannel(t *testing.T) {
	c, err := New(RedisConfig{Host: "127.0.0.1", Port: 1})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Publish(context.Background(), "", []byte("{}"))
	assert.ErrorIs(t, err, ErrChannelRequired)
}
