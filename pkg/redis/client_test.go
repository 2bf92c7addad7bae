package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewNotConfigured(t *testing.T) {
	client, err := New(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, client)
}

func TestNewInvalidURL(t *testing.T) {
	_, err := New(context.Background(), Config{URL: "http://not-redis"})
	assert.Error(t, err)
}

func TestNewUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	client, err := New(ctx, Config{URL: "redis://127.0.0.1:1/0"})
	assert.Error(t, err)
	assert.Nil(t, client)
}
