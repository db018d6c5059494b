package rabbitmq

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff(t *testing.T) {
	tests := []struct {
		name     string
		base     time.Duration
		mult     float64
		attempt  int
		expected time.Duration
	}{
		{name: "defaults first attempt", attempt: 0, expected: 100 * time.Millisecond},
		{name: "defaults third attempt", attempt: 2, expected: 400 * time.Millisecond},
		{name: "custom base", base: time.Second, mult: 2, attempt: 1, expected: 2 * time.Second},
		{name: "custom multiplier", base: 10 * time.Millisecond, mult: 3, attempt: 2, expected: 90 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, backoff(tt.base, tt.mult, tt.attempt))
		})
	}
}

func TestClient_NotConnected(t *testing.T) {
	c := &Client{config: &Config{}}

	err := c.PublishWithRetry(context.Background(), Message{Body: []byte("{}")})
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = c.Consume("worker-1")
	assert.ErrorIs(t, err, ErrNotConnected)

	assert.False(t, c.IsConnected())
}
