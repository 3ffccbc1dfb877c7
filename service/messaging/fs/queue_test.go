package fs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
)

type TestPayload struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func newTestQueue(t *testing.T) *Queue[TestPayload] {
	config := DefaultConfig()
	config.BasePath = t.TempDir()
	config.PollInterval = 10 * time.Millisecond
	queue, err := NewQueue[TestPayload](afs.New(), config)
	assert.NoError(t, err)
	return queue
}

func TestQueue_PublishConsumeAck(t *testing.T) {
	queue := newTestQueue(t)
	ctx := context.Background()

	payload := TestPayload{ID: "m1", Count: 1}
	assert.NoError(t, queue.Publish(ctx, &payload))

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, payload, *message.T())

	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack(), "double ack should error")
}

func TestQueue_PublishOrderIsConsumeOrder(t *testing.T) {
	queue := newTestQueue(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		assert.NoError(t, queue.Publish(ctx, &TestPayload{Count: i}))
	}
	for i := 0; i < 5; i++ {
		message, err := queue.Consume(ctx)
		assert.NoError(t, err)
		assert.Equal(t, i, message.T().Count)
		assert.NoError(t, message.Ack())
	}
}

func TestQueue_NackMovesToFailed(t *testing.T) {
	queue := newTestQueue(t)
	ctx := context.Background()
	assert.NoError(t, queue.Publish(ctx, &TestPayload{ID: "bad"}))

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NoError(t, message.Nack(context.DeadlineExceeded))

	objects, err := afs.New().List(ctx, queue.failedDir)
	assert.NoError(t, err)
	found := false
	for _, obj := range objects {
		if !obj.IsDir() {
			found = true
		}
	}
	assert.True(t, found, "nacked message lands in the failed directory")
}

func TestQueue_ConsumeHonoursContext(t *testing.T) {
	queue := newTestQueue(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := queue.Consume(ctx)
	assert.Error(t, err)
}
