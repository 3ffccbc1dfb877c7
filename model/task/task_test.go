package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestTask() *Task {
	ctx, cancel := context.WithCancel(context.Background())
	work := NewAction(func(ctx context.Context) {})
	return New("task-1", work, Meta{Tag: "test", Priority: PriorityNormal}, ctx, cancel)
}

func TestTask_Transitions(t *testing.T) {
	aTask := newTestTask()
	assert.Equal(t, StateCreated, aTask.State())

	aTask.MarkPending()
	assert.Equal(t, StatePending, aTask.State())

	aTask.Start()
	assert.Equal(t, StateRunning, aTask.State())
	assert.NotNil(t, aTask.StartedAt())

	first := aTask.StartedAt()
	aTask.Start()
	assert.Equal(t, *first, *aTask.StartedAt(), "start time is set at most once")

	assert.True(t, aTask.Complete("value"))
	assert.Equal(t, StateCompleted, aTask.State())
	assert.NotNil(t, aTask.CompletedAt())

	value, err := aTask.Result()
	assert.Equal(t, "value", value)
	assert.NoError(t, err)

	duration, ok := aTask.Duration()
	assert.True(t, ok)
	assert.GreaterOrEqual(t, duration, time.Duration(0))
}

func TestTask_TerminalTransitionIsExactlyOnce(t *testing.T) {
	aTask := newTestTask()
	aTask.Start()

	assert.True(t, aTask.Fail(errors.New("boom")))
	assert.False(t, aTask.Complete(nil), "terminal state never regresses")
	assert.False(t, aTask.MarkCanceled())
	assert.False(t, aTask.Fail(errors.New("again")))
	assert.Equal(t, StateFaulted, aTask.State())

	select {
	case <-aTask.Done():
	default:
		t.Fatal("done channel must be closed after terminal transition")
	}
}

func TestTask_CancelSignalsContext(t *testing.T) {
	aTask := newTestTask()
	assert.NoError(t, aTask.Context().Err())
	aTask.Cancel()
	assert.Error(t, aTask.Context().Err())
	// signalling intent does not transition state by itself
	assert.False(t, aTask.State().IsTerminal())
}

func TestTask_TimedOutNeverReverts(t *testing.T) {
	aTask := newTestTask()
	assert.False(t, aTask.TimedOut())
	assert.True(t, aTask.MarkTimedOut())
	assert.True(t, aTask.TimedOut())
	aTask.MarkCanceled()
	assert.True(t, aTask.TimedOut())
}

func TestTask_TimedOutAfterTerminalIsRejected(t *testing.T) {
	aTask := newTestTask()
	aTask.Start()
	assert.True(t, aTask.Complete("value"))

	assert.False(t, aTask.MarkTimedOut())
	assert.False(t, aTask.TimedOut())
	assert.Equal(t, StateCompleted, aTask.State())
}

func TestTask_CompleteAfterTimedOutLandsCanceled(t *testing.T) {
	aTask := newTestTask()
	aTask.Start()
	assert.True(t, aTask.MarkTimedOut())

	assert.True(t, aTask.Complete("late value"))
	assert.Equal(t, StateCanceled, aTask.State())
	assert.True(t, aTask.TimedOut())
	value, err := aTask.Result()
	assert.Nil(t, value, "a timed-out task surfaces no result")
	assert.NoError(t, err)
}

func TestTask_RetryCounter(t *testing.T) {
	aTask := newTestTask()
	assert.Equal(t, 0, aTask.RetryCount())
	aTask.IncRetry()
	aTask.IncRetry()
	assert.Equal(t, 2, aTask.RetryCount())
}
