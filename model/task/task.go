package task

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/taskmgr/internal/clock"
)

// Meta carries the immutable submission parameters of a task.
type Meta struct {
	Tag         string
	Description string
	Priority    Priority
	// Timeout bounds a single task's wall-clock execution; zero or negative
	// means no limit.
	Timeout    time.Duration
	MaxRetries int
}

// Task represents one submitted unit of work tracked by the registry.
//
// Identity fields (ID, Meta, CreatedAt) are immutable after construction.
// Each mutable field has exactly one writer role: start/completion times and
// terminal state are written by the executing goroutine, retryCount by the
// retry path, timedOut by the timeout monitor. Readers elsewhere use the
// accessor methods which take a snapshot under the lock or an atomic load.
type Task struct {
	ID          string
	Tag         string
	Description string
	Priority    Priority
	Timeout     time.Duration
	MaxRetries  int
	CreatedAt   time.Time

	work   Work
	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.RWMutex
	state       State
	startedAt   *time.Time
	completedAt *time.Time
	result      interface{}
	err         error

	retryCount atomic.Int32
	timedOut   atomic.Bool

	done chan struct{} // closed exactly once, on the terminal transition
}

// New creates a task in the created state. The supplied context is the
// task's cooperative cancellation handle; cancel only signals intent.
func New(id string, work Work, meta Meta, ctx context.Context, cancel context.CancelFunc) *Task {
	return &Task{
		ID:          id,
		Tag:         meta.Tag,
		Description: meta.Description,
		Priority:    meta.Priority,
		Timeout:     meta.Timeout,
		MaxRetries:  meta.MaxRetries,
		CreatedAt:   clock.Now(),
		work:        work,
		ctx:         ctx,
		cancel:      cancel,
		state:       StateCreated,
		done:        make(chan struct{}),
	}
}

// Work returns the submitted work variant.
func (t *Task) Work() Work { return t.work }

// Context returns the task's cancellation context.
func (t *Task) Context() context.Context { return t.ctx }

// Cancel signals cooperative cancellation. It never interrupts running code;
// the work unit must poll the context. Cancelling an already terminal task
// has no effect on its outcome.
func (t *Task) Cancel() { t.cancel() }

// MarkPending moves a created task into the pending state.
func (t *Task) MarkPending() {
	t.mu.Lock()
	if t.state == StateCreated {
		t.state = StatePending
	}
	t.mu.Unlock()
}

// Start marks the task running and records its start time. The start time is
// set at most once, by the execution path only.
func (t *Task) Start() {
	t.mu.Lock()
	if !t.state.IsTerminal() {
		t.state = StateRunning
		if t.startedAt == nil {
			now := clock.Now()
			t.startedAt = &now
		}
	}
	t.mu.Unlock()
}

// finish performs the terminal transition. Whichever path reaches it first
// wins; later callers observe false and must not fire events. A completion
// racing a timeout that already fired lands in the canceled state: once
// timedOut is set the task never ends completed.
func (t *Task) finish(state State, result interface{}, err error) bool {
	t.mu.Lock()
	if t.state.IsTerminal() {
		t.mu.Unlock()
		return false
	}
	if state == StateCompleted && t.timedOut.Load() {
		state = StateCanceled
		result = nil
	}
	t.state = state
	t.result = result
	t.err = err
	now := clock.Now()
	t.completedAt = &now
	t.mu.Unlock()
	close(t.done)
	return true
}

// Complete marks the task successfully completed with an optional result.
func (t *Task) Complete(result interface{}) bool {
	return t.finish(StateCompleted, result, nil)
}

// Fail marks the task faulted with the given cause.
func (t *Task) Fail(err error) bool {
	return t.finish(StateFaulted, nil, err)
}

// MarkCanceled marks the task canceled.
func (t *Task) MarkCanceled() bool {
	return t.finish(StateCanceled, nil, nil)
}

// MarkTimedOut records that the timeout monitor fired. Once set it never
// reverts. It has no effect on a task that already reached a terminal state
// and reports whether the flag was set; setting it shares the state lock so
// it can never interleave with a completing transition.
func (t *Task) MarkTimedOut() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.IsTerminal() {
		return false
	}
	t.timedOut.Store(true)
	return true
}

// TimedOut reports whether the timeout monitor fired for this task.
func (t *Task) TimedOut() bool { return t.timedOut.Load() }

// IncRetry increments the retry counter; called only by the retry path.
func (t *Task) IncRetry() { t.retryCount.Add(1) }

// RetryCount returns the number of retries performed so far.
func (t *Task) RetryCount() int { return int(t.retryCount.Load()) }

// State returns the current lifecycle state.
func (t *Task) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// IsTerminal reports whether the task reached a terminal state.
func (t *Task) IsTerminal() bool { return t.State().IsTerminal() }

// Done is closed when the task reaches a terminal state. Waiters select on
// it instead of polling.
func (t *Task) Done() <-chan struct{} { return t.done }

// Result returns the task's result value and error. Valid once terminal.
func (t *Task) Result() (interface{}, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.result, t.err
}

// StartedAt returns a copy of the start time, if set.
func (t *Task) StartedAt() *time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.startedAt == nil {
		return nil
	}
	ts := *t.startedAt
	return &ts
}

// CompletedAt returns a copy of the completion time, if set.
func (t *Task) CompletedAt() *time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.completedAt == nil {
		return nil
	}
	ts := *t.completedAt
	return &ts
}

// Duration returns the execution duration; valid only once both start and
// completion times are set.
func (t *Task) Duration() (time.Duration, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.startedAt == nil || t.completedAt == nil {
		return 0, false
	}
	return t.completedAt.Sub(*t.startedAt), true
}

// HasResult reports whether the submitted shape produces a result value.
func (t *Task) HasResult() bool { return t.work.HasResult() }
