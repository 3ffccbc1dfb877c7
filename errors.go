package taskmgr

import "errors"

var (
	// ErrNilWork is returned when a StartNew variant receives a nil callable.
	ErrNilWork = errors.New("work callable is nil")

	// ErrClosed is returned by every operation attempted after Close began.
	ErrClosed = errors.New("task service is closed")

	// ErrNotFound is returned when the given task id is unknown.
	ErrNotFound = errors.New("task not found")

	// ErrTimeout is returned by throwing wait variants when the wait deadline
	// elapses before the target tasks reach a terminal state.
	ErrTimeout = errors.New("wait timed out")

	// ErrCanceled is surfaced by result retrieval for canceled tasks.
	ErrCanceled = errors.New("task was canceled")

	// ErrFaulted is surfaced by result retrieval for faulted tasks; the root
	// cause is attached to the returned error chain.
	ErrFaulted = errors.New("task faulted")

	// ErrNoResult is returned when a result is requested from a task whose
	// submission shape does not produce one.
	ErrNoResult = errors.New("task does not produce a result")

	// ErrNotCompleted is returned when a result is requested from a task that
	// has not yet reached a terminal state.
	ErrNotCompleted = errors.New("task has not completed")
)
