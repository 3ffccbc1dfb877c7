package task

import (
	"context"
	"errors"
	"fmt"
)

// Work captures a submitted unit of work as exactly one of four closed
// shapes. The shape is fixed at submission time so that retry re-invocation
// is a direct call on the stored variant.
//
// The sync shapes (Action, Func) have no error channel of their own; an
// unexpected panic inside them is recovered at the Invoke boundary and
// surfaced as a fault. The async shapes (AsyncAction, AsyncFunc) report
// failures through their returned error.
//
// Every shape receives the task's cancellation context and must poll it;
// cancellation is cooperative and never preempts running code.
type Work struct {
	Action      func(ctx context.Context)
	Func        func(ctx context.Context) interface{}
	AsyncAction func(ctx context.Context) error
	AsyncFunc   func(ctx context.Context) (interface{}, error)
}

// NewAction wraps a synchronous action.
func NewAction(fn func(ctx context.Context)) Work {
	return Work{Action: fn}
}

// NewFunc wraps a synchronous function with a result.
func NewFunc(fn func(ctx context.Context) interface{}) Work {
	return Work{Func: fn}
}

// NewAsyncAction wraps a context-aware, error-returning action.
func NewAsyncAction(fn func(ctx context.Context) error) Work {
	return Work{AsyncAction: fn}
}

// NewAsyncFunc wraps a context-aware function with a result.
func NewAsyncFunc(fn func(ctx context.Context) (interface{}, error)) Work {
	return Work{AsyncFunc: fn}
}

// IsValid returns true when exactly one shape is set.
func (w Work) IsValid() bool {
	count := 0
	if w.Action != nil {
		count++
	}
	if w.Func != nil {
		count++
	}
	if w.AsyncAction != nil {
		count++
	}
	if w.AsyncFunc != nil {
		count++
	}
	return count == 1
}

// HasResult returns true for result-bearing shapes.
func (w Work) HasResult() bool {
	return w.Func != nil || w.AsyncFunc != nil
}

// Outcome is the explicit status of one invocation attempt. Cancellation and
// failure are values here, not errors crossing the engine's dispatch
// boundary; only genuinely unexpected faults populate Err.
type Outcome struct {
	Value    interface{}
	Err      error
	Canceled bool
}

// Invoke runs the stored shape once. A panic from a sync shape is recovered
// into Err. Cancellation requested before the work returns wins over any
// value or error the work produced - a timed-out task is reported canceled
// regardless of what its final poll returned.
func (w Work) Invoke(ctx context.Context) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: fmt.Errorf("work unit panicked: %v", r)}
			if ctx.Err() != nil {
				out = Outcome{Canceled: true}
			}
		}
	}()

	switch {
	case w.Action != nil:
		w.Action(ctx)
	case w.Func != nil:
		out.Value = w.Func(ctx)
	case w.AsyncAction != nil:
		out.Err = w.AsyncAction(ctx)
	case w.AsyncFunc != nil:
		out.Value, out.Err = w.AsyncFunc(ctx)
	default:
		out.Err = errors.New("work unit has no callable")
		return
	}

	// only the task's own handle decides cancellation; a context error
	// returned by some unrelated inner operation is an ordinary failure
	// and stays eligible for retry
	if ctx.Err() != nil {
		return Outcome{Canceled: true}
	}
	return out
}
