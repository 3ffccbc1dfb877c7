package taskmgr

import (
	"context"
	"sync"
	"time"
)

var (
	defaultOnce    sync.Once
	defaultService *Service
)

// Default returns the lazily-initialized process-wide engine. It is a
// convenience wrapper for call sites that cannot receive an explicitly
// constructed Service; new code should prefer New and dependency injection.
func Default() *Service {
	defaultOnce.Do(func() {
		defaultService, _ = New()
	})
	return defaultService
}

// StartNew submits a synchronous action to the default engine.
func StartNew(action func(ctx context.Context), options ...StartOption) (string, error) {
	return Default().StartNew(action, options...)
}

// StartNewFunc submits a synchronous, result-bearing function to the
// default engine.
func StartNewFunc(fn func(ctx context.Context) interface{}, options ...StartOption) (string, error) {
	return Default().StartNewFunc(fn, options...)
}

// StartNewAsync submits a context-aware action to the default engine.
func StartNewAsync(fn func(ctx context.Context) error, options ...StartOption) (string, error) {
	return Default().StartNewAsync(fn, options...)
}

// StartNewAsyncFunc submits a context-aware, result-bearing function to the
// default engine.
func StartNewAsyncFunc(fn func(ctx context.Context) (interface{}, error), options ...StartOption) (string, error) {
	return Default().StartNewAsyncFunc(fn, options...)
}

// WaitFor waits on the default engine.
func WaitFor(ctx context.Context, id string, timeout time.Duration, failOnTimeout bool) (bool, error) {
	return Default().WaitFor(ctx, id, timeout, failOnTimeout)
}

// Cancel requests cancellation on the default engine.
func Cancel(id string) error {
	return Default().Cancel(id)
}
