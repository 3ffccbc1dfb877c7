// Package taskmgr provides an asynchronous task orchestration engine.
//
// The engine accepts units of work in four shapes (action / function with
// result, each in a plain and a context-aware variant), tracks their
// lifecycle in a concurrent registry, enforces per-task timeouts, retries
// failures with capped exponential backoff, supports cooperative
// cancellation (single task, by tag, or all) and reclaims terminal entries
// after a configurable retention window. Lifecycle transitions are
// published as events through a pluggable queue transport.
//
// End-users typically interact via an explicitly constructed Service:
//
//	srv, _ := taskmgr.New(taskmgr.WithRetention(time.Minute))
//	defer srv.Close()
//
//	id, _ := srv.StartNewAsyncFunc(func(ctx context.Context) (interface{}, error) {
//		return compute(ctx)
//	}, taskmgr.WithTag("reports"), taskmgr.WithTimeout(30*time.Second))
//
//	value, err := srv.AwaitResult(ctx, id, time.Minute)
//
// Cancellation is strictly cooperative: the engine only signals the task's
// context, and the work unit is responsible for polling it.
package taskmgr
