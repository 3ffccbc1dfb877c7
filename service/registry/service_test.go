package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/taskmgr/model/task"
)

func newTask(id, tag string) *task.Task {
	ctx, cancel := context.WithCancel(context.Background())
	return task.New(id, task.NewAction(func(ctx context.Context) {}), task.Meta{Tag: tag}, ctx, cancel)
}

func TestService_RegisterLookupRemove(t *testing.T) {
	registry := New()
	registry.Register(newTask("t1", "alpha"))
	registry.Register(newTask("t2", "beta"))

	assert.NotNil(t, registry.Lookup("t1"))
	assert.Nil(t, registry.Lookup("missing"))
	assert.Equal(t, 2, registry.Len())

	registry.Remove("t1")
	assert.Nil(t, registry.Lookup("t1"))

	// removing an absent id is a no-op
	registry.Remove("t1")
	assert.Equal(t, 1, registry.Len())
}

func TestService_ByTagIsCaseInsensitive(t *testing.T) {
	registry := New()
	registry.Register(newTask("t1", "Reports"))
	registry.Register(newTask("t2", "reports"))
	registry.Register(newTask("t3", "other"))

	assert.Len(t, registry.ByTag("REPORTS"), 2)
	assert.Len(t, registry.ByTag("other"), 1)
	assert.Empty(t, registry.ByTag("unknown"))
}

func TestService_ByState(t *testing.T) {
	registry := New()
	running := newTask("t1", "")
	running.Start()
	completed := newTask("t2", "")
	completed.Start()
	completed.Complete(nil)
	registry.Register(running)
	registry.Register(completed)

	assert.Len(t, registry.ByState(task.StateRunning), 1)
	assert.Len(t, registry.ByState(task.StateCompleted), 1)
	assert.Empty(t, registry.ByState(task.StateFaulted))
}

func TestService_ConcurrentAccess(t *testing.T) {
	registry := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("task-%d", i)
			registry.Register(newTask(id, "load"))
			registry.Lookup(id)
			registry.ByTag("load")
			registry.All()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, registry.Len())

	drained := registry.Drain()
	assert.Len(t, drained, 50)
	assert.Equal(t, 0, registry.Len())
}
