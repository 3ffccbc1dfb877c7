package task

// State represents the lifecycle state of a managed task.
type State string

const (
	// StateCreated indicates the task record exists but has not been scheduled yet
	StateCreated State = "created"

	// StatePending indicates the task is registered and waiting for its goroutine to start
	StatePending State = "pending"

	// StateRunning indicates the work unit is executing
	StateRunning State = "running"

	// StateCompleted indicates the work unit finished successfully
	StateCompleted State = "completed"

	// StateFaulted indicates the work unit failed after exhausting any configured retries
	StateFaulted State = "faulted"

	// StateCanceled indicates the work unit observed cancellation and exited cooperatively
	StateCanceled State = "canceled"
)

// IsTerminal returns true for states from which no further transition occurs.
func (s State) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFaulted, StateCanceled:
		return true
	}
	return false
}
