package event

import "time"

// Kind identifies a task lifecycle notification.
type Kind string

const (
	// KindAdded fires exactly once, when the task is registered.
	KindAdded Kind = "added"

	// KindCompleted fires exactly once per task, on any terminal transition.
	KindCompleted Kind = "completed"

	// KindFaulted accompanies KindCompleted when the task ended faulted.
	KindFaulted Kind = "faulted"

	// KindCanceled accompanies KindCompleted when the task ended canceled.
	KindCanceled Kind = "canceled"
)

// Event is a task lifecycle notification. Cause is populated for faulted
// events only and carries the root cause message.
type Event struct {
	Kind        Kind      `json:"kind"`
	TaskID      string    `json:"taskId"`
	Tag         string    `json:"tag,omitempty"`
	Description string    `json:"description,omitempty"`
	Cause       string    `json:"cause,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewEvent creates an event for the given task identity.
func NewEvent(kind Kind, taskID, tag, description string) *Event {
	return &Event{
		Kind:        kind,
		TaskID:      taskID,
		Tag:         tag,
		Description: description,
		CreatedAt:   time.Now(),
	}
}
