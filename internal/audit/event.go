package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind names an audited action.
type Kind string

// Audited actions.
const (
	TaskCreated   Kind = "task_created"
	TaskUpdated   Kind = "task_updated"
	TaskRetrieved Kind = "task_retrieved"
	TaskListed    Kind = "task_listed"
	TaskDeleted   Kind = "task_deleted"
	TaskCompleted Kind = "task_completed"
)

// Kinds lists every audited action.
var Kinds = []Kind{TaskCreated, TaskUpdated, TaskRetrieved, TaskListed, TaskDeleted, TaskCompleted}

// Event is one audit record.
type Event struct {
	Kind Kind
	// Time defaults to the moment Record is called.
	Time time.Time
	// Actor is the caller's username.
	Actor     string
	Method    string
	Path      string
	RequestID string
	// Status is the HTTP status code returned to the caller.
	Status int

	// Action fields; which ones are set depends on Kind.
	TaskID           uuid.UUID
	Title            string
	Count            int
	AlreadyCompleted bool
}

// Recorder accepts audit events. Implementations must not block the caller
// for long and never report failure.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// Nop is a Recorder that discards every event.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Event) {}
