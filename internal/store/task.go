package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskly/tasks-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
//
// Lookups by ID are not owner-scoped; services compare the returned task's
// owner with the caller. ListByOwner is the only way to enumerate tasks and
// it always restricts the result to a single owner.
type TaskStore interface {
	// Create saves a new task.
	// Returns store.ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task.
	// Returns ErrTaskNotFound if no task has that ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetByIDForUpdate is GetByID that also locks the row until the
	// surrounding transaction ends. Use it on a store returned by WithTx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListByOwner returns ownerID's tasks refined by q. The owner predicate is
	// applied unconditionally; nothing in q can widen it.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, q domain.TaskQuery) ([]*domain.Task, error)

	// Update persists the mutable fields (title, description, is_completed).
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete permanently removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a TaskStore bound to tx.
	WithTx(tx *sql.Tx) TaskStore
}
