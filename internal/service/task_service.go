package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskly/tasks-api/internal/domain"
	"github.com/taskly/tasks-api/internal/platform/logger"
	"github.com/taskly/tasks-api/internal/store"
)

// CreateTaskParams carries the client-settable fields of a new task.
type CreateTaskParams struct {
	Title       string
	Description string
}

// UpdateTaskParams lists the fields to change. Nil fields are left as they are.
type UpdateTaskParams struct {
	Title       *string
	Description *string
	IsCompleted *bool
}

// TaskService provides the task operations available to a single caller.
// Every method is scoped to ownerID: a task owned by someone else behaves
// exactly as if it did not exist and yields store.ErrTaskNotFound.
type TaskService interface {
	// CreateTask creates an open task owned by ownerID.
	CreateTask(ctx context.Context, ownerID uuid.UUID, params CreateTaskParams) (*domain.Task, error)

	// ListTasks returns ownerID's tasks refined by q.
	ListTasks(ctx context.Context, ownerID uuid.UUID, q domain.TaskQuery) ([]*domain.Task, error)

	// GetTask returns one of ownerID's tasks.
	GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// UpdateTask applies params to one of ownerID's tasks and returns the result.
	UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, params UpdateTaskParams) (*domain.Task, error)

	// DeleteTask permanently removes one of ownerID's tasks and returns it as
	// it was just before deletion.
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// CompleteTask marks one of ownerID's tasks as completed. changed is false
	// when the task was already completed, in which case nothing is written.
	CompleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (task *domain.Task, changed bool, err error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks  store.TaskStore
	db     store.TxBeginner
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(tasks store.TaskStore, db store.TxBeginner, logger *slog.Logger) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:  tasks,
		db:     db,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	params CreateTaskParams,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, params.Title, params.Description)
	if err != nil {
		log.Debug("invalid task data",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", ownerID.String()))
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	q domain.TaskQuery,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.tasks.ListByOwner(ctx, ownerID, q)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, s.wrapLookupError(ctx, "get_task", taskID, err)
	}
	if err := checkOwner(task, ownerID); err != nil {
		s.logOwnershipMismatch(ctx, "get_task", ownerID, taskID)
		return nil, err
	}
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	params UpdateTaskParams,
) (*domain.Task, error) {
	var updated *domain.Task

	err := s.mutate(ctx, "update_task", ownerID, taskID, func(ctx context.Context, txStore store.TaskStore, task *domain.Task) error {
		if params.Title != nil {
			task.Title = domain.NormalizeText(*params.Title)
		}
		if params.Description != nil {
			task.Description = domain.NormalizeText(*params.Description)
		}
		if params.IsCompleted != nil {
			task.IsCompleted = *params.IsCompleted
		}

		if err := task.Validate(); err != nil {
			return err
		}
		if err := txStore.Update(ctx, task); err != nil {
			return NewTaskServiceError("update_task", "failed to save task", err)
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task updated",
		slog.String("task_id", taskID.String()),
		slog.String("owner_id", ownerID.String()))
	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	var deleted *domain.Task

	err := s.mutate(ctx, "delete_task", ownerID, taskID, func(ctx context.Context, txStore store.TaskStore, task *domain.Task) error {
		if err := txStore.Delete(ctx, task.ID); err != nil {
			return NewTaskServiceError("delete_task", "failed to delete task", err)
		}
		deleted = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("owner_id", ownerID.String()))
	return deleted, nil
}

// CompleteTask implements TaskService.CompleteTask
func (s *taskServiceImpl) CompleteTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
) (*domain.Task, bool, error) {
	var (
		completed *domain.Task
		changed   bool
	)

	err := s.mutate(ctx, "complete_task", ownerID, taskID, func(ctx context.Context, txStore store.TaskStore, task *domain.Task) error {
		completed = task
		if !task.Complete() {
			return nil
		}
		if err := txStore.Update(ctx, task); err != nil {
			return NewTaskServiceError("complete_task", "failed to save task", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task completion requested",
		slog.String("task_id", taskID.String()),
		slog.String("owner_id", ownerID.String()),
		slog.Bool("changed", changed))
	return completed, changed, nil
}

type mutation func(ctx context.Context, txStore store.TaskStore, task *domain.Task) error

// mutate runs fetch-for-update, ownership check and fn in one transaction.
func (s *taskServiceImpl) mutate(
	ctx context.Context,
	op string,
	ownerID, taskID uuid.UUID,
	fn mutation,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.tasks.WithTx(tx)

		task, err := txStore.GetByIDForUpdate(ctx, taskID)
		if err != nil {
			return s.wrapLookupError(ctx, op, taskID, err)
		}
		if err := checkOwner(task, ownerID); err != nil {
			s.logOwnershipMismatch(ctx, op, ownerID, taskID)
			return err
		}
		return fn(ctx, txStore, task)
	})
	if err != nil && !store.IsNotFoundError(err) && !errors.Is(err, domain.ErrValidation) {
		log.Error("task mutation failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
	}
	return err
}

// checkOwner reports a foreign task as not found.
func checkOwner(task *domain.Task, ownerID uuid.UUID) error {
	if task.OwnedBy(ownerID) {
		return nil
	}
	return fmt.Errorf("%w: %w", store.ErrTaskNotFound, ErrNotOwned)
}

func (s *taskServiceImpl) wrapLookupError(ctx context.Context, op string, taskID uuid.UUID, err error) error {
	if store.IsNotFoundError(err) {
		return store.ErrTaskNotFound
	}
	logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve task",
		slog.String("operation", op),
		slog.String("error", err.Error()),
		slog.String("task_id", taskID.String()))
	return NewTaskServiceError(op, "failed to retrieve task", err)
}

func (s *taskServiceImpl) logOwnershipMismatch(ctx context.Context, op string, ownerID, taskID uuid.UUID) {
	logger.FromContextOrDefault(ctx, s.logger).Debug("task owned by another user",
		slog.String("operation", op),
		slog.String("task_id", taskID.String()),
		slog.String("caller_id", ownerID.String()))
}
