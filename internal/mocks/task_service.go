package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskly/tasks-api/internal/domain"
	"github.com/taskly/tasks-api/internal/service"
)

// MockTaskService implements service.TaskService for testing. Unset
// functions return zero values.
type MockTaskService struct {
	CreateTaskFn   func(ctx context.Context, ownerID uuid.UUID, params service.CreateTaskParams) (*domain.Task, error)
	ListTasksFn    func(ctx context.Context, ownerID uuid.UUID, q domain.TaskQuery) ([]*domain.Task, error)
	GetTaskFn      func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	UpdateTaskFn   func(ctx context.Context, ownerID, taskID uuid.UUID, params service.UpdateTaskParams) (*domain.Task, error)
	DeleteTaskFn   func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	CompleteTaskFn func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, bool, error)
}

// CreateTask implements service.TaskService
func (m *MockTaskService) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	params service.CreateTaskParams,
) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, ownerID, params)
	}
	return nil, nil
}

// ListTasks implements service.TaskService
func (m *MockTaskService) ListTasks(ctx context.Context, ownerID uuid.UUID, q domain.TaskQuery) ([]*domain.Task, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, ownerID, q)
	}
	return []*domain.Task{}, nil
}

// GetTask implements service.TaskService
func (m *MockTaskService) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, ownerID, taskID)
	}
	return nil, nil
}

// UpdateTask implements service.TaskService
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	params service.UpdateTaskParams,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, ownerID, taskID, params)
	}
	return nil, nil
}

// DeleteTask implements service.TaskService
func (m *MockTaskService) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, ownerID, taskID)
	}
	return nil, nil
}

// CompleteTask implements service.TaskService
func (m *MockTaskService) CompleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, bool, error) {
	if m.CompleteTaskFn != nil {
		return m.CompleteTaskFn(ctx, ownerID, taskID)
	}
	return nil, false, nil
}
