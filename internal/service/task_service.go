package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MohammadTashkandi/task-manager-app/internal/model"
	"github.com/MohammadTashkandi/task-manager-app/internal/repository"
)

var ErrTaskNotFound = errors.New("task not found")

// UpdateTaskDTO carries the task fields a user may change; nil leaves the
// field untouched.
type UpdateTaskDTO struct {
	Description *string
	Completed   *bool
}

type TaskService interface {
	CreateTask(ctx context.Context, owner uuid.UUID, description string, completed bool) (*model.Task, error)
	ListTasks(ctx context.Context, owner uuid.UUID, filter repository.TaskFilter) ([]model.Task, error)
	GetTask(ctx context.Context, id, owner uuid.UUID) (*model.Task, error)
	UpdateTask(ctx context.Context, id, owner uuid.UUID, updates UpdateTaskDTO) (*model.Task, error)
	DeleteTask(ctx context.Context, id, owner uuid.UUID) (*model.Task, error)
}

type taskService struct {
	taskRepo repository.TaskRepository
}

func NewTaskService(taskRepo repository.TaskRepository) TaskService {
	return &taskService{taskRepo: taskRepo}
}

func (s *taskService) CreateTask(ctx context.Context, owner uuid.UUID, description string, completed bool) (*model.Task, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}

	task := &model.Task{
		Description: description,
		Completed:   completed,
		Owner:       owner,
	}

	newID, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	task.ID = newID

	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, owner uuid.UUID, filter repository.TaskFilter) ([]model.Task, error) {
	return s.taskRepo.FindByOwner(ctx, owner, filter)
}

// GetTask fetches by id and owner together, so a miss and another user's
// task are indistinguishable.
func (s *taskService) GetTask(ctx context.Context, id, owner uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindByIDAndOwner(ctx, id, owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}

	return task, nil
}

func (s *taskService) UpdateTask(ctx context.Context, id, owner uuid.UUID, updates UpdateTaskDTO) (*model.Task, error) {
	task, err := s.GetTask(ctx, id, owner)
	if err != nil {
		return nil, err
	}

	if updates.Description != nil {
		if strings.TrimSpace(*updates.Description) == "" {
			return nil, fmt.Errorf("%w: description is required", ErrValidation)
		}
		task.Description = *updates.Description
	}
	if updates.Completed != nil {
		task.Completed = *updates.Completed
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, id, owner uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.DeleteByIDAndOwner(ctx, id, owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}

	return task, nil
}
