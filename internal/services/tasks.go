package services

import (
	"context"
	"strings"

	"taskclinic/backend/internal/apperrors"
	"taskclinic/backend/internal/filters"
	"taskclinic/backend/internal/models"
	"taskclinic/backend/internal/repositories"

	"github.com/gofrs/uuid"
)

const taskResource = "task"

type TaskService struct {
	tasks repositories.TaskRepository
	now   Clock
}

func NewTaskService(tasks repositories.TaskRepository, clock Clock) *TaskService {
	if clock == nil {
		clock = SystemClock
	}
	return &TaskService{tasks: tasks, now: clock}
}

func (s *TaskService) Create(ctx context.Context, caller models.Caller, input models.TaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.Validation("title is required")
	}
	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if err := validateTaskEnums(input.Status, input.Priority); err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, apperrors.Internal("generate task id", err)
	}
	now := s.now()
	task := &models.Task{
		ID:          id,
		UserID:      caller.ID,
		Title:       title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		Category:    strings.TrimSpace(input.Category),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, storeError("create task", taskResource, err)
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, caller models.Caller, params models.TaskParams) ([]models.Task, error) {
	q, err := filters.ForTasks(caller.ID, params)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx, q)
	if err != nil {
		return nil, apperrors.Internal("list tasks", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, caller models.Caller, id string) (*models.Task, error) {
	taskID, err := uuid.FromString(id)
	if err != nil {
		return nil, apperrors.NotFound(taskResource)
	}
	task, err := s.tasks.FindByID(ctx, taskID)
	return authorize(task, err, caller, CanAccessTask, taskResource, HideExistence)
}

func (s *TaskService) Update(ctx context.Context, caller models.Caller, id string, patch models.TaskPatch) (*models.Task, error) {
	task, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperrors.Validation("title cannot be empty")
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate.Set {
		task.DueDate = patch.DueDate.Value
	}
	if patch.Category != nil {
		task.Category = strings.TrimSpace(*patch.Category)
	}
	if err := validateTaskEnums(task.Status, task.Priority); err != nil {
		return nil, err
	}

	task.UpdatedAt = nextUpdate(s.now(), task.UpdatedAt)
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, storeError("update task", taskResource, err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, caller models.Caller, id string) error {
	task, err := s.Get(ctx, caller, id)
	if err != nil {
		return err
	}
	return storeError("delete task", taskResource, s.tasks.Delete(ctx, task.ID))
}

func validateTaskEnums(status models.TaskStatus, priority models.TaskPriority) error {
	if !status.Valid() {
		_, err := models.ParseTaskStatus(string(status))
		return apperrors.Validation(err.Error())
	}
	if !priority.Valid() {
		_, err := models.ParseTaskPriority(string(priority))
		return apperrors.Validation(err.Error())
	}
	return nil
}
