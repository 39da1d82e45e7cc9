package services

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	"taskboard/internal/repositories"

	"github.com/gofrs/uuid"
	"golang.org/x/sync/errgroup"
)

type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, apply func(task *models.Task)) (*models.Task, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
	Count(ctx context.Context, ownerID uuid.UUID, filter repositories.TaskFilter) (int64, error)
	List(ctx context.Context, ownerID uuid.UUID, filter repositories.TaskFilter, order repositories.TaskOrder, offset, limit int) ([]models.Task, error)
}

// Invalidator is told whenever an owner's tasks change.
type Invalidator interface {
	Invalidate(ctx context.Context, ownerID uuid.UUID)
}

// taskPolicy governs /tasks/:id. Another owner's task is indistinguishable
// from a missing one.
const taskPolicy = MaskAsNotFound

const msgTaskNotFound = "Task not found"

type TaskService struct {
	tasks       TaskStore
	invalidator Invalidator
	now         func() time.Time
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks, now: func() time.Time { return time.Now().UTC() }}
}

// WithInvalidator registers a listener for task writes.
func (s *TaskService) WithInvalidator(inv Invalidator) *TaskService {
	s.invalidator = inv
	return s
}

func (s *TaskService) Create(ctx context.Context, owner uuid.UUID, in models.CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperrors.Validation("title must not be empty")
	}
	if err := validateTags(in.Tags); err != nil {
		return nil, err
	}

	task := &models.Task{
		OwnerID:     owner,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     utc(in.DueDate),
		Tags:        in.Tags,
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, apperrors.Validation("invalid priority")
		}
		task.Priority = *in.Priority
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.Dependency("create task", err)
	}
	s.invalidate(ctx, owner)
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, owner, id uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(msgTaskNotFound)
		}
		return nil, apperrors.Dependency("load task", err)
	}
	if err := taskPolicy.Check(owner, task.OwnerID, msgTaskNotFound); err != nil {
		return nil, err
	}
	return task, nil
}

// Update merges the supplied fields into the owner's task.
func (s *TaskService) Update(ctx context.Context, owner, id uuid.UUID, in models.UpdateTaskInput) (*models.Task, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, apperrors.Validation("title must not be empty")
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, apperrors.Validation("invalid status")
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return nil, apperrors.Validation("invalid priority")
	}
	if in.Tags != nil {
		if err := validateTags(*in.Tags); err != nil {
			return nil, err
		}
	}

	now := s.now()
	return s.update(ctx, owner, id, func(task *models.Task) {
		if in.Title != nil {
			task.Title = *in.Title
		}
		if in.Description.Set {
			task.Description = in.Description.Value
		}
		if in.Priority != nil {
			task.Priority = *in.Priority
		}
		if in.DueDate.Set {
			task.DueDate = utc(in.DueDate.Value)
		}
		if in.Tags != nil {
			task.Tags = *in.Tags
		}
		if in.Status != nil {
			task.SetStatus(*in.Status, now)
		}
	})
}

// UpdateStatus changes only the status, keeping completedAt in step.
func (s *TaskService) UpdateStatus(ctx context.Context, owner, id uuid.UUID, status models.Status) (*models.Task, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("Invalid input")
	}
	now := s.now()
	return s.update(ctx, owner, id, func(task *models.Task) {
		task.SetStatus(status, now)
	})
}

func (s *TaskService) Delete(ctx context.Context, owner, id uuid.UUID) error {
	deleted, err := s.tasks.Delete(ctx, owner, id)
	if err != nil {
		return apperrors.Dependency("delete task", err)
	}
	if !deleted {
		return apperrors.NotFound(msgTaskNotFound)
	}
	s.invalidate(ctx, owner)
	return nil
}

// List runs the windowed fetch and the total count side by side. The two
// queries are not isolated from each other, so total may briefly disagree
// with items under concurrent writes.
func (s *TaskService) List(ctx context.Context, owner uuid.UUID, q TaskQuery) (*TaskPage, error) {
	var (
		items []models.Task
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.tasks.List(gctx, owner, q.Filter, q.Order, q.Offset(), q.Limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.tasks.Count(gctx, owner, q.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Dependency("list tasks", err)
	}

	if items == nil {
		items = []models.Task{}
	}
	return &TaskPage{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (s *TaskService) update(ctx context.Context, owner, id uuid.UUID, apply func(task *models.Task)) (*models.Task, error) {
	task, err := s.tasks.Update(ctx, owner, id, apply)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound(msgTaskNotFound)
		}
		return nil, apperrors.Dependency("update task", err)
	}
	if err := taskPolicy.Check(owner, task.OwnerID, msgTaskNotFound); err != nil {
		return nil, err
	}
	s.invalidate(ctx, owner)
	return task, nil
}

func (s *TaskService) invalidate(ctx context.Context, owner uuid.UUID) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, owner)
	}
}

func validateTags(list []string) error {
	for _, tag := range list {
		if strings.TrimSpace(tag) == "" {
			return apperrors.Validation("tags must not contain empty values")
		}
	}
	return nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
