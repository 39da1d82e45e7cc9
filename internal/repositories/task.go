package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/models"
	"taskboard/internal/tags"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskFilter narrows an owner-scoped task query. Zero values mean no
// constraint.
type TaskFilter struct {
	Status     *models.Status
	Priority   *models.Priority
	Tags       []string
	NotDone    bool
	DueBefore  *time.Time
	DueFrom    *time.Time
	DueThrough *time.Time
}

// TaskOrder names a column of the tasks table and a direction.
type TaskOrder struct {
	Column string
	Desc   bool
}

type TaskRepository struct {
	db    *gorm.DB
	codec tags.Codec
}

func NewTaskRepository(db *gorm.DB, codec tags.Codec) *TaskRepository {
	if codec == nil {
		codec = tags.Default
	}
	return &TaskRepository{db: db, codec: codec}
}

func ownedBy(ownerID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (f TaskFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.NotDone {
		db = db.Where("status <> ?", models.StatusDone)
	}
	if f.Priority != nil {
		db = db.Where("priority = ?", *f.Priority)
	}
	for _, tag := range f.Tags {
		db = db.Where(`tags LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(tag)+"%")
	}
	if f.DueBefore != nil {
		db = db.Where("due_date < ?", *f.DueBefore)
	}
	if f.DueFrom != nil {
		db = db.Where("due_date >= ?", *f.DueFrom)
	}
	if f.DueThrough != nil {
		db = db.Where("due_date <= ?", *f.DueThrough)
	}
	return db
}

func (r *TaskRepository) decode(task *models.Task) {
	task.Tags = r.codec.Decode(task.StoredTags)
}

// Create inserts task, filling in status and priority defaults.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	task.StoredTags = r.codec.Encode(task.Tags)
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	r.decode(task)
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).First(&task, "id = ?", id).Error
	if err != nil {
		if err = translate(err); errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	r.decode(&task)
	return &task, nil
}

// Update loads the owner's task, lets apply change it and writes the mutable
// columns back. The read and the write are separate statements.
func (r *TaskRepository) Update(ctx context.Context, ownerID, id uuid.UUID, apply func(task *models.Task)) (*models.Task, error) {
	task, err := r.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	apply(task)
	task.StoredTags = r.codec.Encode(task.Tags)
	task.UpdatedAt = r.db.NowFunc()

	result := r.db.WithContext(ctx).Model(&models.Task{}).
		Scopes(ownedBy(ownerID)).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":        task.Title,
			"description":  task.Description,
			"status":       task.Status,
			"priority":     task.Priority,
			"due_date":     task.DueDate,
			"completed_at": task.CompletedAt,
			"tags":         task.StoredTags,
			"updated_at":   task.UpdatedAt,
		})
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	r.decode(task)
	return task, nil
}

// Delete reports whether a task was removed.
func (r *TaskRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).Delete(&models.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return result.RowsAffected > 0, nil
}

func (r *TaskRepository) Count(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).
		Scopes(ownedBy(ownerID), filter.scope).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// List returns one window of the owner's tasks matching filter.
func (r *TaskRepository) List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter, order TaskOrder, offset, limit int) ([]models.Task, error) {
	tasks := make([]models.Task, 0, limit)
	err := r.db.WithContext(ctx).
		Scopes(ownedBy(ownerID), filter.scope).
		Order(clause.OrderByColumn{Column: clause.Column{Name: order.Column}, Desc: order.Desc}).
		Offset(offset).
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	for i := range tasks {
		r.decode(&tasks[i])
	}
	return tasks, nil
}
