package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a row in the tasks table. StoredTags holds the encoded tag scalar;
// Tags is filled from it on every read.
type Task struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	OwnerID     uuid.UUID  `json:"ownerId" gorm:"type:uuid;not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description"`
	Status      Status     `json:"status" gorm:"type:varchar(20);not null;default:'todo';index"`
	Priority    Priority   `json:"priority" gorm:"type:varchar(20);not null;default:'medium'"`
	DueDate     *time.Time `json:"dueDate" gorm:"index"`
	CompletedAt *time.Time `json:"completedAt"`
	StoredTags  *string    `json:"-" gorm:"column:tags"`
	Tags        []string   `json:"tags" gorm:"-"`
	CreatedAt   time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		t.ID = id
	}
	return nil
}

// SetStatus moves the task to status and keeps CompletedAt in step: it is set
// when the task becomes done and cleared for any other status. A task that is
// already done keeps its original completion time.
func (t *Task) SetStatus(status Status, now time.Time) {
	if status == StatusDone {
		if t.Status != StatusDone || t.CompletedAt == nil {
			completed := now
			t.CompletedAt = &completed
		}
	} else {
		t.CompletedAt = nil
	}
	t.Status = status
}

type CreateTaskInput struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    *Priority  `json:"priority"`
	Tags        []string   `json:"tags"`
}

// UpdateTaskInput carries only the fields a client sent. Description and
// DueDate distinguish an explicit null (clear) from an absent field.
type UpdateTaskInput struct {
	Title       *string             `json:"title"`
	Description Nullable[string]    `json:"description"`
	Status      *Status             `json:"status"`
	Priority    *Priority           `json:"priority"`
	DueDate     Nullable[time.Time] `json:"dueDate"`
	Tags        *[]string           `json:"tags"`
}

type UpdateStatusInput struct {
	Status Status `json:"status" binding:"required"`
}
