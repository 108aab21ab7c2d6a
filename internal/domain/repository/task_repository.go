package repository

import (
	"context"
	"time"

	"github.com/vicdevmanx/gurutasks/internal/domain/entity"
)

// TaskUpdate carries a partial field set for tasks.
type TaskUpdate struct {
	Name        *string
	Description *string
	StatusID    *int64
	Tags        []string
	AssigneeID  *int64
	DueDate     *time.Time
}

// TaskRepository defines the interface for task-related database operations.
type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetRow(ctx context.Context, id int64) (*entity.TaskRow, error)
	// List returns all tasks with joins, filtered to one project when
	// projectID is non-nil.
	List(ctx context.Context, projectID *int64) ([]entity.TaskRow, error)
	Update(ctx context.Context, id int64, in TaskUpdate) error
	SetStatus(ctx context.Context, id int64, statusID int64) error
	Delete(ctx context.Context, id int64) error
}
