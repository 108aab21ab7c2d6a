package application

import (
	"context"
	"errors"
	"time"

	"github.com/vicdevmanx/gurutasks/internal/domain/entity"
	"github.com/vicdevmanx/gurutasks/internal/domain/repository"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskService owns task lifecycle. Status names arrive as free text and go
// through the resolver before any task row is written.
type TaskService struct {
	Tasks    repository.TaskRepository
	Resolver *Resolver
}

type CreateTaskInput struct {
	ProjectID   int64
	Name        string
	Description *string
	AssigneeID  *int64
	Status      string
	Tags        []string
	DueDate     *time.Time
}

// Create resolves the status name first and only then inserts the task, so
// a failed resolution aborts with no task row written.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (*ClientTask, error) {
	statusID, err := s.Resolver.Resolve(ctx, repository.KindTaskStatus, in.Status)
	if err != nil {
		return nil, err
	}

	t := &entity.Task{
		ProjectID:   in.ProjectID,
		Name:        in.Name,
		Description: in.Description,
		AssigneeID:  in.AssigneeID,
		StatusID:    statusID,
		Tags:        in.Tags,
		DueDate:     in.DueDate,
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, err
	}

	row, err := s.Tasks.GetRow(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	out := ProjectTask(*row)
	return &out, nil
}

func (s *TaskService) List(ctx context.Context, projectID *int64) ([]ClientTask, error) {
	rows, err := s.Tasks.List(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]ClientTask, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProjectTask(r))
	}
	return out, nil
}

// Update applies a partial task update; unspecified fields are untouched.
func (s *TaskService) Update(ctx context.Context, id int64, in repository.TaskUpdate) (*ClientTask, error) {
	if err := s.Tasks.Update(ctx, id, in); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	row, err := s.Tasks.GetRow(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ProjectTask(*row)
	return &out, nil
}

// UpdateStatus resolves the status name and rewrites status_id only.
func (s *TaskService) UpdateStatus(ctx context.Context, id int64, status string) error {
	statusID, err := s.Resolver.Resolve(ctx, repository.KindTaskStatus, status)
	if err != nil {
		return err
	}
	if err := s.Tasks.SetStatus(ctx, id, statusID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.Tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	return nil
}
