package repository

import (
	"context"
	"encoding/json"

	"github.com/vicdevmanx/gurutasks/internal/domain/entity"
)

// ProjectUpdate carries a partial field set for projects.
type ProjectUpdate struct {
	Name          *string
	Description   *string
	Image         *string
	Notifications json.RawMessage
	StatusID      *int64
	Priority      *string
}

// ProjectRepository defines the interface for project-related database
// operations, including the membership link table.
type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	GetRow(ctx context.Context, id int64) (*entity.ProjectRow, error)
	ListRows(ctx context.Context) ([]entity.ProjectRow, error)
	Update(ctx context.Context, id int64, in ProjectUpdate) error
	Delete(ctx context.Context, id int64) error

	// ReplaceMembers deletes every membership row for the project and then
	// inserts one per user id. Two statements, no transaction: a concurrent
	// reader can observe the project with zero members in between.
	ReplaceMembers(ctx context.Context, projectID int64, userIDs []int64) error
	AddMember(ctx context.Context, m entity.ProjectMember) error
}
