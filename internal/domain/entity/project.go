package entity

import (
	"encoding/json"
	"time"
)

// Project is owned by a user and has many members and tasks.
// Notifications is an opaque settings blob stored as jsonb.
type Project struct {
	ID            int64
	Name          string
	Description   string
	Image         *string
	OwnerID       int64
	Notifications json.RawMessage
	StatusID      *int64
	Priority      *string
	CreatedAt     time.Time
}

// ProjectSummary is the short project shape embedded in user rows.
type ProjectSummary struct {
	ID          int64
	Name        string
	Description string
	Image       *string
	StatusID    *int64
	Priority    *string
	CreatedAt   time.Time
}

// ProjectMember links a user to a project. RoleID is optional; readers
// treat a missing role as the default "member".
type ProjectMember struct {
	ProjectID int64
	UserID    int64
	RoleID    *int64
}

// MemberRow is a project_members row expanded with its user and role,
// as embedded in a ProjectRow. User or Role can be nil when the joined
// row has gone missing; projection degrades rather than fails.
type MemberRow struct {
	ProjectMember
	User *UserRef
	Role *ReferenceValue
}

// ProjectRow is a project with its joined relations, as read back for the API.
type ProjectRow struct {
	Project
	Members []MemberRow
	Tasks   []TaskRow
}
