package application

import (
	"encoding/json"
	"time"

	"github.com/vicdevmanx/gurutasks/internal/domain/entity"
)

// Client shapes returned by the API. Field names match what the frontend
// already consumes: `title` and `createdAt` camel-cased, `due_date` snake.
//
// Projection is pure: same row in, same shape out, no store access, no
// errors. Missing joins degrade to defaults instead of propagating nulls.

// StatusUnknown is the status emitted when a task's joined status row is
// missing.
const StatusUnknown = "unknown"

// PriorityDefault is the constant priority on every projected task. No
// column backs it; the frontend expects the field anyway.
const PriorityDefault = "medium"

type ClientAssignee struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	ProfilePic *string `json:"profile_pic"`
}

type ClientTask struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	Status      string           `json:"status"`
	Priority    string           `json:"priority"`
	Assignees   []ClientAssignee `json:"assignees"`
	Tags        []string         `json:"tags,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
}

type ClientMember struct {
	ProjectID int64           `json:"project_id"`
	UserID    int64           `json:"user_id"`
	User      *ClientAssignee `json:"user,omitempty"`
	Role      *ClientRole     `json:"role,omitempty"`
}

type ClientRole struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ClientProject struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Image         *string         `json:"image"`
	OwnerID       int64           `json:"owner_id"`
	Notifications json.RawMessage `json:"notifications,omitempty"`
	StatusID      *int64          `json:"status_id"`
	Priority      *string         `json:"priority"`
	CreatedAt     time.Time       `json:"created_at"`
	Members       []ClientMember  `json:"project_members"`
	Tasks         []ClientTask    `json:"tasks"`
}

type ClientProjectSummary struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       *string   `json:"image"`
	StatusID    *int64    `json:"status_id"`
	Priority    *string   `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
}

type ClientMembership struct {
	ProjectID int64                 `json:"project_id"`
	Project   *ClientProjectSummary `json:"project,omitempty"`
}

type ClientTaskSummary struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	ProjectID int64      `json:"project_id"`
	StatusID  int64      `json:"status_id"`
	Tags      []string   `json:"tags,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DueDate   *time.Time `json:"due_date,omitempty"`
}

type ClientUser struct {
	ID         int64              `json:"id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	AccessRole string             `json:"access_role"`
	Suspended  bool               `json:"suspended"`
	ProfilePic *string            `json:"profile_pic"`
	Role       *ClientRole        `json:"role,omitempty"`
	Projects   []ClientMembership `json:"projects"`
	Tasks      []ClientTaskSummary `json:"tasks"`
	CreatedAt  time.Time          `json:"created_at"`
}

// ProjectTask shapes a joined task row. The assignees array wraps the
// single optional assignee; it is never nil.
func ProjectTask(row entity.TaskRow) ClientTask {
	out := ClientTask{
		ID:          row.ID,
		Title:       row.Name,
		Description: row.Description,
		Status:      StatusUnknown,
		Priority:    PriorityDefault,
		Assignees:   []ClientAssignee{},
		Tags:        row.Tags,
		CreatedAt:   row.CreatedAt,
		DueDate:     row.DueDate,
	}
	if row.Status != nil {
		out.Status = row.Status.Name
	}
	if row.Assignee != nil {
		out.Assignees = append(out.Assignees, ClientAssignee{
			ID:         row.Assignee.ID,
			Name:       row.Assignee.Name,
			Email:      row.Assignee.Email,
			ProfilePic: row.Assignee.ProfilePic,
		})
	}
	return out
}

// ProjectProject shapes a joined project row, projecting each task through
// ProjectTask. Member and task arrays are never nil.
func ProjectProject(row entity.ProjectRow) ClientProject {
	out := ClientProject{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		Image:         row.Image,
		OwnerID:       row.OwnerID,
		Notifications: row.Notifications,
		StatusID:      row.StatusID,
		Priority:      row.Priority,
		CreatedAt:     row.CreatedAt,
		Members:       make([]ClientMember, 0, len(row.Members)),
		Tasks:         make([]ClientTask, 0, len(row.Tasks)),
	}
	for _, m := range row.Members {
		cm := ClientMember{ProjectID: m.ProjectID, UserID: m.UserID}
		if m.User != nil {
			cm.User = &ClientAssignee{
				ID:         m.User.ID,
				Name:       m.User.Name,
				Email:      m.User.Email,
				ProfilePic: m.User.ProfilePic,
			}
		}
		if m.Role != nil {
			cm.Role = &ClientRole{ID: m.Role.ID, Name: m.Role.Name}
		}
		out.Members = append(out.Members, cm)
	}
	for _, t := range row.Tasks {
		out.Tasks = append(out.Tasks, ProjectTask(t))
	}
	return out
}

// ProjectUser shapes a joined user row. Password and reset-token fields
// never appear in the output.
func ProjectUser(row entity.UserRow) ClientUser {
	out := ClientUser{
		ID:         row.ID,
		Name:       row.Name,
		Email:      row.Email,
		AccessRole: row.AccessRole,
		Suspended:  row.Suspended,
		ProfilePic: row.ProfilePic,
		Projects:   make([]ClientMembership, 0, len(row.Memberships)),
		Tasks:      make([]ClientTaskSummary, 0, len(row.Tasks)),
		CreatedAt:  row.CreatedAt,
	}
	if row.Role != nil {
		out.Role = &ClientRole{ID: row.Role.ID, Name: row.Role.Name}
	}
	for _, m := range row.Memberships {
		cm := ClientMembership{ProjectID: m.ProjectID}
		if m.Project != nil {
			cm.Project = &ClientProjectSummary{
				ID:          m.Project.ID,
				Name:        m.Project.Name,
				Description: m.Project.Description,
				Image:       m.Project.Image,
				StatusID:    m.Project.StatusID,
				Priority:    m.Project.Priority,
				CreatedAt:   m.Project.CreatedAt,
			}
		}
		out.Projects = append(out.Projects, cm)
	}
	for _, t := range row.Tasks {
		out.Tasks = append(out.Tasks, ClientTaskSummary{
			ID:        t.ID,
			Name:      t.Name,
			ProjectID: t.ProjectID,
			StatusID:  t.StatusID,
			Tags:      t.Tags,
			CreatedAt: t.CreatedAt,
			DueDate:   t.DueDate,
		})
	}
	return out
}
