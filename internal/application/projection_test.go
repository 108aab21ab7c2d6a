package application

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/vicdevmanx/gurutasks/internal/domain/entity"
)

func TestProjectTaskFullRow(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	due := created.Add(72 * time.Hour)
	desc := "wire up the landing page"
	pic := "https://storage.googleapis.com/bucket/profile-pics/abc.png"
	aid := int64(3)

	row := entity.TaskRow{
		Task: entity.Task{
			ID:          7,
			ProjectID:   2,
			Name:        "Landing page",
			Description: &desc,
			AssigneeID:  &aid,
			StatusID:    1,
			Tags:        []string{"frontend", "urgent"},
			DueDate:     &due,
			CreatedAt:   created,
		},
		Status:   &entity.StatusRef{ID: 1, Name: "in progress"},
		Assignee: &entity.UserRef{ID: 3, Name: "Ada", Email: "ada@example.com", ProfilePic: &pic},
	}

	out := ProjectTask(row)
	if out.Title != "Landing page" {
		t.Fatalf("Title = %q", out.Title)
	}
	if out.Status != "in progress" {
		t.Fatalf("Status = %q", out.Status)
	}
	if out.Priority != "medium" {
		t.Fatalf("Priority = %q, want the constant medium", out.Priority)
	}
	if len(out.Assignees) != 1 {
		t.Fatalf("Assignees len = %d, want 1", len(out.Assignees))
	}
	if out.Assignees[0].Email != "ada@example.com" {
		t.Fatalf("assignee email = %q", out.Assignees[0].Email)
	}
	if out.DueDate == nil || !out.DueDate.Equal(due) {
		t.Fatalf("DueDate = %v, want %v", out.DueDate, due)
	}
}

func TestProjectTaskDegradesMissingJoins(t *testing.T) {
	row := entity.TaskRow{
		Task: entity.Task{ID: 9, ProjectID: 1, Name: "Orphan", StatusID: 42},
	}

	out := ProjectTask(row)
	if out.Status != StatusUnknown {
		t.Fatalf("Status = %q, want %q", out.Status, StatusUnknown)
	}
	if out.Assignees == nil {
		t.Fatal("Assignees is nil, want empty slice")
	}
	if len(out.Assignees) != 0 {
		t.Fatalf("Assignees len = %d, want 0", len(out.Assignees))
	}
}

func TestProjectTaskJSONFieldNames(t *testing.T) {
	row := entity.TaskRow{
		Task: entity.Task{ID: 1, Name: "Naming", CreatedAt: time.Now()},
	}
	b, err := json.Marshal(ProjectTask(row))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"title"`, `"createdAt"`, `"assignees":[]`} {
		if !strings.Contains(s, want) {
			t.Fatalf("json %s missing %s", s, want)
		}
	}
	// no due date set: the key must be absent, not null
	if strings.Contains(s, "due_date") {
		t.Fatalf("json %s contains due_date for a task without one", s)
	}
}

func TestProjectTaskDueDateUsesSnakeCase(t *testing.T) {
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	row := entity.TaskRow{
		Task: entity.Task{ID: 1, Name: "Dated", DueDate: &due, CreatedAt: time.Now()},
	}
	b, err := json.Marshal(ProjectTask(row))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"due_date"`) {
		t.Fatalf("json %s missing due_date", b)
	}
}

func TestProjectProjectShapesMembersAndTasks(t *testing.T) {
	roleAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rid := int64(2)
	row := entity.ProjectRow{
		Project: entity.Project{
			ID: 5, Name: "Apollo", Description: "moonshot", OwnerID: 1,
			Notifications: json.RawMessage(`{"email":true}`),
		},
		Members: []entity.MemberRow{
			{
				ProjectMember: entity.ProjectMember{ProjectID: 5, UserID: 3, RoleID: &rid},
				User:          &entity.UserRef{ID: 3, Name: "Ada", Email: "ada@example.com"},
				Role:          &entity.ReferenceValue{ID: 2, Name: "member", CreatedAt: roleAt},
			},
			{
				// user deleted between join rows: summary degrades, row stays
				ProjectMember: entity.ProjectMember{ProjectID: 5, UserID: 4},
			},
		},
		Tasks: []entity.TaskRow{
			{Task: entity.Task{ID: 10, ProjectID: 5, Name: "Design"}},
		},
	}

	out := ProjectProject(row)
	if len(out.Members) != 2 {
		t.Fatalf("Members len = %d, want 2", len(out.Members))
	}
	if out.Members[0].Role == nil || out.Members[0].Role.Name != "member" {
		t.Fatalf("first member role = %+v", out.Members[0].Role)
	}
	if out.Members[1].User != nil {
		t.Fatalf("degraded member has user %+v, want nil", out.Members[1].User)
	}
	if len(out.Tasks) != 1 || out.Tasks[0].Status != StatusUnknown {
		t.Fatalf("Tasks = %+v", out.Tasks)
	}
}

func TestProjectUserOmitsCredentialFields(t *testing.T) {
	token := "deadbeef"
	exp := time.Now().Add(10 * time.Minute)
	row := entity.UserRow{
		User: entity.User{
			ID: 1, Name: "Ada", Email: "ada@example.com",
			PasswordHash:        "$2a$10$hash",
			AccessRole:          "member",
			ResetToken:          &token,
			ResetTokenExpiresAt: &exp,
			CreatedAt:           time.Now(),
		},
		Role: &entity.ReferenceValue{ID: 2, Name: "member"},
	}

	b, err := json.Marshal(ProjectUser(row))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, banned := range []string{"password", "hash", "reset_token", "deadbeef"} {
		if strings.Contains(s, banned) {
			t.Fatalf("json %s leaks %q", s, banned)
		}
	}
	if !strings.Contains(s, `"role":{"id":2,"name":"member"}`) {
		t.Fatalf("json %s missing role", s)
	}
}

func TestProjectUserEmptyRelations(t *testing.T) {
	out := ProjectUser(entity.UserRow{User: entity.User{ID: 8, Name: "Solo"}})
	if out.Projects == nil || out.Tasks == nil {
		t.Fatal("relation slices must be empty, not nil")
	}
	if out.Role != nil {
		t.Fatalf("Role = %+v, want nil", out.Role)
	}
}
