package entity

import "time"

// User is the aggregate root for accounts.
// PasswordHash holds a bcrypt digest; it never leaves the service layer.
type User struct {
	ID                  int64
	Name                string
	Email               string
	PasswordHash        string
	RoleID              int64
	AccessRole          string // "admin" or "member"
	Suspended           bool
	ProfilePic          *string
	ResetToken          *string
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time
}

// UserRef is the joined subset of user columns embedded in other rows
// (task assignee, project member).
type UserRef struct {
	ID         int64
	Name       string
	Email      string
	ProfilePic *string
}

// Ref returns the embeddable subset of u.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email, ProfilePic: u.ProfilePic}
}

// UserRow is a user with its joined relations, as read back for the API.
type UserRow struct {
	User
	Role        *ReferenceValue
	Memberships []MembershipRow
	Tasks       []TaskSummary
}

// MembershipRow is a project_members row expanded with its project summary,
// as embedded in a UserRow.
type MembershipRow struct {
	ProjectID int64
	Project   *ProjectSummary
}

// TaskSummary is the short task shape embedded in a UserRow.
type TaskSummary struct {
	ID        int64
	Name      string
	ProjectID int64
	StatusID  int64
	Tags      []string
	CreatedAt time.Time
	DueDate   *time.Time
}
