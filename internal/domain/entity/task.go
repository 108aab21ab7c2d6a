package entity

import "time"

// Task belongs to a project; the single optional assignee is a user.
type Task struct {
	ID          int64
	ProjectID   int64
	Name        string
	Description *string
	AssigneeID  *int64
	StatusID    int64
	Tags        []string
	DueDate     *time.Time
	CreatedAt   time.Time
}

// TaskRow is a task with its joined status and assignee. Either join can
// be absent (deleted assignee, dangling status); projection handles both.
type TaskRow struct {
	Task
	Status   *StatusRef
	Assignee *UserRef
}
