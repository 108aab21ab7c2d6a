package entity

import "time"

// ReferenceValue is a row in one of the lookup tables (user_roles,
// task_statuses): a unique human-readable name with a stable id.
// There is no delete path for reference values; ids are never reused.
type ReferenceValue struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// StatusRef is the joined subset of a task_statuses row embedded in a TaskRow.
type StatusRef struct {
	ID   int64
	Name string
}
