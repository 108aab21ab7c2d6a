package repository

import "context"

// ReferenceKind selects which lookup table a reference operation targets.
type ReferenceKind string

const (
	KindRole       ReferenceKind = "user_roles"
	KindTaskStatus ReferenceKind = "task_statuses"
)

// ReferenceRepository is the store surface for lookup tables. FindByName
// returns ErrNotFound when no row matches; Insert returns ErrDuplicateKey
// when the name already exists.
type ReferenceRepository interface {
	FindByName(ctx context.Context, kind ReferenceKind, name string) (int64, error)
	Insert(ctx context.Context, kind ReferenceKind, name string) (int64, error)
}
