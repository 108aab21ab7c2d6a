package repository

import (
	"context"
	"time"

	"github.com/vicdevmanx/gurutasks/internal/domain/entity"
)

// UserUpdate carries a partial field set for users; nil fields are left
// untouched by the store.
type UserUpdate struct {
	Name       *string
	Email      *string
	RoleID     *int64
	ProfilePic *string
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByResetToken(ctx context.Context, token string) (*entity.User, error)

	// GetRow and ListRows return users with role, membership, and task joins.
	GetRow(ctx context.Context, id int64) (*entity.UserRow, error)
	ListRows(ctx context.Context) ([]entity.UserRow, error)

	Update(ctx context.Context, id int64, in UserUpdate) error
	SetSuspended(ctx context.Context, id int64, suspended bool) error
	SetPassword(ctx context.Context, id int64, passwordHash string) error
	SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
