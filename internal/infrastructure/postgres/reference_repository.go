package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vicdevmanx/gurutasks/internal/domain/repository"
)

// ReferenceRepository reads and writes the lookup tables. Both tables carry
// a UNIQUE constraint on name, so a racing insert surfaces ErrDuplicateKey
// rather than creating a second row.
type ReferenceRepository struct {
	pool *pgxpool.Pool
}

func NewReferenceRepository(pool *pgxpool.Pool) *ReferenceRepository {
	return &ReferenceRepository{pool: pool}
}

// table validates the kind so it can be spliced into SQL. Kinds are a
// closed set; anything else is a programming error.
func table(kind repository.ReferenceKind) (string, error) {
	switch kind {
	case repository.KindRole, repository.KindTaskStatus:
		return string(kind), nil
	}
	return "", fmt.Errorf("unknown reference kind %q", kind)
}

func (r *ReferenceRepository) FindByName(ctx context.Context, kind repository.ReferenceKind, name string) (int64, error) {
	tbl, err := table(kind)
	if err != nil {
		return 0, err
	}
	var id int64
	row := r.pool.QueryRow(ctx, `SELECT id FROM `+tbl+` WHERE name = $1`, name)
	if err := row.Scan(&id); err != nil {
		return 0, mapErr(err)
	}
	return id, nil
}

func (r *ReferenceRepository) Insert(ctx context.Context, kind repository.ReferenceKind, name string) (int64, error) {
	tbl, err := table(kind)
	if err != nil {
		return 0, err
	}
	var id int64
	row := r.pool.QueryRow(ctx, `INSERT INTO `+tbl+` (name) VALUES ($1) RETURNING id`, name)
	if err := row.Scan(&id); err != nil {
		return 0, mapErr(err)
	}
	return id, nil
}

var _ repository.ReferenceRepository = (*ReferenceRepository)(nil)
