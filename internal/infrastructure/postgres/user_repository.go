package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vicdevmanx/gurutasks/internal/domain/entity"
	"github.com/vicdevmanx/gurutasks/internal/domain/repository"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role_id, access_role, suspended, profile_pic, reset_token, reset_token_expires_at, created_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID,
		&u.AccessRole, &u.Suspended, &u.ProfilePic, &u.ResetToken,
		&u.ResetTokenExpiresAt, &u.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role_id, access_role, profile_pic)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, access_role, suspended, created_at
	`, u.Name, u.Email, u.PasswordHash, u.RoleID, defaultAccessRole(u.AccessRole), u.ProfilePic)
	return mapErr(row.Scan(&u.ID, &u.AccessRole, &u.Suspended, &u.CreatedAt))
}

func defaultAccessRole(role string) string {
	if role == "" {
		return "member"
	}
	return role
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE reset_token = $1`, token))
}

func (r *UserRepository) GetRow(ctx context.Context, id int64) (*entity.UserRow, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &entity.UserRow{User: *u}
	if err := r.attachRelations(ctx, map[int64]*entity.UserRow{id: out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *UserRepository) ListRows(ctx context.Context) ([]entity.UserRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.UserRow
	byID := make(map[int64]*entity.UserRow)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.UserRow{User: *u})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		byID[out[i].ID] = &out[i]
	}
	if err := r.attachRelations(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

// attachRelations fills role, memberships, and task summaries for every
// user row in the map. Joins are left joins so missing relations degrade
// to nil/empty instead of dropping the user.
func (r *UserRepository) attachRelations(ctx context.Context, byID map[int64]*entity.UserRow) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	roleRows, err := r.pool.Query(ctx, `
		SELECT u.id, r.id, r.name, r.created_at
		FROM users u
		JOIN user_roles r ON r.id = u.role_id
		WHERE u.id = ANY($1)
	`, ids)
	if err != nil {
		return err
	}
	defer roleRows.Close()
	for roleRows.Next() {
		var uid int64
		ref := &entity.ReferenceValue{}
		if err := roleRows.Scan(&uid, &ref.ID, &ref.Name, &ref.CreatedAt); err != nil {
			return err
		}
		if u, ok := byID[uid]; ok {
			u.Role = ref
		}
	}
	if err := roleRows.Err(); err != nil {
		return err
	}

	memberRows, err := r.pool.Query(ctx, `
		SELECT pm.user_id, pm.project_id,
		       p.id, p.name, p.description, p.image, p.status_id, p.priority, p.created_at
		FROM project_members pm
		JOIN projects p ON p.id = pm.project_id
		WHERE pm.user_id = ANY($1)
	`, ids)
	if err != nil {
		return err
	}
	defer memberRows.Close()
	for memberRows.Next() {
		var uid int64
		m := entity.MembershipRow{Project: &entity.ProjectSummary{}}
		if err := memberRows.Scan(&uid, &m.ProjectID,
			&m.Project.ID, &m.Project.Name, &m.Project.Description, &m.Project.Image,
			&m.Project.StatusID, &m.Project.Priority, &m.Project.CreatedAt); err != nil {
			return err
		}
		if u, ok := byID[uid]; ok {
			u.Memberships = append(u.Memberships, m)
		}
	}
	if err := memberRows.Err(); err != nil {
		return err
	}

	taskRows, err := r.pool.Query(ctx, `
		SELECT assignee_id, id, name, project_id, status_id, tags, created_at, due_date
		FROM tasks
		WHERE assignee_id = ANY($1)
	`, ids)
	if err != nil {
		return err
	}
	defer taskRows.Close()
	for taskRows.Next() {
		var uid int64
		t := entity.TaskSummary{}
		if err := taskRows.Scan(&uid, &t.ID, &t.Name, &t.ProjectID, &t.StatusID,
			&t.Tags, &t.CreatedAt, &t.DueDate); err != nil {
			return err
		}
		if u, ok := byID[uid]; ok {
			u.Tasks = append(u.Tasks, t)
		}
	}
	return taskRows.Err()
}

func (r *UserRepository) Update(ctx context.Context, id int64, in repository.UserUpdate) error {
	var set []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.Email != nil {
		add("email", *in.Email)
	}
	if in.RoleID != nil {
		add("role_id", *in.RoleID)
	}
	if in.ProfilePic != nil {
		add("profile_pic", *in.ProfilePic)
	}
	if len(set) == 0 {
		var one int
		return mapErr(r.pool.QueryRow(ctx, `SELECT 1 FROM users WHERE id = $1`, id).Scan(&one))
	}
	args = append(args, id)
	res, err := r.pool.Exec(ctx,
		fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(set, ", "), len(args)), args...)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetSuspended(ctx context.Context, id int64, suspended bool) error {
	res, err := r.pool.Exec(ctx, `UPDATE users SET suspended = $1 WHERE id = $2`, suspended, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET reset_token = $1, reset_token_expires_at = $2 WHERE id = $3
	`, token, expiresAt, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET reset_token = NULL, reset_token_expires_at = NULL WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
