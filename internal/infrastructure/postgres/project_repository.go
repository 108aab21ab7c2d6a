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

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

const projectColumns = `id, name, description, image, owner_id, notifications, status_id, priority, created_at`

func scanProject(row pgx.Row) (*entity.Project, error) {
	p := &entity.Project{}
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.OwnerID,
		&p.Notifications, &p.StatusID, &p.Priority, &p.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO projects (name, description, image, owner_id, notifications, status_id, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, p.Name, p.Description, p.Image, p.OwnerID, p.Notifications, p.StatusID, p.Priority)
	return mapErr(row.Scan(&p.ID, &p.CreatedAt))
}

func (r *ProjectRepository) GetRow(ctx context.Context, id int64) (*entity.ProjectRow, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	out := &entity.ProjectRow{Project: *p}
	if err := r.attachRelations(ctx, map[int64]*entity.ProjectRow{id: out}); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProjectRepository) ListRows(ctx context.Context) ([]entity.ProjectRow, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.ProjectRow, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.ProjectRow{Project: *p})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	byID := make(map[int64]*entity.ProjectRow, len(out))
	for i := range out {
		byID[out[i].ID] = &out[i]
	}
	if err := r.attachRelations(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

// attachRelations fills members (with user and role joins) and task rows
// for every project in the map.
func (r *ProjectRepository) attachRelations(ctx context.Context, byID map[int64]*entity.ProjectRow) error {
	if len(byID) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	memberRows, err := r.pool.Query(ctx, `
		SELECT pm.project_id, pm.user_id, pm.role_id,
		       u.id, u.name, u.email, u.profile_pic,
		       r.id, r.name, r.created_at
		FROM project_members pm
		LEFT JOIN users u ON u.id = pm.user_id
		LEFT JOIN user_roles r ON r.id = pm.role_id
		WHERE pm.project_id = ANY($1)
	`, ids)
	if err != nil {
		return err
	}
	defer memberRows.Close()
	for memberRows.Next() {
		m := entity.MemberRow{}
		var (
			userID    *int64
			userName  *string
			userEmail *string
			userPic   *string
			roleID    *int64
			roleName  *string
			roleAt    *time.Time
		)
		if err := memberRows.Scan(&m.ProjectID, &m.UserID, &m.RoleID,
			&userID, &userName, &userEmail, &userPic,
			&roleID, &roleName, &roleAt); err != nil {
			return err
		}
		if userID != nil {
			m.User = &entity.UserRef{ID: *userID, ProfilePic: userPic}
			if userName != nil {
				m.User.Name = *userName
			}
			if userEmail != nil {
				m.User.Email = *userEmail
			}
		}
		if roleID != nil && roleName != nil {
			m.Role = &entity.ReferenceValue{ID: *roleID, Name: *roleName}
			if roleAt != nil {
				m.Role.CreatedAt = *roleAt
			}
		}
		if p, ok := byID[m.ProjectID]; ok {
			p.Members = append(p.Members, m)
		}
	}
	if err := memberRows.Err(); err != nil {
		return err
	}

	taskRows, err := r.pool.Query(ctx, taskRowSelect+` WHERE t.project_id = ANY($1) ORDER BY t.id`, ids)
	if err != nil {
		return err
	}
	defer taskRows.Close()
	for taskRows.Next() {
		t, err := scanTaskRow(taskRows)
		if err != nil {
			return err
		}
		if p, ok := byID[t.ProjectID]; ok {
			p.Tasks = append(p.Tasks, *t)
		}
	}
	return taskRows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, id int64, in repository.ProjectUpdate) error {
	var set []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.Description != nil {
		add("description", *in.Description)
	}
	if in.Image != nil {
		add("image", *in.Image)
	}
	if in.Notifications != nil {
		add("notifications", in.Notifications)
	}
	if in.StatusID != nil {
		add("status_id", *in.StatusID)
	}
	if in.Priority != nil {
		add("priority", *in.Priority)
	}
	if len(set) == 0 {
		var one int
		return mapErr(r.pool.QueryRow(ctx, `SELECT 1 FROM projects WHERE id = $1`, id).Scan(&one))
	}
	args = append(args, id)
	res, err := r.pool.Exec(ctx,
		fmt.Sprintf("UPDATE projects SET %s WHERE id = $%d", strings.Join(set, ", "), len(args)), args...)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the project; tasks and membership rows go with it via
// ON DELETE CASCADE on their foreign keys.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ReplaceMembers clears the membership list and reinserts it. The two
// statements run without a transaction; per-statement atomicity is all
// the callers rely on.
func (r *ProjectRepository) ReplaceMembers(ctx context.Context, projectID int64, userIDs []int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM project_members WHERE project_id = $1`, projectID); err != nil {
		return err
	}
	for _, uid := range userIDs {
		if _, err := r.pool.Exec(ctx, `
			INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)
			ON CONFLICT (project_id, user_id) DO NOTHING
		`, projectID, uid); err != nil {
			return mapErr(err)
		}
	}
	return nil
}

func (r *ProjectRepository) AddMember(ctx context.Context, m entity.ProjectMember) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id, role_id) VALUES ($1, $2, $3)
	`, m.ProjectID, m.UserID, m.RoleID)
	return mapErr(err)
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)
