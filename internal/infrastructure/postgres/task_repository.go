package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vicdevmanx/gurutasks/internal/domain/entity"
	"github.com/vicdevmanx/gurutasks/internal/domain/repository"
)

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// taskRowSelect joins status and assignee. Left joins: a task whose
// assignee was deleted is still a valid row.
const taskRowSelect = `
	SELECT t.id, t.project_id, t.name, t.description, t.assignee_id, t.status_id,
	       t.tags, t.due_date, t.created_at,
	       s.id, s.name,
	       u.id, u.name, u.email, u.profile_pic
	FROM tasks t
	LEFT JOIN task_statuses s ON s.id = t.status_id
	LEFT JOIN users u ON u.id = t.assignee_id
`

func scanTaskRow(row pgx.Row) (*entity.TaskRow, error) {
	t := &entity.TaskRow{}
	var (
		statusID   *int64
		statusName *string
		userID     *int64
		userName   *string
		userEmail  *string
		userPic    *string
	)
	if err := row.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Description, &t.AssigneeID,
		&t.StatusID, &t.Tags, &t.DueDate, &t.CreatedAt,
		&statusID, &statusName,
		&userID, &userName, &userEmail, &userPic); err != nil {
		return nil, mapErr(err)
	}
	if statusID != nil && statusName != nil {
		t.Status = &entity.StatusRef{ID: *statusID, Name: *statusName}
	}
	if userID != nil {
		t.Assignee = &entity.UserRef{ID: *userID, ProfilePic: userPic}
		if userName != nil {
			t.Assignee.Name = *userName
		}
		if userEmail != nil {
			t.Assignee.Email = *userEmail
		}
	}
	return t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (project_id, name, description, assignee_id, status_id, tags, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, t.ProjectID, t.Name, t.Description, t.AssigneeID, t.StatusID, t.Tags, t.DueDate)
	return mapErr(row.Scan(&t.ID, &t.CreatedAt))
}

func (r *TaskRepository) GetRow(ctx context.Context, id int64) (*entity.TaskRow, error) {
	return scanTaskRow(r.pool.QueryRow(ctx, taskRowSelect+` WHERE t.id = $1`, id))
}

func (r *TaskRepository) List(ctx context.Context, projectID *int64) ([]entity.TaskRow, error) {
	q := taskRowSelect
	var args []any
	if projectID != nil {
		q += ` WHERE t.project_id = $1`
		args = append(args, *projectID)
	}
	q += ` ORDER BY t.id`
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.TaskRow, 0)
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, id int64, in repository.TaskUpdate) error {
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
	if in.StatusID != nil {
		add("status_id", *in.StatusID)
	}
	if in.Tags != nil {
		add("tags", in.Tags)
	}
	if in.AssigneeID != nil {
		add("assignee_id", *in.AssigneeID)
	}
	if in.DueDate != nil {
		add("due_date", *in.DueDate)
	}
	if len(set) == 0 {
		var one int
		return mapErr(r.pool.QueryRow(ctx, `SELECT 1 FROM tasks WHERE id = $1`, id).Scan(&one))
	}
	args = append(args, id)
	res, err := r.pool.Exec(ctx,
		fmt.Sprintf("UPDATE tasks SET %s WHERE id = $%d", strings.Join(set, ", "), len(args)), args...)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) SetStatus(ctx context.Context, id int64, statusID int64) error {
	res, err := r.pool.Exec(ctx, `UPDATE tasks SET status_id = $1 WHERE id = $2`, statusID, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
