package application

import (
	"context"
	"errors"
	"testing"

	"github.com/vicdevmanx/gurutasks/internal/domain/entity"
	"github.com/vicdevmanx/gurutasks/internal/domain/repository"
)

type fakeTaskRepo struct {
	nextID int64
	tasks  map[int64]*entity.Task
	// joined rows are synthesized from tasks; statuses maps id to name
	statuses map[int64]string
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{nextID: 1, tasks: map[int64]*entity.Task{}, statuses: map[int64]string{}}
}

func (f *fakeTaskRepo) Create(_ context.Context, t *entity.Task) error {
	t.ID = f.nextID
	f.nextID++
	cp := *t
	f.tasks[t.ID] = &cp
	return nil
}

func (f *fakeTaskRepo) row(t *entity.Task) entity.TaskRow {
	row := entity.TaskRow{Task: *t}
	if name, ok := f.statuses[t.StatusID]; ok {
		row.Status = &entity.StatusRef{ID: t.StatusID, Name: name}
	}
	return row
}

func (f *fakeTaskRepo) GetRow(_ context.Context, id int64) (*entity.TaskRow, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	row := f.row(t)
	return &row, nil
}

func (f *fakeTaskRepo) List(_ context.Context, projectID *int64) ([]entity.TaskRow, error) {
	var out []entity.TaskRow
	for _, t := range f.tasks {
		if projectID != nil && t.ProjectID != *projectID {
			continue
		}
		out = append(out, f.row(t))
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, id int64, in repository.TaskUpdate) error {
	t, ok := f.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.StatusID != nil {
		t.StatusID = *in.StatusID
	}
	if in.Tags != nil {
		t.Tags = in.Tags
	}
	if in.AssigneeID != nil {
		t.AssigneeID = in.AssigneeID
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	return nil
}

func (f *fakeTaskRepo) SetStatus(_ context.Context, id int64, statusID int64) error {
	t, ok := f.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.StatusID = statusID
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

func newTaskService() (*TaskService, *fakeTaskRepo, *fakeRefRepo) {
	tasks := newFakeTaskRepo()
	refs := newFakeRefRepo()
	svc := &TaskService{Tasks: tasks, Resolver: NewResolver(refs)}
	return svc, tasks, refs
}

func TestTaskCreateResolvesStatusFirst(t *testing.T) {
	svc, tasks, refs := newTaskService()
	ctx := context.Background()

	out, err := svc.Create(ctx, CreateTaskInput{ProjectID: 1, Name: "Ship it", Status: "todo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := refs.rows[repository.KindTaskStatus]["todo"]; !ok {
		t.Fatal("status row was not created")
	}
	stored := tasks.tasks[out.ID]
	if stored.StatusID != refs.rows[repository.KindTaskStatus]["todo"] {
		t.Fatalf("task status id = %d", stored.StatusID)
	}
}

func TestTaskCreateAbortsWhenResolveFails(t *testing.T) {
	tasks := newFakeTaskRepo()
	boom := errors.New("db down")
	svc := &TaskService{Tasks: tasks, Resolver: NewResolver(errRefRepo{err: boom})}

	_, err := svc.Create(context.Background(), CreateTaskInput{ProjectID: 1, Name: "Ship it", Status: "todo"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if len(tasks.tasks) != 0 {
		t.Fatalf("%d task rows written after failed resolve, want 0", len(tasks.tasks))
	}
}

func TestTaskListFiltersByProject(t *testing.T) {
	svc, _, _ := newTaskService()
	ctx := context.Background()

	for _, in := range []CreateTaskInput{
		{ProjectID: 1, Name: "a", Status: "todo"},
		{ProjectID: 1, Name: "b", Status: "todo"},
		{ProjectID: 2, Name: "c", Status: "todo"},
	} {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	pid := int64(1)
	got, err := svc.List(ctx, &pid)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("filtered list len = %d, want 2", len(got))
	}

	all, err := svc.List(ctx, nil)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("unfiltered list len = %d, want 3", len(all))
	}
}

func TestTaskUpdateStatusReusesExistingName(t *testing.T) {
	svc, tasks, refs := newTaskService()
	ctx := context.Background()

	out, err := svc.Create(ctx, CreateTaskInput{ProjectID: 1, Name: "Ship it", Status: "todo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.UpdateStatus(ctx, out.ID, "done"); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := svc.UpdateStatus(ctx, out.ID, "done"); err != nil {
		t.Fatalf("second update status: %v", err)
	}
	if got := len(refs.rows[repository.KindTaskStatus]); got != 2 {
		t.Fatalf("status rows = %d, want 2 (todo, done)", got)
	}
	if tasks.tasks[out.ID].StatusID != refs.rows[repository.KindTaskStatus]["done"] {
		t.Fatalf("task status id = %d", tasks.tasks[out.ID].StatusID)
	}
}

func TestTaskUpdateLeavesUnspecifiedFields(t *testing.T) {
	svc, tasks, _ := newTaskService()
	ctx := context.Background()

	desc := "original"
	out, err := svc.Create(ctx, CreateTaskInput{ProjectID: 1, Name: "Ship it", Status: "todo", Description: &desc, Tags: []string{"a"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Ship it v2"
	if _, err := svc.Update(ctx, out.ID, repository.TaskUpdate{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored := tasks.tasks[out.ID]
	if stored.Name != name {
		t.Fatalf("Name = %q", stored.Name)
	}
	if stored.Description == nil || *stored.Description != "original" {
		t.Fatalf("Description = %v, want untouched", stored.Description)
	}
	if len(stored.Tags) != 1 {
		t.Fatalf("Tags = %v, want untouched", stored.Tags)
	}
}

func TestTaskNotFoundMapping(t *testing.T) {
	svc, _, _ := newTaskService()
	ctx := context.Background()

	if _, err := svc.Update(ctx, 99, repository.TaskUpdate{}); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("update err = %v", err)
	}
	if err := svc.UpdateStatus(ctx, 99, "done"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("update status err = %v", err)
	}
	if err := svc.Delete(ctx, 99); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("delete err = %v", err)
	}
}
