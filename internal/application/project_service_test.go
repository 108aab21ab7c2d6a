package application

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/vicdevmanx/gurutasks/internal/domain/entity"
	"github.com/vicdevmanx/gurutasks/internal/domain/repository"
)

type fakeProjectRepo struct {
	nextID   int64
	projects map[int64]*entity.Project
	members  map[int64][]entity.ProjectMember

	replaceCalls int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		nextID:   1,
		projects: map[int64]*entity.Project{},
		members:  map[int64][]entity.ProjectMember{},
	}
}

func (f *fakeProjectRepo) Create(_ context.Context, p *entity.Project) error {
	p.ID = f.nextID
	f.nextID++
	cp := *p
	f.projects[p.ID] = &cp
	return nil
}

func (f *fakeProjectRepo) GetRow(_ context.Context, id int64) (*entity.ProjectRow, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	row := entity.ProjectRow{Project: *p}
	for _, m := range f.members[id] {
		row.Members = append(row.Members, entity.MemberRow{ProjectMember: m})
	}
	return &row, nil
}

func (f *fakeProjectRepo) ListRows(ctx context.Context) ([]entity.ProjectRow, error) {
	var out []entity.ProjectRow
	for id := range f.projects {
		row, _ := f.GetRow(ctx, id)
		out = append(out, *row)
	}
	return out, nil
}

func (f *fakeProjectRepo) Update(_ context.Context, id int64, in repository.ProjectUpdate) error {
	p, ok := f.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Image != nil {
		p.Image = in.Image
	}
	if in.Notifications != nil {
		p.Notifications = in.Notifications
	}
	if in.StatusID != nil {
		p.StatusID = in.StatusID
	}
	if in.Priority != nil {
		p.Priority = in.Priority
	}
	return nil
}

func (f *fakeProjectRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.projects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.projects, id)
	delete(f.members, id)
	return nil
}

func (f *fakeProjectRepo) ReplaceMembers(_ context.Context, projectID int64, userIDs []int64) error {
	f.replaceCalls++
	rows := make([]entity.ProjectMember, 0, len(userIDs))
	for _, uid := range userIDs {
		rows = append(rows, entity.ProjectMember{ProjectID: projectID, UserID: uid})
	}
	f.members[projectID] = rows
	return nil
}

func (f *fakeProjectRepo) AddMember(_ context.Context, m entity.ProjectMember) error {
	for _, existing := range f.members[m.ProjectID] {
		if existing.UserID == m.UserID {
			return repository.ErrDuplicateKey
		}
	}
	f.members[m.ProjectID] = append(f.members[m.ProjectID], m)
	return nil
}

func (f *fakeProjectRepo) memberIDs(projectID int64) []int64 {
	var ids []int64
	for _, m := range f.members[projectID] {
		ids = append(ids, m.UserID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func newProjectService() (*ProjectService, *fakeProjectRepo, *fakeRefRepo) {
	projects := newFakeProjectRepo()
	refs := newFakeRefRepo()
	svc := &ProjectService{Projects: projects, Resolver: NewResolver(refs)}
	return svc, projects, refs
}

func TestProjectCreateInsertsMembers(t *testing.T) {
	svc, projects, _ := newProjectService()

	out, err := svc.Create(context.Background(), 1, CreateProjectInput{
		Name:      "Apollo",
		MemberIDs: []int64{2, 3},
	}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.OwnerID != 1 {
		t.Fatalf("OwnerID = %d", out.OwnerID)
	}
	got := projects.memberIDs(out.ID)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("member ids = %v, want [2 3]", got)
	}
}

func TestProjectUpdateReplacesMemberList(t *testing.T) {
	svc, projects, _ := newProjectService()
	ctx := context.Background()

	out, err := svc.Create(ctx, 1, CreateProjectInput{Name: "Apollo", MemberIDs: []int64{2, 3}}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(ctx, out.ID, UpdateProjectInput{MemberIDs: []int64{4}}, nil); err != nil {
		t.Fatalf("update: %v", err)
	}
	got := projects.memberIDs(out.ID)
	if len(got) != 1 || got[0] != 4 {
		t.Fatalf("member ids = %v, want exactly [4]", got)
	}
}

func TestProjectUpdateNilMembersUntouched(t *testing.T) {
	svc, projects, _ := newProjectService()
	ctx := context.Background()

	out, err := svc.Create(ctx, 1, CreateProjectInput{Name: "Apollo", MemberIDs: []int64{2}}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	before := projects.replaceCalls

	name := "Apollo 11"
	if _, err := svc.Update(ctx, out.ID, UpdateProjectInput{Name: &name}, nil); err != nil {
		t.Fatalf("update: %v", err)
	}
	if projects.replaceCalls != before {
		t.Fatal("member list was replaced on a name-only update")
	}
	if got := projects.memberIDs(out.ID); len(got) != 1 || got[0] != 2 {
		t.Fatalf("member ids = %v, want [2]", got)
	}
}

func TestProjectUpdateEmptyMembersClears(t *testing.T) {
	svc, projects, _ := newProjectService()
	ctx := context.Background()

	out, err := svc.Create(ctx, 1, CreateProjectInput{Name: "Apollo", MemberIDs: []int64{2, 3}}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(ctx, out.ID, UpdateProjectInput{MemberIDs: []int64{}}, nil); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := projects.memberIDs(out.ID); len(got) != 0 {
		t.Fatalf("member ids = %v, want empty", got)
	}
}

func TestProjectAssignMemberDefaultsRole(t *testing.T) {
	svc, projects, refs := newProjectService()
	ctx := context.Background()

	out, err := svc.Create(ctx, 1, CreateProjectInput{Name: "Apollo"}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.AssignMember(ctx, out.ID, 7, nil); err != nil {
		t.Fatalf("assign: %v", err)
	}

	memberRoleID, ok := refs.rows[repository.KindRole]["member"]
	if !ok {
		t.Fatal("default member role was not resolved")
	}
	ms := projects.members[out.ID]
	if len(ms) != 1 || ms[0].RoleID == nil || *ms[0].RoleID != memberRoleID {
		t.Fatalf("members = %+v, want one with role %d", ms, memberRoleID)
	}
}

func TestProjectAssignMemberIdempotent(t *testing.T) {
	svc, projects, _ := newProjectService()
	ctx := context.Background()

	out, err := svc.Create(ctx, 1, CreateProjectInput{Name: "Apollo"}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.AssignMember(ctx, out.ID, 7, nil); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	if err := svc.AssignMember(ctx, out.ID, 7, nil); err != nil {
		t.Fatalf("second assign should be a no-op, got %v", err)
	}
	if got := len(projects.members[out.ID]); got != 1 {
		t.Fatalf("membership rows = %d, want 1", got)
	}
}

func TestProjectNotFoundMapping(t *testing.T) {
	svc, _, _ := newProjectService()
	ctx := context.Background()

	if _, err := svc.Get(ctx, 99); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("get err = %v", err)
	}
	if _, err := svc.Update(ctx, 99, UpdateProjectInput{}, nil); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("update err = %v", err)
	}
	if err := svc.Delete(ctx, 99); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("delete err = %v", err)
	}
}
