package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vicdevmanx/gurutasks/internal/domain/repository"
)

// fakeRefRepo is an in-memory ReferenceRepository with a UNIQUE(name)
// constraint per kind, like the real table.
type fakeRefRepo struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[repository.ReferenceKind]map[string]int64
	finds   int
	inserts int

	// failInsertOnce makes the next Insert fail with ErrDuplicateKey after
	// silently creating the row, simulating a lost race.
	failInsertOnce bool
}

func newFakeRefRepo() *fakeRefRepo {
	return &fakeRefRepo{
		nextID: 1,
		rows: map[repository.ReferenceKind]map[string]int64{
			repository.KindRole:       {},
			repository.KindTaskStatus: {},
		},
	}
}

func (f *fakeRefRepo) FindByName(_ context.Context, kind repository.ReferenceKind, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	if id, ok := f.rows[kind][name]; ok {
		return id, nil
	}
	return 0, repository.ErrNotFound
}

func (f *fakeRefRepo) Insert(_ context.Context, kind repository.ReferenceKind, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if _, ok := f.rows[kind][name]; ok {
		return 0, repository.ErrDuplicateKey
	}
	id := f.nextID
	f.nextID++
	f.rows[kind][name] = id
	if f.failInsertOnce {
		f.failInsertOnce = false
		return 0, repository.ErrDuplicateKey
	}
	return id, nil
}

func TestResolveCreatesThenReuses(t *testing.T) {
	refs := newFakeRefRepo()
	r := NewResolver(refs)
	ctx := context.Background()

	id, err := r.Resolve(ctx, repository.KindRole, "editor")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if id != 1 {
		t.Fatalf("first resolve id = %d, want 1", id)
	}

	again, err := r.Resolve(ctx, repository.KindRole, "editor")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if again != id {
		t.Fatalf("second resolve id = %d, want %d", again, id)
	}
	if refs.inserts != 1 {
		t.Fatalf("inserts = %d, want 1", refs.inserts)
	}
}

func TestResolveKindsAreIndependent(t *testing.T) {
	refs := newFakeRefRepo()
	r := NewResolver(refs)
	ctx := context.Background()

	roleID, err := r.Resolve(ctx, repository.KindRole, "review")
	if err != nil {
		t.Fatalf("role resolve: %v", err)
	}
	statusID, err := r.Resolve(ctx, repository.KindTaskStatus, "review")
	if err != nil {
		t.Fatalf("status resolve: %v", err)
	}
	if roleID == statusID {
		t.Fatalf("same name in different kinds shared id %d", roleID)
	}
}

func TestResolveRetriesLookupAfterConflict(t *testing.T) {
	refs := newFakeRefRepo()
	refs.failInsertOnce = true
	r := NewResolver(refs)

	id, err := r.Resolve(context.Background(), repository.KindTaskStatus, "in progress")
	if err != nil {
		t.Fatalf("resolve after conflict: %v", err)
	}
	if id != 1 {
		t.Fatalf("resolve after conflict id = %d, want the winner's 1", id)
	}
	// miss, failed insert, retry lookup
	if refs.finds != 2 {
		t.Fatalf("finds = %d, want 2", refs.finds)
	}
}

func TestResolveConcurrentSameName(t *testing.T) {
	refs := newFakeRefRepo()
	r := NewResolver(refs)
	ctx := context.Background()

	const n = 16
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := r.Resolve(ctx, repository.KindRole, "member")
			if err != nil {
				t.Errorf("resolve: %v", err)
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	for i, id := range ids {
		if id != ids[0] {
			t.Fatalf("ids[%d] = %d, want %d", i, id, ids[0])
		}
	}
}

func TestResolvePropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection reset")
	r := NewResolver(errRefRepo{err: boom})

	_, err := r.Resolve(context.Background(), repository.KindRole, "admin")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

type errRefRepo struct{ err error }

func (e errRefRepo) FindByName(context.Context, repository.ReferenceKind, string) (int64, error) {
	return 0, e.err
}

func (e errRefRepo) Insert(context.Context, repository.ReferenceKind, string) (int64, error) {
	return 0, e.err
}
