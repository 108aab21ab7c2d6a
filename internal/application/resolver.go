package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/vicdevmanx/gurutasks/internal/domain/repository"
)

// Resolver turns human-readable reference names (role names, task status
// names) into stable row ids, creating the row on first sight.
//
// Two concurrent calls with the same unseen name can both miss the lookup
// and both insert. The store's UNIQUE(name) constraint makes the loser
// fail with ErrDuplicateKey; the resolver then re-runs the lookup once and
// returns the winner's id. No locks anywhere else depend on this.
type Resolver struct {
	Refs repository.ReferenceRepository
}

func NewResolver(refs repository.ReferenceRepository) *Resolver {
	return &Resolver{Refs: refs}
}

// Resolve returns the id for name in the given lookup table, inserting the
// row if absent. Idempotent for already-seen names.
func (r *Resolver) Resolve(ctx context.Context, kind repository.ReferenceKind, name string) (int64, error) {
	id, err := r.Refs.FindByName(ctx, kind, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, fmt.Errorf("resolve %s %q: %w", kind, name, err)
	}

	id, err = r.Refs.Insert(ctx, kind, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, repository.ErrDuplicateKey) {
		return 0, fmt.Errorf("resolve %s %q: %w", kind, name, err)
	}

	// Lost the insert race; the winner's row exists now.
	id, err = r.Refs.FindByName(ctx, kind, name)
	if err != nil {
		return 0, fmt.Errorf("resolve %s %q after conflict: %w", kind, name, err)
	}
	return id, nil
}
