package subdomain

import (
	"context"
	"errors"
	"strconv"
)

var (
	// ErrInvalidCandidate means the business name produced no usable
	// candidate. Signup must fail with a validation error instead of silently
	// allocating a bare numeric subdomain.
	ErrInvalidCandidate = errors.New("invalid_subdomain")
	// ErrUnavailable means allocation kept colliding after retries.
	ErrUnavailable = errors.New("subdomain_unavailable")
)

// Store is the record-store boundary the allocator reads through.
type Store interface {
	// ListWithPrefix returns every existing subdomain starting with prefix,
	// matched case-insensitively.
	ListWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// Allocator picks a free subdomain for a candidate. The decision is pure: the
// caller performs the insert, and the store's unique constraint remains the
// final authority. Two racing signups can both see the same free value; the
// caller handles the losing insert by re-running Allocate with the refreshed
// existing set.
type Allocator struct {
	store Store
}

func NewAllocator(store Store) *Allocator {
	return &Allocator{store: store}
}

// Allocate returns candidate itself when free, otherwise the first free value
// in the deterministic sequence candidate1, candidate2, … Store failures
// propagate; allocating blind would risk a duplicate-subdomain race.
func (a *Allocator) Allocate(ctx context.Context, candidate string) (string, error) {
	if !Valid(candidate) {
		return "", ErrInvalidCandidate
	}

	existing, err := a.store.ListWithPrefix(ctx, candidate)
	if err != nil {
		return "", err
	}

	taken := make(map[string]struct{}, len(existing))
	for _, value := range existing {
		taken[value] = struct{}{}
	}

	if _, ok := taken[candidate]; !ok {
		return candidate, nil
	}

	for i := 1; ; i++ {
		next := candidate + strconv.Itoa(i)
		if _, ok := taken[next]; !ok {
			return next, nil
		}
	}
}
