package subdomain

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct {
	existing []string
	err      error
	calls    int
}

func (f *fakeStore) ListWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	f.calls++
	_ = ctx
	_ = prefix
	return f.existing, f.err
}

func TestAllocateFreeCandidate(t *testing.T) {
	alloc := NewAllocator(&fakeStore{})
	got, err := alloc.Allocate(context.Background(), "pizzaria")
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if got != "pizzaria" {
		t.Fatalf("expected pizzaria, got %q", got)
	}
}

func TestAllocateSuffixesInAscendingOrder(t *testing.T) {
	alloc := NewAllocator(&fakeStore{existing: []string{"pizzaria", "pizzaria1"}})
	got, err := alloc.Allocate(context.Background(), "pizzaria")
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if got != "pizzaria2" {
		t.Fatalf("expected pizzaria2, got %q", got)
	}
}

func TestAllocateSkipsHolesDeterministically(t *testing.T) {
	// A freed value is only reused in ascending order from 1.
	alloc := NewAllocator(&fakeStore{existing: []string{"loja", "loja2"}})
	got, err := alloc.Allocate(context.Background(), "loja")
	if err != nil {
		t.Fatalf("allocate failed: %v", err)
	}
	if got != "loja1" {
		t.Fatalf("expected loja1, got %q", got)
	}
}

func TestAllocateSurfacesStoreError(t *testing.T) {
	storeErr := errors.New("store unavailable")
	alloc := NewAllocator(&fakeStore{err: storeErr})
	if _, err := alloc.Allocate(context.Background(), "pizzaria"); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to surface, got %v", err)
	}
}

func TestAllocateRejectsEmptyCandidate(t *testing.T) {
	store := &fakeStore{}
	alloc := NewAllocator(store)
	if _, err := alloc.Allocate(context.Background(), ""); !errors.Is(err, ErrInvalidCandidate) {
		t.Fatalf("expected ErrInvalidCandidate, got %v", err)
	}
	if store.calls != 0 {
		t.Fatal("expected no store call for invalid candidate")
	}
}
