package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/store"
)

// slowStore widens the window between a read and the following write so
// that overlapping callers actually interleave.
type slowStore struct {
	store.Store
}

func (s *slowStore) Get(ctx context.Context, key string) (string, error) {
	time.Sleep(10 * time.Millisecond)
	return s.Store.Get(ctx, key)
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"lowercase_passthrough", "alice@example.com", "alice@example.com"},
		{"mixed_case", "Alice@Example.COM", "alice@example.com"},
		{"surrounding_space", "  bob@example.com ", "bob@example.com"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := NormalizeEmail(test.email); got != test.want {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", test.email, got, test.want)
			}
		})
	}
}

func TestAddAndFind(t *testing.T) {
	ctx := context.Background()
	dir := New(store.NewMemory())

	ident := model.Identity{ID: "u1", Email: "alice@example.com", Name: "Alice", PasswordHash: "h"}
	if err := dir.Add(ctx, ident); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	found, err := dir.FindByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if found.ID != "u1" || found.Name != "Alice" {
		t.Errorf("unexpected identity: %+v", found)
	}

	// Lookup normalizes too
	found, err = dir.FindByEmail(ctx, " ALICE@example.com")
	if err != nil {
		t.Fatalf("normalized FindByEmail failed: %v", err)
	}
	if found.ID != "u1" {
		t.Errorf("unexpected identity: %+v", found)
	}
}

func TestFindUnknownEmail(t *testing.T) {
	ctx := context.Background()
	dir := New(store.NewMemory())

	_, err := dir.FindByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, ErrIdentityNotFound) {
		t.Errorf("expected ErrIdentityNotFound, got %v", err)
	}
}

func TestAddDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	dir := New(store.NewMemory())

	if err := dir.Add(ctx, model.Identity{ID: "u1", Email: "alice@example.com"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// Same email with different case is still a conflict
	err := dir.Add(ctx, model.Identity{ID: "u2", Email: "Alice@Example.com"})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	// Directory unchanged
	count, err := dir.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 identity after rejected duplicate, got %d", count)
	}
}

func TestConcurrentAddsAllLand(t *testing.T) {
	ctx := context.Background()
	dir := New(&slowStore{Store: store.NewMemory()})

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = dir.Add(ctx, model.Identity{
				ID:    fmt.Sprintf("u%d", i),
				Email: fmt.Sprintf("user%d@example.com", i),
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Add %d failed: %v", i, err)
		}
	}

	count, err := dir.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != workers {
		t.Errorf("%d concurrent Adds landed %d identities", workers, count)
	}
}

func TestConcurrentAddsSameEmail(t *testing.T) {
	ctx := context.Background()
	dir := New(&slowStore{Store: store.NewMemory()})

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = dir.Add(ctx, model.Identity{
				ID:    fmt.Sprintf("u%d", i),
				Email: "alice@example.com",
			})
		}(i)
	}
	wg.Wait()

	var registered, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			registered++
		case errors.Is(err, ErrEmailExists):
			rejected++
		default:
			t.Fatalf("unexpected Add error: %v", err)
		}
	}
	if registered != 1 || rejected != 1 {
		t.Errorf("expected exactly one registration to win, got %d registered / %d rejected",
			registered, rejected)
	}

	count, err := dir.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 identity after racing duplicates, got %d", count)
	}
}
