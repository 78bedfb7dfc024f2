// Package directory manages the identity directory: the full set of
// registered accounts used to authenticate sign-in attempts.
//
// The directory is persisted as one JSON array under a fixed store key, the
// same shape a future backend would expose as a users table.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/taskdeck/taskdeck/internal/model"
	"github.com/taskdeck/taskdeck/internal/store"
)

// usersKey is the store key holding the serialized directory.
const usersKey = "users"

var (
	// ErrEmailExists indicates the email is already registered.
	ErrEmailExists = errors.New("email already registered")
	// ErrIdentityNotFound indicates no identity matches the lookup.
	ErrIdentityNotFound = errors.New("identity not found")
)

// NormalizeEmail lowercases and trims an email address. All storage and
// comparison goes through this, so "Alice@Example.com " and
// "alice@example.com" are the same account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Directory provides lookup and registration against the identity store.
type Directory struct {
	store store.Store

	// mu serializes read-modify-write cycles on the stored directory so
	// concurrent registrations cannot drop each other's entries.
	mu sync.Mutex
}

// New creates a Directory backed by the given store.
func New(st store.Store) *Directory {
	return &Directory{store: st}
}

// load reads the full directory, treating an absent key as empty.
func (d *Directory) load(ctx context.Context) ([]model.Identity, error) {
	raw, err := d.store.Get(ctx, usersKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read identity directory: %w", err)
	}

	var identities []model.Identity
	if err := json.Unmarshal([]byte(raw), &identities); err != nil {
		return nil, fmt.Errorf("failed to decode identity directory: %w", err)
	}
	return identities, nil
}

// save writes the full directory back to the store.
func (d *Directory) save(ctx context.Context, identities []model.Identity) error {
	raw, err := json.Marshal(identities)
	if err != nil {
		return fmt.Errorf("failed to encode identity directory: %w", err)
	}
	if err := d.store.Set(ctx, usersKey, string(raw)); err != nil {
		return fmt.Errorf("failed to write identity directory: %w", err)
	}
	return nil
}

// FindByEmail returns the identity registered under the email, or
// ErrIdentityNotFound. The email is normalized before comparison.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*model.Identity, error) {
	identities, err := d.load(ctx)
	if err != nil {
		return nil, err
	}

	normalized := NormalizeEmail(email)
	for i := range identities {
		if identities[i].Email == normalized {
			return &identities[i], nil
		}
	}
	return nil, ErrIdentityNotFound
}

// Add registers a new identity. The identity's email is normalized before
// storage. Fails with ErrEmailExists if the email is already taken. The
// whole load-check-append-save cycle runs under the directory lock.
func (d *Directory) Add(ctx context.Context, identity model.Identity) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	identities, err := d.load(ctx)
	if err != nil {
		return err
	}

	identity.Email = NormalizeEmail(identity.Email)
	for i := range identities {
		if identities[i].Email == identity.Email {
			return ErrEmailExists
		}
	}

	identities = append(identities, identity)
	return d.save(ctx, identities)
}

// Count returns the number of registered identities.
func (d *Directory) Count(ctx context.Context) (int, error) {
	identities, err := d.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(identities), nil
}
