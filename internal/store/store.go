// Package store provides the key-value persistence layer.
//
// Every durable record in the application lives under a string key holding a
// JSON-serialized value. The Store interface abstracts the backing driver so
// the managers above it never care whether values land in an embedded
// database, Redis, or Postgres.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound indicates the key does not exist in the store.
var ErrNotFound = errors.New("key not found")

// Store is a durable key→string store.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes the value for key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping checks backend connectivity.
	Ping(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

// Supported driver names.
const (
	DriverMemory   = "memory"
	DriverBadger   = "badger"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Options selects and configures a driver.
type Options struct {
	Driver      string
	BadgerPath  string
	RedisURL    string
	DatabaseURL string
	Logger      *slog.Logger
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverBadger:
		return NewBadger(opts.BadgerPath, opts.Logger)
	case DriverRedis:
		return NewRedis(ctx, opts.RedisURL)
	case DriverPostgres:
		return NewPostgres(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
