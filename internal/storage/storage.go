// Package storage defines the storage interface for mockhive.
package storage

import (
	"context"

	"github.com/mockhive/mockhive/pkg/mock"
)

// Storage defines the interface for persisting mock sets.
type Storage interface {
	// Initialize the storage (run migrations, etc.)
	Init(ctx context.Context) error

	// Close the storage connection
	Close() error

	// Mock set operations
	CreateSet(ctx context.Context, set *mock.Set) error
	GetSet(ctx context.Context, id string) (*mock.Set, error)
	GetSetByName(ctx context.Context, name string) (*mock.Set, error)
	ListSets(ctx context.Context) ([]*mock.Set, error)
	UpdateSet(ctx context.Context, set *mock.Set) error
	DeleteSet(ctx context.Context, id string) error
}
