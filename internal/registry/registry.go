// Package registry manages the catalog of stored mock sets.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mockhive/mockhive/internal/storage"
	"github.com/mockhive/mockhive/pkg/mock"
)

// Manager handles mock set operations.
type Manager struct {
	storage storage.Storage
}

// NewManager creates a new registry manager.
func NewManager(store storage.Storage) *Manager {
	return &Manager{storage: store}
}

// Import stores a newly parsed set, assigning it an ID and timestamps.
func (m *Manager) Import(ctx context.Context, set *mock.Set) error {
	now := time.Now()
	set.ID = uuid.New().String()
	set.CreatedAt = now
	set.UpdatedAt = now
	if set.Version == 0 {
		set.Version = 1
	}

	return m.storage.CreateSet(ctx, set)
}

// Get retrieves a set by ID.
func (m *Manager) Get(ctx context.Context, id string) (*mock.Set, error) {
	return m.storage.GetSet(ctx, id)
}

// GetByName retrieves a set by name.
func (m *Manager) GetByName(ctx context.Context, name string) (*mock.Set, error) {
	return m.storage.GetSetByName(ctx, name)
}

// Resolve retrieves a set by ID first, then by name.
func (m *Manager) Resolve(ctx context.Context, idOrName string) (*mock.Set, error) {
	set, err := m.storage.GetSet(ctx, idOrName)
	if err != nil {
		return nil, err
	}
	if set != nil {
		return set, nil
	}

	set, err = m.storage.GetSetByName(ctx, idOrName)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, fmt.Errorf("mock set not found: %s", idOrName)
	}
	return set, nil
}

// List returns all stored sets.
func (m *Manager) List(ctx context.Context) ([]*mock.Set, error) {
	return m.storage.ListSets(ctx)
}

// Update replaces a stored set's definition and bumps its version.
func (m *Manager) Update(ctx context.Context, set *mock.Set) error {
	set.Version++
	return m.storage.UpdateSet(ctx, set)
}

// Delete deletes a set.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.storage.DeleteSet(ctx, id)
}
