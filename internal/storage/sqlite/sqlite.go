// Package sqlite provides a SQLite implementation of the storage interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mockhive/mockhive/pkg/mock"
	_ "modernc.org/sqlite"
)

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// New creates a new SQLite storage instance.
func New(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &SQLiteStorage{
		db:   db,
		path: path,
	}, nil
}

// Init initializes the database schema.
func (s *SQLiteStorage) Init(ctx context.Context) error {
	// Check current schema version
	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		// Table doesn't exist, run all migrations
		version = 0
	}

	// Run migrations that haven't been applied
	for i := version; i < len(migrations); i++ {
		if _, err := s.db.ExecContext(ctx, migrations[i]); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// CreateSet creates a new mock set.
func (s *SQLiteStorage) CreateSet(ctx context.Context, set *mock.Set) error {
	definition, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal set: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sets (id, name, version, definition, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, set.ID, set.Name, set.Version, definition, set.CreatedAt, set.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create set: %w", err)
	}
	return nil
}

// GetSet retrieves a mock set by ID.
func (s *SQLiteStorage) GetSet(ctx context.Context, id string) (*mock.Set, error) {
	return s.getSet(ctx, `SELECT definition FROM sets WHERE id = ?`, id)
}

// GetSetByName retrieves a mock set by name.
func (s *SQLiteStorage) GetSetByName(ctx context.Context, name string) (*mock.Set, error) {
	return s.getSet(ctx, `SELECT definition FROM sets WHERE name = ?`, name)
}

func (s *SQLiteStorage) getSet(ctx context.Context, query string, arg any) (*mock.Set, error) {
	var definition []byte
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&definition)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get set: %w", err)
	}

	var set mock.Set
	if err := json.Unmarshal(definition, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal set: %w", err)
	}
	return &set, nil
}

// ListSets returns all mock sets, most recently created first.
func (s *SQLiteStorage) ListSets(ctx context.Context) ([]*mock.Set, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT definition FROM sets ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sets: %w", err)
	}
	defer rows.Close()

	var sets []*mock.Set
	for rows.Next() {
		var definition []byte
		if err := rows.Scan(&definition); err != nil {
			return nil, fmt.Errorf("failed to scan set: %w", err)
		}

		var set mock.Set
		if err := json.Unmarshal(definition, &set); err != nil {
			return nil, fmt.Errorf("failed to unmarshal set: %w", err)
		}
		sets = append(sets, &set)
	}
	return sets, rows.Err()
}

// UpdateSet updates an existing mock set.
func (s *SQLiteStorage) UpdateSet(ctx context.Context, set *mock.Set) error {
	set.UpdatedAt = time.Now()
	definition, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal set: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE sets SET name = ?, version = ?, definition = ?, updated_at = ?
		WHERE id = ?
	`, set.Name, set.Version, definition, set.UpdatedAt, set.ID)
	if err != nil {
		return fmt.Errorf("failed to update set: %w", err)
	}
	return nil
}

// DeleteSet deletes a mock set.
func (s *SQLiteStorage) DeleteSet(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete set: %w", err)
	}
	return nil
}
