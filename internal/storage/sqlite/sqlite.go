// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/spliteasy/internal/models"
	"github.com/mmynk/spliteasy/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

const lastUpdatedKey = "last_updated"

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps the foreign_keys pragma in effect for every query.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads the whole document. An empty database yields an empty document.
func (s *SQLiteStore) Load(ctx context.Context) (*models.Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	doc := storage.NewDocument()

	if doc.Users, err = loadUsers(ctx, tx); err != nil {
		return nil, err
	}
	if doc.Expenses, err = loadExpenses(ctx, tx); err != nil {
		return nil, err
	}
	if doc.Settlements, err = loadSettlements(ctx, tx); err != nil {
		return nil, err
	}

	var lastUpdated string
	err = tx.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, lastUpdatedKey).Scan(&lastUpdated)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return nil, fmt.Errorf("failed to get last update time: %w", err)
	default:
		if doc.LastUpdated, err = time.Parse(time.RFC3339Nano, lastUpdated); err != nil {
			return nil, fmt.Errorf("invalid last update time %q: %w", lastUpdated, err)
		}
	}

	return doc, nil
}

// Save replaces the stored document in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, doc *models.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Shares go with their expenses via ON DELETE CASCADE.
	for _, table := range []string{"expenses", "users", "settlements"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertUsers(ctx, tx, doc.Users); err != nil {
		return err
	}
	if err := insertExpenses(ctx, tx, doc.Expenses); err != nil {
		return err
	}
	if err := insertSettlements(ctx, tx, doc.Settlements); err != nil {
		return err
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		lastUpdatedKey, now.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("failed to set last update time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	doc.LastUpdated = now
	return nil
}
