// Package storage provides abstractions for persisting the ledger document.
package storage

import (
	"context"

	"github.com/mmynk/spliteasy/internal/models"
)

// Store defines the interface for document storage.
// This abstraction allows swapping storage backends (JSON file, SQLite, Redis,
// a GitHub gist) without changing the ledger or the service layer.
//
// A store always holds one whole snapshot: Save replaces whatever was there.
type Store interface {
	// Load returns the stored document.
	// A store that has never been written returns an empty document, not an error.
	Load(ctx context.Context) (*models.Document, error)

	// Save replaces the stored document. Implementations set doc.LastUpdated.
	Save(ctx context.Context, doc *models.Document) error

	// Close releases any resources held by the store.
	Close() error
}

// NewDocument returns an empty document with non-nil collections.
func NewDocument() *models.Document {
	return &models.Document{
		Users:       []models.User{},
		Expenses:    []models.Expense{},
		Settlements: []models.Settlement{},
	}
}
