// Package jsonfile provides a storage.Store backed by a single JSON document
// on the local filesystem.
package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmynk/spliteasy/internal/models"
	"github.com/mmynk/spliteasy/internal/storage"
)

// Ensure FileStore implements storage.Store
var _ storage.Store = (*FileStore)(nil)

// FileStore keeps the ledger document in one file. Writes go to a temporary
// file in the same directory which then replaces the document, so a crash
// never leaves a half-written file behind.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// New creates a FileStore for path, creating the parent directory if needed.
func New(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the document location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the document. A missing file yields an empty document.
func (s *FileStore) Load(ctx context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return storage.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	return storage.DecodeDocument(f)
}

// Save replaces the document on disk.
func (s *FileStore) Save(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc.LastUpdated = time.Now().UTC()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := storage.EncodeDocument(tmp, doc); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *FileStore) Close() error {
	return nil
}
