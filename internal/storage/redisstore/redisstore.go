// Package redisstore keeps the ledger document as a single JSON value in Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmynk/spliteasy/internal/models"
	"github.com/mmynk/spliteasy/internal/storage"
)

// Ensure RedisStore implements storage.Store
var _ storage.Store = (*RedisStore)(nil)

// DefaultKey is the key the document is stored under.
const DefaultKey = "spliteasy:document"

// RedisStore implements storage.Store on a Redis string key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// New connects to the server at redisURL (redis://[user:pass@]host:port/db)
// and checks that it answers.
func New(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewWithClient(client, DefaultKey), nil
}

// NewWithClient wraps an existing client. The store takes ownership of the
// client and closes it on Close.
func NewWithClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{client: client, key: key}
}

// Load reads the document. A missing key yields an empty document.
func (s *RedisStore) Load(ctx context.Context) (*models.Document, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return storage.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", s.key, err)
	}
	return storage.UnmarshalDocument(data)
}

// Save replaces the document.
func (s *RedisStore) Save(ctx context.Context, doc *models.Document) error {
	doc.LastUpdated = time.Now().UTC()
	data, err := storage.MarshalDocument(doc)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", s.key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
