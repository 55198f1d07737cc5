// Package config reads server and CLI settings from the environment.
package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mmynk/spliteasy/internal/storage"
	"github.com/mmynk/spliteasy/internal/storage/gist"
	"github.com/mmynk/spliteasy/internal/storage/jsonfile"
	"github.com/mmynk/spliteasy/internal/storage/redisstore"
	"github.com/mmynk/spliteasy/internal/storage/sqlite"
)

// Primary store backends.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

type Config struct {
	Port         string
	Store        string
	DataFile     string
	DBPath       string
	RedisURL     string
	GitHubToken  string
	GistID       string
	GitHubAPIURL string
	Currency     string
	SyncSchedule string
}

// Load reads an optional .env file, then the environment.
func Load() *Config {
	godotenv.Load() // Load .env file if present

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Store:        strings.ToLower(getEnv("STORE", StoreJSON)),
		DataFile:     getEnv("DATA_FILE", "./data/spliteasy.json"),
		DBPath:       getEnv("DB_PATH", "./data/spliteasy.db"),
		RedisURL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
		GitHubToken:  getEnv("GITHUB_TOKEN", ""),
		GistID:       getEnv("GIST_ID", ""),
		GitHubAPIURL: getEnv("GITHUB_API_URL", gist.DefaultBaseURL),
		Currency:     strings.ToUpper(getEnv("CURRENCY", "INR")),
		SyncSchedule: getEnv("SYNC_SCHEDULE", ""),
	}
}

// SyncEnabled reports whether both GitHub settings needed for the mirror are set.
func (c *Config) SyncEnabled() bool {
	return c.GitHubToken != "" && c.GistID != ""
}

// OpenStore opens the configured primary store.
func OpenStore(ctx context.Context, cfg *Config) (storage.Store, error) {
	switch cfg.Store {
	case StoreJSON, "":
		return jsonfile.New(cfg.DataFile)
	case StoreSQLite:
		return sqlite.New(cfg.DBPath)
	case StoreRedis:
		return redisstore.New(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown store %q: want %s, %s or %s", cfg.Store, StoreJSON, StoreSQLite, StoreRedis)
	}
}

// OpenMirror returns the gist store when sync is configured, or nil.
func OpenMirror(cfg *Config) *gist.Store {
	if !cfg.SyncEnabled() {
		return nil
	}
	return Gist(cfg)
}

// Gist returns a gist store for the configured token and gist id. The id may
// be empty, e.g. before creating a new gist.
func Gist(cfg *Config) *gist.Store {
	return gist.New(cfg.GitHubToken, cfg.GistID, gist.WithBaseURL(cfg.GitHubAPIURL))
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
