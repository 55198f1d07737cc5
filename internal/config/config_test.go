package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mmynk/spliteasy/internal/storage/jsonfile"
	"github.com/mmynk/spliteasy/internal/storage/sqlite"
)

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE", "SQLite")
	t.Setenv("CURRENCY", "usd")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GIST_ID", "")
	t.Setenv("DATA_FILE", "")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.Store != StoreSQLite {
		t.Errorf("Store = %q, want %q", cfg.Store, StoreSQLite)
	}
	if cfg.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", cfg.Currency)
	}
	if cfg.DataFile != "./data/spliteasy.json" {
		t.Errorf("DataFile = %q, want default", cfg.DataFile)
	}
	if cfg.SyncEnabled() {
		t.Error("expected sync to be disabled without token and gist id")
	}
	if OpenMirror(cfg) != nil {
		t.Error("expected no mirror without token and gist id")
	}
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		name         string
		cfg          Config
		wantErr      bool
		validateFunc func(t *testing.T, store any)
	}{
		{
			name: "json",
			cfg:  Config{Store: StoreJSON, DataFile: filepath.Join(dir, "d.json")},
			validateFunc: func(t *testing.T, store any) {
				if _, ok := store.(*jsonfile.FileStore); !ok {
					t.Errorf("got %T, want *jsonfile.FileStore", store)
				}
			},
		},
		{
			name: "sqlite",
			cfg:  Config{Store: StoreSQLite, DBPath: filepath.Join(dir, "d.db")},
			validateFunc: func(t *testing.T, store any) {
				if _, ok := store.(*sqlite.SQLiteStore); !ok {
					t.Errorf("got %T, want *sqlite.SQLiteStore", store)
				}
			},
		},
		{
			name:    "unknown",
			cfg:     Config{Store: "postgres"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := OpenStore(ctx, &tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("OpenStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer store.Close()
			if tt.validateFunc != nil {
				tt.validateFunc(t, store)
			}
		})
	}
}

func TestOpenMirror(t *testing.T) {
	cfg := &Config{GitHubToken: "t", GistID: "abc", GitHubAPIURL: "http://example.test"}
	mirror := OpenMirror(cfg)
	if mirror == nil {
		t.Fatal("expected a mirror when token and gist id are set")
	}
	if mirror.ID() != "abc" {
		t.Errorf("gist id = %q, want abc", mirror.ID())
	}
}
