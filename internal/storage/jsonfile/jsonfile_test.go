package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/spliteasy/internal/models"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "spliteasy.json")

	store, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer store.Close()

	doc, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load on missing file failed: %v", err)
	}
	if len(doc.Users) != 0 || len(doc.Expenses) != 0 {
		t.Errorf("expected empty document, got %+v", doc)
	}

	doc.Users = append(doc.Users, models.User{ID: "u1", Name: "Asha", Color: "#FF6B6B"})
	doc.Expenses = append(doc.Expenses, models.Expense{
		ID:           "e1",
		Description:  "Tea",
		Amount:       decimal.RequireFromString("12.75"),
		Payer:        "u1",
		Participants: []models.Share{models.EqualShare("u1")},
	})
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if doc.LastUpdated.IsZero() {
		t.Error("expected Save to set LastUpdated")
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Users) != 1 || got.Users[0].Name != "Asha" {
		t.Errorf("users = %+v", got.Users)
	}
	if !got.Expenses[0].Amount.Equal(decimal.RequireFromString("12.75")) {
		t.Errorf("amount = %s, want 12.75", got.Expenses[0].Amount)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the document in the data directory, found %d entries", len(entries))
	}
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spliteasy.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	store, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := store.Load(context.Background()); err == nil {
		t.Error("expected error for corrupt document")
	}
}
