package gist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/spliteasy/internal/models"
)

// fakeGitHub is an in-memory stand-in for the gists API.
type fakeGitHub struct {
	mu    sync.Mutex
	gists map[string]map[string]string
	next  int
	auth  []string
}

func newFakeGitHub(t *testing.T) (*fakeGitHub, *httptest.Server) {
	t.Helper()
	f := &fakeGitHub{gists: make(map[string]map[string]string)}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeGitHub) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))

	var body gistPayload
	if r.Body != nil && r.Method != http.MethodGet {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	id := strings.TrimPrefix(r.URL.Path, "/gists/")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/gists":
		if body.Public == nil || *body.Public {
			http.Error(w, "expected private gist", http.StatusBadRequest)
			return
		}
		f.next++
		id = "gist" + strconv.Itoa(f.next)
		f.gists[id] = map[string]string{}
		for name, file := range body.Files {
			f.gists[id][name] = file.Content
		}
		w.WriteHeader(http.StatusCreated)
		f.write(w, id)
	case r.Method == http.MethodGet:
		if _, ok := f.gists[id]; !ok {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
			return
		}
		f.write(w, id)
	case r.Method == http.MethodPatch:
		if _, ok := f.gists[id]; !ok {
			http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
			return
		}
		for name, file := range body.Files {
			f.gists[id][name] = file.Content
		}
		f.write(w, id)
	default:
		http.Error(w, "unexpected request", http.StatusMethodNotAllowed)
	}
}

func (f *fakeGitHub) write(w http.ResponseWriter, id string) {
	resp := map[string]any{"id": id}
	files := map[string]any{}
	for name, content := range f.gists[id] {
		files[name] = map[string]any{"content": content, "truncated": false}
	}
	resp["files"] = files
	json.NewEncoder(w).Encode(resp)
}

func TestStore(t *testing.T) {
	fake, srv := newFakeGitHub(t)
	ctx := context.Background()

	store := New("secret", "", WithBaseURL(srv.URL))
	defer store.Close()

	if _, err := store.Load(ctx); !errors.Is(err, ErrNoGist) {
		t.Fatalf("Load without gist: error = %v, want ErrNoGist", err)
	}

	doc := &models.Document{
		Users: []models.User{{ID: "u1", Name: "Asha", Color: "#FF6B6B"}},
	}
	id, err := store.Create(ctx, doc)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id == "" || store.ID() != id {
		t.Fatalf("Create returned id %q, store has %q", id, store.ID())
	}

	doc.Expenses = append(doc.Expenses, models.Expense{
		ID:           "e1",
		Description:  "Tea",
		Amount:       decimal.RequireFromString("4.20"),
		Payer:        "u1",
		Participants: []models.Share{models.EqualShare("u1")},
	})
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	other := New("secret", id, WithBaseURL(srv.URL+"/"))
	got, err := other.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Users) != 1 || len(got.Expenses) != 1 {
		t.Fatalf("Loaded %+v", got)
	}
	if !got.Expenses[0].Amount.Equal(decimal.RequireFromString("4.2")) {
		t.Errorf("amount = %s, want 4.2", got.Expenses[0].Amount)
	}

	for _, h := range fake.auth {
		if h != "token secret" {
			t.Errorf("Authorization header = %q, want %q", h, "token secret")
		}
	}
}

func TestStore_LoadLegacyAndMissingFile(t *testing.T) {
	fake, srv := newFakeGitHub(t)
	fake.gists["legacy"] = map[string]string{
		FileName: `{"users":[{"id":"1","name":"A"}],"expenses":[{"id":"2","description":"x","amount":10,"payer":"1","participants":["1"],"date":"2023-01-01"}],"settlements":[]}`,
	}
	fake.gists["empty"] = map[string]string{"other.txt": "hello"}

	ctx := context.Background()

	doc, err := New("t", "legacy", WithBaseURL(srv.URL)).Load(ctx)
	if err != nil {
		t.Fatalf("Load legacy failed: %v", err)
	}
	if p := doc.Expenses[0].Participants; len(p) != 1 || p[0].UserID != "1" || p[0].IsCustom() {
		t.Errorf("participants = %+v", p)
	}

	doc, err = New("t", "empty", WithBaseURL(srv.URL)).Load(ctx)
	if err != nil {
		t.Fatalf("Load without data file failed: %v", err)
	}
	if len(doc.Users) != 0 {
		t.Errorf("expected empty document, got %+v", doc)
	}

	if _, err := New("t", "missing", WithBaseURL(srv.URL)).Load(ctx); err == nil {
		t.Error("expected error for unknown gist")
	}
}

func TestStore_LoadTruncatedContent(t *testing.T) {
	const content = `{"users":[{"id":"u1","name":"Asha"}],"expenses":[],"settlements":[]}`

	var mu sync.Mutex
	var rawAuth []string
	rawSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		rawAuth = append(rawAuth, r.Header.Get("Authorization"))
		mu.Unlock()
		w.Write([]byte(content))
	}))
	defer rawSrv.Close()

	// The API serves its own raw content under /raw and points elsewhere for
	// the "cdn" gist.
	var api *httptest.Server
	api = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/raw":
			mu.Lock()
			rawAuth = append(rawAuth, r.Header.Get("Authorization"))
			mu.Unlock()
			w.Write([]byte(content))
			return
		case "/gists/cdn", "/gists/local":
		default:
			http.NotFound(w, r)
			return
		}
		rawURL := rawSrv.URL + "/u/cdn/raw"
		if r.URL.Path == "/gists/local" {
			rawURL = api.URL + "/raw"
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": strings.TrimPrefix(r.URL.Path, "/gists/"),
			"files": map[string]any{
				FileName: map[string]any{"content": content[:10], "truncated": true, "raw_url": rawURL},
			},
		})
	}))
	defer api.Close()

	tests := []struct {
		name     string
		gistID   string
		wantAuth string
	}{
		{name: "other host gets no token", gistID: "cdn", wantAuth: ""},
		{name: "api host gets the token", gistID: "local", wantAuth: "token secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mu.Lock()
			rawAuth = nil
			mu.Unlock()

			doc, err := New("secret", tt.gistID, WithBaseURL(api.URL)).Load(context.Background())
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(doc.Users) != 1 || doc.Users[0].Name != "Asha" {
				t.Errorf("expected full content from raw_url, got %+v", doc.Users)
			}

			mu.Lock()
			defer mu.Unlock()
			if len(rawAuth) != 1 || rawAuth[0] != tt.wantAuth {
				t.Errorf("raw Authorization headers = %q, want [%q]", rawAuth, tt.wantAuth)
			}
		})
	}
}
