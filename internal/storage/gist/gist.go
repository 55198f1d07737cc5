// Package gist stores the ledger document in a private GitHub gist so that
// several installations can share one ledger.
package gist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmynk/spliteasy/internal/models"
	"github.com/mmynk/spliteasy/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

const (
	// DefaultBaseURL is the public GitHub API.
	DefaultBaseURL = "https://api.github.com"

	// FileName is the gist file holding the document.
	FileName = "splitease-data.json"

	description = "SplitEasy Expense Data"
)

// ErrNoGist is returned by Load and Save before a gist id is known.
var ErrNoGist = errors.New("no gist configured")

// Store talks to the GitHub gists API.
type Store struct {
	baseURL string
	token   string
	gistID  string
	client  *http.Client
}

// Option configures a Store.
type Option func(*Store)

// WithBaseURL points the store at another API endpoint.
func WithBaseURL(u string) Option {
	return func(s *Store) {
		if u != "" {
			s.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		s.client = c
	}
}

// New returns a Store for gistID authenticated with token. gistID may be
// empty until Create is called.
func New(token, gistID string, opts ...Option) *Store {
	s := &Store{
		baseURL: DefaultBaseURL,
		token:   token,
		gistID:  gistID,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the gist id.
func (s *Store) ID() string {
	return s.gistID
}

type gistFile struct {
	Content string `json:"content"`
}

type gistPayload struct {
	Description string              `json:"description,omitempty"`
	Public      *bool               `json:"public,omitempty"`
	Files       map[string]gistFile `json:"files"`
}

type gistResponse struct {
	ID    string `json:"id"`
	Files map[string]struct {
		Content   string `json:"content"`
		Truncated bool   `json:"truncated"`
		RawURL    string `json:"raw_url"`
	} `json:"files"`
}

// Create uploads doc to a new private gist and returns its id. Later Load
// and Save calls use that gist.
func (s *Store) Create(ctx context.Context, doc *models.Document) (string, error) {
	content, err := s.encode(doc)
	if err != nil {
		return "", err
	}

	public := false
	payload := gistPayload{
		Description: description,
		Public:      &public,
		Files:       map[string]gistFile{FileName: {Content: content}},
	}

	var created gistResponse
	if err := s.do(ctx, http.MethodPost, "/gists", payload, &created); err != nil {
		return "", fmt.Errorf("failed to create gist: %w", err)
	}
	s.gistID = created.ID

	slog.Info("Gist created", "gist_id", created.ID)
	return created.ID, nil
}

// Load fetches the document from the gist. A gist without the data file
// yields an empty document.
func (s *Store) Load(ctx context.Context) (*models.Document, error) {
	if s.gistID == "" {
		return nil, ErrNoGist
	}

	var gist gistResponse
	if err := s.do(ctx, http.MethodGet, "/gists/"+s.gistID, nil, &gist); err != nil {
		return nil, fmt.Errorf("failed to fetch gist: %w", err)
	}

	file, ok := gist.Files[FileName]
	if !ok {
		slog.Warn("Gist has no data file", "gist_id", s.gistID, "file", FileName)
		return storage.NewDocument(), nil
	}

	content := file.Content
	if file.Truncated && file.RawURL != "" {
		raw, err := s.fetchRaw(ctx, file.RawURL)
		if err != nil {
			return nil, err
		}
		content = raw
	}

	slog.Debug("Gist loaded", "gist_id", s.gistID, "bytes", len(content))
	return storage.UnmarshalDocument([]byte(content))
}

// Save replaces the data file of the gist.
func (s *Store) Save(ctx context.Context, doc *models.Document) error {
	if s.gistID == "" {
		return ErrNoGist
	}

	content, err := s.encode(doc)
	if err != nil {
		return err
	}
	payload := gistPayload{Files: map[string]gistFile{FileName: {Content: content}}}

	if err := s.do(ctx, http.MethodPatch, "/gists/"+s.gistID, payload, nil); err != nil {
		return fmt.Errorf("failed to update gist: %w", err)
	}

	slog.Debug("Gist updated", "gist_id", s.gistID)
	return nil
}

// Close releases idle connections.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *Store) encode(doc *models.Document) (string, error) {
	doc.LastUpdated = time.Now().UTC()
	data, err := storage.MarshalDocument(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Store) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	s.authorize(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (s *Store) fetchRaw(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	// Raw content of a secret gist needs no token; it is only sent back to
	// the API host itself.
	if s.sameHost(req.URL) {
		s.authorize(req)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch gist content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("failed to fetch gist content: %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gist content: %w", err)
	}
	return string(data), nil
}

func (s *Store) sameHost(u *url.URL) bool {
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(base.Scheme, u.Scheme) && strings.EqualFold(base.Host, u.Host)
}

func (s *Store) authorize(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	if s.token != "" {
		req.Header.Set("Authorization", "token "+s.token)
	}
}
