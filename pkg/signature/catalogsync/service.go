// Package catalogsync synchronizes signature catalogs from local or remote
// sources into a cache file and a live signature database.
package catalogsync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/netsig/netsig/pkg/signature"
)

// Source loads raw catalog bytes (YAML or JSON) from a backing store.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
}

// Store persists catalog bytes to a destination (e.g. a local cache file).
type Store interface {
	Save(ctx context.Context, data []byte) error
}

// Service orchestrates catalog synchronization: fetch, validate, persist,
// then swap the validated set into the live database.
type Service struct {
	Source Source
	Store  Store
	DB     *signature.Database
}

// Sync fetches the catalog from Source, validates it, writes it via Store and
// replaces the database contents. The database is only touched after the
// catalog has parsed cleanly.
func (s Service) Sync(ctx context.Context) ([]*signature.Signature, error) {
	if s.Source == nil {
		return nil, errors.New("catalog source is not configured")
	}
	if s.Store == nil {
		return nil, errors.New("catalog store is not configured")
	}

	data, err := s.Source.Load(ctx)
	if err != nil {
		return nil, &signature.PersistenceError{Op: "fetch", Err: err}
	}

	sigs, err := signature.ParseCatalogYAML(data)
	if err != nil {
		return nil, err
	}

	if err := s.Store.Save(ctx, data); err != nil {
		return nil, &signature.PersistenceError{Op: "save", Err: err}
	}

	if s.DB != nil {
		if err := s.DB.Replace(sigs); err != nil {
			return nil, &signature.PersistenceError{Op: "load", Err: err}
		}
	}

	return sigs, nil
}

// FileSource loads the catalog from a local file path.
type FileSource struct {
	Path string
}

// Load reads the catalog file.
func (f FileSource) Load(_ context.Context) ([]byte, error) {
	if f.Path == "" {
		return nil, errors.New("file path is empty")
	}
	return os.ReadFile(f.Path)
}

// HTTPSource downloads the catalog from a URL using the provided http.Client
// (or a default with a 30s timeout).
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// Load fetches the catalog over HTTP.
func (h HTTPSource) Load(ctx context.Context) ([]byte, error) {
	if h.URL == "" {
		return nil, errors.New("url is empty")
	}
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status from catalog source: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog body: %w", err)
	}
	return data, nil
}

// FileStore writes the catalog bytes to a path on disk.
type FileStore struct {
	Path string
}

// Save writes data to the store path, creating parent directories as needed.
func (f FileStore) Save(_ context.Context, data []byte) error {
	if f.Path == "" {
		return errors.New("store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0o644)
}
