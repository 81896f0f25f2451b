package catalogsync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/netsig/netsig/pkg/signature"
)

const catalogFixture = `signatures:
  - name: HTTP
    port: 80
    protocol: tcp
    patterns:
      - literal: "HTTP/1.1"
  - name: SSH
    port: 22
    protocol: tcp
`

func TestSync_FileSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "source.yaml")
	if err := os.WriteFile(src, []byte(catalogFixture), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	db := signature.NewDatabase()
	out := filepath.Join(dir, "cache", "catalog.yaml")
	svc := Service{
		Source: FileSource{Path: src},
		Store:  FileStore{Path: out},
		DB:     db,
	}

	sigs, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(sigs) != 2 {
		t.Fatalf("expected 2 signatures, got %d", len(sigs))
	}
	if db.Len() != 2 {
		t.Fatalf("database not refreshed, len=%d", db.Len())
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("catalog not cached: %v", err)
	}
}

func TestSync_HTTPSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(catalogFixture))
	}))
	defer server.Close()

	db := signature.NewDatabase()
	svc := Service{
		Source: HTTPSource{URL: server.URL, Client: server.Client()},
		Store:  FileStore{Path: filepath.Join(t.TempDir(), "catalog.yaml")},
		DB:     db,
	}
	if _, err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if db.Len() != 2 {
		t.Fatalf("database not refreshed, len=%d", db.Len())
	}
}

func TestSync_HTTPSourceBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := Service{
		Source: HTTPSource{URL: server.URL, Client: server.Client()},
		Store:  FileStore{Path: filepath.Join(t.TempDir(), "catalog.yaml")},
	}
	if _, err := svc.Sync(context.Background()); err == nil {
		t.Fatalf("expected error for non-2xx status")
	}
}

func TestSync_InvalidCatalogLeavesDatabaseUntouched(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(src, []byte("not: [ yaml"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	db := signature.NewDatabase()
	keeper, err := signature.New("Keeper", 1, "tcp")
	if err != nil {
		t.Fatalf("build keeper: %v", err)
	}
	if err := db.Add(keeper); err != nil {
		t.Fatalf("add keeper: %v", err)
	}

	out := filepath.Join(dir, "catalog.yaml")
	svc := Service{
		Source: FileSource{Path: src},
		Store:  FileStore{Path: out},
		DB:     db,
	}
	if _, err := svc.Sync(context.Background()); err == nil {
		t.Fatalf("expected sync to fail on invalid catalog")
	}
	if db.Len() != 1 {
		t.Fatalf("failed sync must not touch the database, len=%d", db.Len())
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("invalid catalog must not be cached")
	}
}

func TestSync_MissingConfiguration(t *testing.T) {
	if _, err := (Service{}).Sync(context.Background()); err == nil {
		t.Fatalf("expected error without source")
	}
	if _, err := (Service{Source: FileSource{Path: "x"}}).Sync(context.Background()); err == nil {
		t.Fatalf("expected error without store")
	}
}
