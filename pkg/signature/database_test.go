package signature

import (
	"errors"
	"testing"
)

func mustSignature(t *testing.T, name string, port int, protocol string, literals ...string) *Signature {
	t.Helper()
	sig, err := New(name, port, protocol)
	if err != nil {
		t.Fatalf("build signature %s: %v", name, err)
	}
	for _, l := range literals {
		if err := sig.AddLiteral(l); err != nil {
			t.Fatalf("add literal to %s: %v", name, err)
		}
	}
	return sig
}

func TestDatabase_AddAndGet(t *testing.T) {
	db := NewDatabase()
	sig := mustSignature(t, "HTTP", 80, "tcp", "HTTP/1.1")

	if err := db.Add(sig); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := db.GetByName("HTTP")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != sig {
		t.Fatalf("expected the registered signature back")
	}
}

func TestDatabase_AddDuplicateRejected(t *testing.T) {
	db := NewDatabase()
	if err := db.Add(mustSignature(t, "HTTP", 80, "tcp")); err != nil {
		t.Fatalf("add: %v", err)
	}

	dup := mustSignature(t, "HTTP", 8080, "tcp")
	err := db.Add(dup)
	if !errors.Is(err, ErrDuplicateSignature) {
		t.Fatalf("expected ErrDuplicateSignature, got %v", err)
	}

	// the failed add must not disturb the index
	if got := db.FindByPort(80, "tcp"); len(got) != 1 || got[0].Name() != "HTTP" {
		t.Fatalf("find_by_port disturbed by rejected add: %v", got)
	}
	if got := db.FindByPort(8080, "tcp"); len(got) != 0 {
		t.Fatalf("rejected signature leaked into the index: %v", got)
	}
}

func TestDatabase_RemoveUpdatesIndex(t *testing.T) {
	db := NewDatabase()
	_ = db.Add(mustSignature(t, "HTTP", 80, "tcp"))
	_ = db.Add(mustSignature(t, "HTTP-alt", 80, "tcp"))

	if err := db.Remove("HTTP"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got := db.FindByPort(80, "tcp")
	if len(got) != 1 || got[0].Name() != "HTTP-alt" {
		t.Fatalf("index not updated after remove: %v", got)
	}

	if err := db.Remove("HTTP"); !errors.Is(err, ErrSignatureNotFound) {
		t.Fatalf("expected ErrSignatureNotFound, got %v", err)
	}
}

func TestDatabase_GetByNameNotFound(t *testing.T) {
	db := NewDatabase()
	_, err := db.GetByName("nope")
	if !errors.Is(err, ErrSignatureNotFound) {
		t.Fatalf("expected ErrSignatureNotFound, got %v", err)
	}
}

func TestDatabase_FindByPortInsertionOrder(t *testing.T) {
	db := NewDatabase()
	_ = db.Add(mustSignature(t, "B-second", 8080, "tcp"))
	_ = db.Add(mustSignature(t, "A-first", 8080, "tcp"))

	got := db.FindByPort(8080, "tcp")
	if len(got) != 2 || got[0].Name() != "B-second" || got[1].Name() != "A-first" {
		t.Fatalf("expected insertion order, got %v", got)
	}
}

func TestDatabase_FindByPortProtocolScoped(t *testing.T) {
	db := NewDatabase()
	_ = db.Add(mustSignature(t, "DNS", 53, "udp"))

	if got := db.FindByPort(53, "tcp"); len(got) != 0 {
		t.Fatalf("tcp lookup must not return udp signatures: %v", got)
	}
	if got := db.FindByPort(53, "UDP"); len(got) != 1 {
		t.Fatalf("protocol lookup must be case-insensitive: %v", got)
	}
}

func TestDatabase_ListAllSorted(t *testing.T) {
	db := NewDatabase()
	_ = db.Add(mustSignature(t, "Zebra", 1, "tcp"))
	_ = db.Add(mustSignature(t, "Alpha", 2, "tcp"))
	_ = db.Add(mustSignature(t, "Mango", 3, "tcp"))

	got := db.ListAll()
	names := []string{got[0].Name(), got[1].Name(), got[2].Name()}
	want := []string{"Alpha", "Mango", "Zebra"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected name-sorted enumeration %v, got %v", want, names)
		}
	}
}

func TestDatabase_FindByPattern(t *testing.T) {
	db := NewDatabase()
	_ = db.Add(mustSignature(t, "HTTP", 80, "tcp", "HTTP/1."))
	_ = db.Add(mustSignature(t, "SSH", 22, "tcp", "SSH-2.0"))
	_ = db.Add(mustSignature(t, "DNS", 53, "udp")) // port-only

	got := db.FindByPattern([]byte("GET / HTTP/1.1\r\n"))
	if len(got) != 1 || got[0].Name() != "HTTP" {
		t.Fatalf("expected only HTTP to pattern-match, got %v", got)
	}
}

func TestDatabase_ReplaceAtomic(t *testing.T) {
	db := NewDatabase()
	_ = db.Add(mustSignature(t, "HTTP", 80, "tcp"))

	// duplicate inside the replacement set: nothing may change
	bad := []*Signature{
		mustSignature(t, "X", 1, "tcp"),
		mustSignature(t, "X", 2, "tcp"),
	}
	if err := db.Replace(bad); !errors.Is(err, ErrDuplicateSignature) {
		t.Fatalf("expected ErrDuplicateSignature, got %v", err)
	}
	if db.Len() != 1 {
		t.Fatalf("failed replace must leave contents untouched, len=%d", db.Len())
	}
	if _, err := db.GetByName("HTTP"); err != nil {
		t.Fatalf("original signature lost after failed replace: %v", err)
	}

	good := []*Signature{mustSignature(t, "SSH", 22, "tcp")}
	if err := db.Replace(good); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if db.Len() != 1 {
		t.Fatalf("expected 1 signature after replace, got %d", db.Len())
	}
	if got := db.FindByPort(80, "tcp"); len(got) != 0 {
		t.Fatalf("old index entries survived replace: %v", got)
	}
	if got := db.FindByPort(22, "tcp"); len(got) != 1 {
		t.Fatalf("new index entries missing after replace: %v", got)
	}
}

func TestDatabase_ConcurrentReaders(t *testing.T) {
	db := NewDatabase()
	_ = db.Add(mustSignature(t, "HTTP", 80, "tcp", "HTTP/1."))

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_ = db.FindByPort(80, "tcp")
				_ = db.ListAll()
				_ = db.FindByPattern([]byte("HTTP/1.1"))
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
