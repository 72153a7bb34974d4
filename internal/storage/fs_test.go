package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFSStoreRoundTrip(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put("questions/e1/q1", strings.NewReader("img")); err != nil {
		t.Fatal(err)
	}
	rc, err := s.Get("questions/e1/q1")
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	b, _ := io.ReadAll(rc)
	if string(b) != "img" {
		t.Fatalf("got %q", b)
	}
	if err := s.Delete("questions/e1/q1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get("questions/e1/q1"); !IsNotFound(err) {
		t.Fatalf("deleted blob still readable: %v", err)
	}
	// Deleting a missing key is not an error.
	if err := s.Delete("questions/e1/q1"); err != nil {
		t.Fatal(err)
	}
}

func TestFSStoreRefusesEscapingKeys(t *testing.T) {
	base := t.TempDir()
	outside := filepath.Join(base, "secret.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := NewFSStore(filepath.Join(base, "data"))
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{
		"../secret.txt",
		"questions/../../secret.txt",
		"/etc/passwd",
		"..",
		"",
	} {
		if _, err := s.Get(key); err == nil || IsNotFound(err) {
			t.Fatalf("Get(%q) must be refused, got %v", key, err)
		}
		if _, err := s.Put(key, strings.NewReader("x")); err == nil {
			t.Fatalf("Put(%q) must be refused", key)
		}
		if err := s.Delete(key); err == nil {
			t.Fatalf("Delete(%q) must be refused", key)
		}
	}
	if b, err := os.ReadFile(outside); err != nil || string(b) != "secret" {
		t.Fatalf("file outside base touched: %q %v", b, err)
	}
}
