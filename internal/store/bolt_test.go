package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestBolt(t *testing.T, path string) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(path)
	if err != nil {
		t.Fatalf("failed to open bolt store: %v", err)
	}
	return s
}

func TestBoltStoreRoundTrip(t *testing.T) {
	s := openTestBolt(t, filepath.Join(t.TempDir(), "test.db"))
	defer s.Close()
	ctx := context.Background()

	if err := s.Save(ctx, KeyTheme, "dark"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var out string
	if err := s.Load(ctx, KeyTheme, &out); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if out != "dark" {
		t.Errorf("expected %q, got %q", "dark", out)
	}
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s := openTestBolt(t, path)
	if err := s.Save(ctx, "key", map[string]int{"n": 7}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	s = openTestBolt(t, path)
	defer s.Close()

	var out map[string]int
	if err := s.Load(ctx, "key", &out); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if out["n"] != 7 {
		t.Errorf("document did not survive reopen: %v", out)
	}
}

func TestBoltStoreDeleteIsIdempotent(t *testing.T) {
	s := openTestBolt(t, filepath.Join(t.TempDir(), "test.db"))
	defer s.Close()
	ctx := context.Background()

	s.Save(ctx, "key", "value")
	if err := s.Delete(ctx, "key"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := s.Delete(ctx, "key"); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}

	out := "untouched"
	s.Load(ctx, "key", &out)
	if out != "untouched" {
		t.Errorf("expected deleted key to leave dest untouched, got %q", out)
	}
}
