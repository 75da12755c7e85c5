package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "pages.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return s
}

func TestGetMissingKey(t *testing.T) {
	s := openTestStore(t)
	value, ok, err := s.Get(context.Background(), "pages/day/2024-01-01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || value != "" {
		t.Fatalf("expected missing key, got %q ok=%v", value, ok)
	}
}

func TestSetOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	first := time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	s.now = func() time.Time { return first }
	if err := s.Set(ctx, "k", "one"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.now = func() time.Time { return second }
	if err := s.Set(ctx, "k", "two"); err != nil {
		t.Fatalf("set: %v", err)
	}

	value, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get: %v ok=%v", err, ok)
	}
	if value != "two" {
		t.Fatalf("expected overwritten value, got %q", value)
	}
	updated, ok, err := s.UpdatedAt(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("updated at: %v ok=%v", err, ok)
	}
	if !updated.Equal(second) {
		t.Fatalf("expected %v, got %v", second, updated)
	}
}

func TestKeysByPrefix(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for _, key := range []string{
		"pages/day/2024-01-03",
		"pages/streak",
		"pages/day/2024-01-01",
		"pages/dayz",
		"pages/day/2024-01-02",
	} {
		if err := s.Set(ctx, key, "x"); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	keys, err := s.Keys(ctx, "pages/day/")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	want := []string{"pages/day/2024-01-01", "pages/day/2024-01-02", "pages/day/2024-01-03"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("expected %v, got %v", want, keys)
	}

	all, err := s.Keys(ctx, "")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 keys, got %v", all)
	}

	none, err := s.Keys(ctx, "other/")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", none)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}()
	value, ok, err := s.Get(context.Background(), "k")
	if err != nil || !ok || value != "v" {
		t.Fatalf("expected persisted value, got %q ok=%v err=%v", value, ok, err)
	}
}

func TestPrefixEnd(t *testing.T) {
	if got := prefixEnd("pages/day/"); got != "pages/day0" {
		t.Fatalf("unexpected bound %q", got)
	}
	if got := prefixEnd(""); got != "" {
		t.Fatalf("expected no bound, got %q", got)
	}
	if got := prefixEnd("a\xff"); got != "b" {
		t.Fatalf("unexpected bound %q", got)
	}
}
