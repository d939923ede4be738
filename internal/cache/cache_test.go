package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	a := Key("corp", "postgres://user:secret@db/corp")
	b := Key("corp", "postgres://user:secret@db/corp")
	if a != b {
		t.Errorf("expected stable key, got %s and %s", a, b)
	}
	if strings.Contains(a, "secret") {
		t.Errorf("key leaks source locator: %s", a)
	}
	if Key("corp", "a") == Key("corp", "b") {
		t.Error("expected distinct keys for distinct sources")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if val, ok := c.Get("k"); !ok || string(val) != "v" {
		t.Errorf("expected v, got %q (%v)", val, ok)
	}
	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set("snap", []byte(`{"n":1}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "snap.snappy")); err != nil {
		t.Errorf("expected snappy file on disk: %v", err)
	}
	if val, ok := c.Get("snap"); !ok || string(val) != `{"n":1}` {
		t.Errorf("expected fresh hit, got %q (%v)", val, ok)
	}

	now = now.Add(2 * time.Hour)
	if _, ok := c.Get("snap"); ok {
		t.Error("expected expired miss")
	}
	val, stored, ok := c.GetStale("snap")
	if !ok || string(val) != `{"n":1}` {
		t.Errorf("expected stale hit, got %q (%v)", val, ok)
	}
	if !stored.Equal(time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected stored time %v", stored)
	}
}

func TestDiskCache_CorruptEntry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)
	if err := os.WriteFile(filepath.Join(dir, "bad.snappy"), []byte("not snappy"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("expected miss for corrupt entry")
	}
	if err := c.Delete("missing"); err != nil {
		t.Errorf("expected nil deleting a missing entry, got %v", err)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Hour, dir)
	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_ = c.memory.Clear()

	if val, ok := c.Get("k"); !ok || string(val) != "v" {
		t.Fatalf("expected disk hit, got %q (%v)", val, ok)
	}
	if _, ok := c.memory.Get("k"); !ok {
		t.Error("expected promotion into memory")
	}
	if _, _, ok := c.GetStale("k"); !ok {
		t.Error("expected stale read from disk")
	}
}
