package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_RememberLookup(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 86400)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	// Miss before remember
	if _, ok := c.Lookup("cfg1", "/tmp/pr.html"); ok {
		t.Error("Expected cache miss before remember")
	}

	if err := c.Remember("cfg1", "/tmp/pr.html", "abc123"); err != nil {
		t.Fatalf("Remember error: %v", err)
	}

	got, ok := c.Lookup("cfg1", "/tmp/pr.html")
	if !ok {
		t.Fatal("Expected cache hit after remember")
	}
	if got != "abc123" {
		t.Errorf("Digest = %q, want %q", got, "abc123")
	}

	// A different configuration does not share entries.
	if _, ok := c.Lookup("cfg2", "/tmp/pr.html"); ok {
		t.Error("Entries must be scoped to the configuration fingerprint")
	}
}

func TestCache_Scope(t *testing.T) {
	c, err := New(true, t.TempDir(), 0)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	s := c.For("cfg1")
	if err := s.Remember("/tmp/pr.html", "d1"); err != nil {
		t.Fatalf("Remember error: %v", err)
	}
	if got, ok := c.Lookup("cfg1", "/tmp/pr.html"); !ok || got != "d1" {
		t.Errorf("Lookup = %q, %v", got, ok)
	}
	if _, ok := c.For("cfg2").Lookup("/tmp/pr.html"); ok {
		t.Error("Scopes with different fingerprints must not share entries")
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 1) // 1 second TTL
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	if err := c.Remember("cfg", "p", "d"); err != nil {
		t.Fatalf("Remember error: %v", err)
	}
	if _, ok := c.Lookup("cfg", "p"); !ok {
		t.Error("Expected cache hit before expiration")
	}

	time.Sleep(1100 * time.Millisecond)

	if _, ok := c.Lookup("cfg", "p"); ok {
		t.Error("Expected cache miss after TTL expiration")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expired entry should be removed, %d left", len(entries))
	}
}

func TestCache_Disabled(t *testing.T) {
	c, err := New(false, "", 0)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if c.Enabled() {
		t.Error("Cache should be disabled")
	}

	// Operations should be no-ops
	if err := c.Remember("cfg", "p", "d"); err != nil {
		t.Errorf("Remember on disabled cache should not error: %v", err)
	}
	if _, ok := c.Lookup("cfg", "p"); ok {
		t.Error("Lookup on disabled cache should always miss")
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear on disabled cache should not error: %v", err)
	}
}

func countJSON(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			n++
		}
	}
	return n
}

func TestCache_Clear(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 86400)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := c.Remember("cfg", string(rune('a'+i)), "d"); err != nil {
			t.Fatalf("Remember error: %v", err)
		}
	}
	if n := countJSON(t, dir); n != 5 {
		t.Fatalf("Expected 5 cache entries, got %d", n)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n := countJSON(t, dir); n != 0 {
		t.Errorf("Expected 0 cache entries after clear, got %d", n)
	}
}

func TestCache_GetStats(t *testing.T) {
	dir := t.TempDir()
	c, err := New(true, dir, 86400)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats error: %v", err)
	}
	if stats.Entries != 0 || stats.Dir != dir {
		t.Errorf("Empty stats = %+v", stats)
	}

	for _, p := range []string{"a.html", "b.html", "c.html"} {
		if err := c.Remember("cfg", p, "d"); err != nil {
			t.Fatal(err)
		}
	}
	stats, err = c.GetStats()
	if err != nil {
		t.Fatalf("GetStats error: %v", err)
	}
	if stats.Entries != 3 {
		t.Errorf("Entries = %d, want 3", stats.Entries)
	}
	if stats.TotalBytes <= 0 {
		t.Error("TotalBytes should be positive")
	}
	if stats.Expired != 0 {
		t.Errorf("Expired = %d, want 0", stats.Expired)
	}
}

func TestBuildKey(t *testing.T) {
	if BuildKey("a", "b") != BuildKey("a", "b") {
		t.Error("BuildKey should be deterministic")
	}
	if BuildKey("ab", "c") == BuildKey("a", "bc") {
		t.Error("Fingerprint and path must not run together")
	}
	if len(BuildKey("a", "b")) != 64 {
		t.Error("Key should be a hex SHA-256")
	}
}

func TestDefaultDir_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	got, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "prismfold") {
		t.Errorf("DefaultDir = %q", got)
	}
}
