package feed

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSeenCacheAddContains(t *testing.T) {
	c := NewSeenCache(10)
	key := SeenKey("guild1", "some log line")
	if c.Contains(key) {
		t.Fatal("empty cache contains key")
	}
	c.Add(key)
	if !c.Contains(key) {
		t.Fatal("added key not found")
	}
	if c.Contains(SeenKey("guild2", "some log line")) {
		t.Fatal("same line in another guild must be a distinct key")
	}
}

func TestSeenCacheEviction(t *testing.T) {
	c := NewSeenCache(3)
	c.Add("a")
	c.Add("b")
	c.Add("c")
	c.Add("d")
	if c.Contains("a") {
		t.Error("oldest entry should have been evicted")
	}
	if !c.Contains("b") || !c.Contains("c") || !c.Contains("d") {
		t.Error("recent entries evicted")
	}
	if c.Size() != 3 {
		t.Errorf("size = %d, want 3", c.Size())
	}
}

func TestSeenCacheReaddMovesToFront(t *testing.T) {
	c := NewSeenCache(2)
	c.Add("a")
	c.Add("b")
	c.Add("a") // refresh
	c.Add("c") // should evict b, not a
	if !c.Contains("a") {
		t.Error("refreshed entry evicted")
	}
	if c.Contains("b") {
		t.Error("stale entry survived")
	}
}

func TestSeenCacheSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	c := NewSeenCache(10)
	c.Add("one")
	c.Add("two")
	if err := c.SaveToFile(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := NewSeenCache(10)
	if err := restored.LoadFromFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !restored.Contains("one") || !restored.Contains("two") {
		t.Error("entries lost across save/load")
	}
	if restored.Size() != 2 {
		t.Errorf("size = %d, want 2", restored.Size())
	}
}

func TestSeenCacheLoadMissingFile(t *testing.T) {
	c := NewSeenCache(10)
	if err := c.LoadFromFile(filepath.Join(t.TempDir(), "absent.json")); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
}

func TestSeenCacheCleanOldEntries(t *testing.T) {
	c := NewSeenCache(10)
	c.Add("old")
	// Backdate the entry past the cutoff.
	c.mu.Lock()
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		elem.Value.(*seenEntry).seen = time.Now().Add(-48 * time.Hour)
	}
	c.mu.Unlock()
	c.Add("fresh")

	if removed := c.CleanOldEntries(24 * time.Hour); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if c.Contains("old") {
		t.Error("stale entry survived cleanup")
	}
	if !c.Contains("fresh") {
		t.Error("fresh entry removed")
	}
}
