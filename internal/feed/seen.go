package feed

import (
	"container/list"
	"encoding/json"
	"os"
	"sync"
	"time"
)

// SeenCache remembers which log lines have already produced notifications,
// keyed per guild. It backs the at-least-once delivery with a best-effort
// dedupe across cursor rescans and process restarts.
type SeenCache struct {
	capacity int
	items    map[string]*list.Element
	order    *list.List
	mu       sync.RWMutex
}

type seenEntry struct {
	key  string
	seen time.Time
}

func NewSeenCache(capacity int) *SeenCache {
	if capacity <= 0 {
		capacity = 50000
	}
	return &SeenCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// SeenKey builds the cache key for a raw line observed in a guild's feed.
func SeenKey(guildID, line string) string {
	return guildID + "\x00" + line
}

func (c *SeenCache) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[key]
	return ok
}

func (c *SeenCache) Add(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*seenEntry).seen = time.Now()
		return
	}
	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*seenEntry).key)
		}
	}
	c.items[key] = c.order.PushFront(&seenEntry{key: key, seen: time.Now()})
}

func (c *SeenCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

// CleanOldEntries drops entries older than maxAge and reports how many were
// removed.
func (c *SeenCache) CleanOldEntries(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for elem := c.order.Back(); elem != nil; {
		entry := elem.Value.(*seenEntry)
		if entry.seen.After(cutoff) {
			break
		}
		prev := elem.Prev()
		c.order.Remove(elem)
		delete(c.items, entry.key)
		removed++
		elem = prev
	}
	return removed
}

type savedSeen struct {
	Key  string    `json:"key"`
	Seen time.Time `json:"seen"`
}

// SaveToFile persists the cache as JSON, newest first, via a temp file and
// atomic rename.
func (c *SeenCache) SaveToFile(filename string) error {
	c.mu.RLock()
	entries := make([]savedSeen, 0, c.order.Len())
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		entry := elem.Value.(*seenEntry)
		entries = append(entries, savedSeen{Key: entry.key, Seen: entry.seen})
	}
	c.mu.RUnlock()

	tmp := filename + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(file)
	if err := enc.Encode(entries); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, filename)
}

// LoadFromFile restores a previously saved cache. A missing file is not an
// error; the cache simply starts empty.
func (c *SeenCache) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var entries []savedSeen
	if err := json.NewDecoder(file).Decode(&entries); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order = list.New()
	for _, saved := range entries {
		if c.order.Len() >= c.capacity {
			break
		}
		elem := c.order.PushBack(&seenEntry{key: saved.Key, seen: saved.Seen})
		c.items[saved.Key] = elem
	}
	return nil
}
