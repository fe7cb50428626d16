package cache

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"go-padel-watcher/internal/model"
)

// MatchCache remembers which matches have already been notified, so every
// distinct match is announced exactly once across runs. Keys are a match's
// stable hash, values its scheduled time, which lets entries expire once
// the match is in the past.
type MatchCache struct {
	mu       sync.Mutex
	filePath string
	seen     map[uint64]time.Time
}

// New loads the cache backed by the file at path. A missing file means an
// empty cache.
func New(path string) *MatchCache {
	c := &MatchCache{
		filePath: path,
		seen:     make(map[uint64]time.Time),
	}
	c.load()
	return c
}

// HasSeen reports whether the match was already notified.
func (c *MatchCache) HasSeen(m *model.Match) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.seen[m.StableHash()]
	return ok
}

// Add records a match as notified. Adding a hash already present is a
// caller bug (the HasSeen check was skipped) and panics rather than
// silently overwriting the earlier entry.
func (c *MatchCache) Add(m *model.Match) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := m.StableHash()
	if _, ok := c.seen[h]; ok {
		panic(fmt.Sprintf("cache: duplicate add for match hash %d", h))
	}
	c.seen[h] = m.Start
}

// PruneExpired drops every entry scheduled strictly before now. A match
// that already happened can no longer be offered, so its entry only wastes
// space.
func (c *MatchCache) PruneExpired() {
	c.pruneBefore(time.Now())
}

func (c *MatchCache) pruneBefore(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for h, d := range c.seen {
		if d.Before(now) {
			delete(c.seen, h)
		}
	}
}

// Persist overwrites the backing file with the current mapping.
func (c *MatchCache) Persist() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make(map[string]time.Time, len(c.seen))
	for h, d := range c.seen {
		entries[strconv.FormatUint(h, 10)] = d
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// Len returns the number of cached entries, for status reporting.
func (c *MatchCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

func (c *MatchCache) load() {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read cache %s: %v", c.filePath, err)
		}
		return
	}

	var entries map[string]time.Time
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse cache %s: %v", c.filePath, err)
		return
	}
	for key, d := range entries {
		h, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			continue
		}
		c.seen[h] = d
	}
	log.Printf("📋 Loaded %d previously notified matches", len(c.seen))
}
