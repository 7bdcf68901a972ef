// Package cache keeps parsed schedule documents keyed by path and modification time.
package cache

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ukaji3/turni-go/pkg/turni/models"
)

// Loader parses the document at path.
type Loader func(path, originalName string) (*models.ScheduleDocument, error)

type entry struct {
	modTime time.Time
	size    int64
	tables  []models.Table
}

// Stats reports cache activity.
type Stats struct {
	Hits    int
	Misses  int
	Entries int
}

// Cache is a read-through document cache. A cached grid is reused while the
// file's modification time and size are unchanged. Entries are never mutated
// after insertion, so concurrent Get calls are safe.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	load    Loader
	hits    int
	misses  int
}

// New creates a cache that parses misses with load.
func New(load Loader) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		load:    load,
	}
}

// Get returns the document at path, parsing it only when the file changed
// since it was last seen. originalName overrides the name carrying the date
// range; the grid is shared between callers and must be treated as read-only.
func (c *Cache) Get(path, originalName string) (*models.ScheduleDocument, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false, err
	}

	c.mu.RLock()
	e, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return c.document(path, originalName, e), true, nil
	}

	doc, err := c.load(path, originalName)
	if err != nil {
		c.mu.Lock()
		c.misses++
		delete(c.entries, path)
		c.mu.Unlock()
		return nil, false, err
	}

	e = entry{modTime: info.ModTime(), size: info.Size(), tables: doc.Tables}
	c.mu.Lock()
	c.misses++
	c.entries[path] = e
	c.mu.Unlock()
	return c.document(path, originalName, e), false, nil
}

// Invalidate drops the entry for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// InvalidateDir drops every entry stored under dir.
func (c *Cache) InvalidateDir(dir string) {
	prefix := filepath.Clean(dir) + string(filepath.Separator)
	c.mu.Lock()
	for path := range c.entries {
		if strings.HasPrefix(path, prefix) {
			delete(c.entries, path)
		}
	}
	c.mu.Unlock()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}

func (c *Cache) document(path, originalName string, e entry) *models.ScheduleDocument {
	storage := filepath.Base(path)
	if originalName == "" {
		originalName = storage
	}
	return &models.ScheduleDocument{
		OriginalName: originalName,
		StorageName:  storage,
		Path:         path,
		ModTime:      e.modTime,
		Tables:       e.tables,
	}
}
