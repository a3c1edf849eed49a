package store

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MennatullahTarek/Center-Dashboard/internal/domain"
	"github.com/MennatullahTarek/Center-Dashboard/internal/ingest"
	"github.com/MennatullahTarek/Center-Dashboard/internal/mappers"
)

// Snapshot is the request-scoped view of the most recently loaded dataset.
// It is rebuilt whole on every (re)load; there is no incremental update.
type Snapshot struct {
	ID       string
	Source   string // cache key of the file this was built from
	LoadedAt time.Time
	Records  []domain.ProgramRecord
}

func NewSnapshot(source string, records []domain.ProgramRecord) *Snapshot {
	return &Snapshot{
		ID:       uuid.NewString(),
		Source:   source,
		LoadedAt: time.Now(),
		Records:  records,
	}
}

// Empty reports the explicit "no data" state (missing or unreadable file).
func (s *Snapshot) Empty() bool { return s == nil || len(s.Records) == 0 }

// Cache holds at most one snapshot, keyed by source identity. Invalidation
// is explicit only: the refresh action clears it, a changed key misses it.
type Cache struct {
	mu   sync.RWMutex
	key  string
	snap *Snapshot
}

func (c *Cache) Get(key string) (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil || c.key != key {
		return nil, false
	}
	return c.snap, true
}

func (c *Cache) Put(key string, snap *Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = key
	c.snap = snap
}

func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = ""
	c.snap = nil
}

// FileKey derives a source identity from path, size and mtime, so a
// re-uploaded file with new content misses the cache on the next load.
func FileKey(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s|%d|%d", path, fi.Size(), fi.ModTime().UnixNano()), nil
}

// Loader ties ingest, normalization and the cache together.
type Loader struct {
	Cache *Cache
	Map   mappers.ColumnMap
}

func NewLoader() *Loader {
	return &Loader{Cache: &Cache{}, Map: mappers.DefaultColumnMap()}
}

// LoadFile returns the snapshot for path, from cache when the file identity
// is unchanged. On a load failure it returns an empty snapshot together
// with the error: callers log the error and serve the "no data" state.
func (l *Loader) LoadFile(path string) (*Snapshot, error) {
	key, err := FileKey(path)
	if err != nil {
		return NewSnapshot(path, nil), &ingest.LoadError{Path: path, Err: err}
	}

	if snap, ok := l.Cache.Get(key); ok {
		return snap, nil
	}

	table, err := ingest.ReadFile(path)
	if err != nil {
		return NewSnapshot(key, nil), err
	}

	snap := NewSnapshot(key, mappers.Normalize(table, l.Map))
	l.Cache.Put(key, snap)
	return snap, nil
}
