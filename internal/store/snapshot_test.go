package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MennatullahTarek/Center-Dashboard/internal/domain"
	"github.com/MennatullahTarek/Center-Dashboard/internal/ingest"
)

func TestCacheGetPutInvalidate(t *testing.T) {
	c := &Cache{}

	if _, ok := c.Get("k"); ok {
		t.Error("Get() on empty cache = hit, want miss")
	}

	snap := NewSnapshot("k", []domain.ProgramRecord{{Centre: "Ajax"}})
	c.Put("k", snap)

	got, ok := c.Get("k")
	if !ok || got.ID != snap.ID {
		t.Errorf("Get(k) = (%v, %v), want the stored snapshot", got, ok)
	}

	if _, ok := c.Get("other"); ok {
		t.Error("Get() with a different key = hit, want miss")
	}

	c.Invalidate()
	if _, ok := c.Get("k"); ok {
		t.Error("Get() after Invalidate() = hit, want miss")
	}
}

func TestFileKeyChangesWithContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	key1, err := FileKey(path)
	if err != nil {
		t.Fatalf("FileKey() error = %v", err)
	}

	// A bigger file (and a later mtime) must produce a different key.
	time.Sleep(10 * time.Millisecond)
	if err := os.WriteFile(path, []byte("a,b\n1,2\n3,4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	key2, err := FileKey(path)
	if err != nil {
		t.Fatalf("FileKey() error = %v", err)
	}
	if key1 == key2 {
		t.Errorf("FileKey() unchanged after rewrite: %q", key1)
	}
}

func TestLoaderCachesUntilFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte("Location,Program Name\nAjax,Quran Classes\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader()

	snap1, err := l.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(snap1.Records) != 1 {
		t.Fatalf("snapshot has %d records, want 1", len(snap1.Records))
	}

	snap2, err := l.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if snap2.ID != snap1.ID {
		t.Error("second LoadFile() rebuilt the snapshot, want cache hit")
	}

	time.Sleep(10 * time.Millisecond)
	if err := os.WriteFile(path, []byte("Location,Program Name\nAjax,Quran Classes\nMarkham,Youth Night\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap3, err := l.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() after rewrite error = %v", err)
	}
	if snap3.ID == snap1.ID {
		t.Error("LoadFile() served a stale snapshot after the file changed")
	}
	if len(snap3.Records) != 2 {
		t.Errorf("rebuilt snapshot has %d records, want 2", len(snap3.Records))
	}
}

func TestLoaderMissingFileGivesEmptySnapshot(t *testing.T) {
	l := NewLoader()

	snap, err := l.LoadFile(filepath.Join(t.TempDir(), "missing.xlsx"))
	if err == nil {
		t.Fatal("LoadFile(missing) error = nil, want *LoadError")
	}

	var loadErr *ingest.LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("LoadFile(missing) error = %T, want *ingest.LoadError", err)
	}
	if !snap.Empty() {
		t.Error("LoadFile(missing) snapshot is not the empty no-data state")
	}
}
