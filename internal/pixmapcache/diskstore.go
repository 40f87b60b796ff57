package pixmapcache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Entry is one persisted pixmap: the rasterized image plus the source
// file's modification time captured at render time, used by Find to
// detect staleness (spec.md §4.4).
type Entry struct {
	Image       *image.RGBA
	SourceMtime time.Time
}

type onDiskEntry struct {
	Width, Height int
	Pix           []byte
	SourceMtime   time.Time
}

// DiskStore is the Pixmap Cache's persistent tier: a directory of
// gob-encoded pixmap files, bounded to maxBytes and evicted
// least-recently-used by file modification time.
type DiskStore struct {
	dir      string
	maxBytes int64

	mu sync.Mutex
}

// NewDiskStore opens (creating if necessary) a persistent pixmap store
// rooted at dir, bounded to maxBytes total.
func NewDiskStore(dir string, maxBytes int64) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating pixmap cache dir: %w", err)
	}
	return &DiskStore{dir: dir, maxBytes: maxBytes}, nil
}

// Find returns the persisted entry for key if present and not stale
// relative to sourceMtime (spec.md §4.4: `source_mtime <= cache entry's
// captured mtime`). A hit touches the file's modification time so the
// LRU eviction order reflects last access, not last write.
func (s *DiskStore) Find(key Key, sourceMtime time.Time) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, key.filename())
	data, err := os.ReadFile(path) // #nosec G304 - filename is a content hash computed by Key.filename
	if err != nil {
		return Entry{}, false
	}

	var onDisk onDiskEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&onDisk); err != nil {
		return Entry{}, false
	}
	if sourceMtime.After(onDisk.SourceMtime) {
		return Entry{}, false // source file changed since this entry was rendered
	}

	now := time.Now()
	_ = os.Chtimes(path, now, now)

	img := &image.RGBA{
		Pix:    onDisk.Pix,
		Stride: onDisk.Width * 4,
		Rect:   image.Rect(0, 0, onDisk.Width, onDisk.Height),
	}
	return Entry{Image: img, SourceMtime: onDisk.SourceMtime}, true
}

// Insert writes entry to disk under key, then evicts the
// least-recently-touched entries until the store is back under its
// byte budget.
func (s *DiskStore) Insert(key Key, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	onDisk := onDiskEntry{
		Width:       entry.Image.Bounds().Dx(),
		Height:      entry.Image.Bounds().Dy(),
		Pix:         entry.Image.Pix,
		SourceMtime: entry.SourceMtime,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(onDisk); err != nil {
		return fmt.Errorf("encoding pixmap entry: %w", err)
	}

	path := filepath.Join(s.dir, key.filename())
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing pixmap entry: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("committing pixmap entry: %w", err)
	}

	return s.evictLocked()
}

// evictLocked removes the least-recently-touched files until the
// store's total size is back at or below maxBytes. Caller must hold
// s.mu.
func (s *DiskStore) evictLocked() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("listing pixmap cache dir: %w", err)
	}

	type fileInfo struct {
		path    string
		size    int64
		modTime time.Time
	}
	files := make([]fileInfo, 0, len(entries))
	var total int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		files = append(files, fileInfo{path: path, size: info.Size(), modTime: info.ModTime()})
		total += info.Size()
	}
	if total <= s.maxBytes {
		return nil
	}

	sort.Slice(files, func(i, j int) bool { return files[i].modTime.Before(files[j].modTime) })
	for _, f := range files {
		if total <= s.maxBytes {
			break
		}
		if err := os.Remove(f.path); err != nil {
			continue
		}
		total -= f.size
	}
	return nil
}

// Size returns the store's current total byte footprint, used by tests
// and diagnostics.
func (s *DiskStore) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}
	var total int64
	for _, e := range entries {
		if info, err := e.Info(); err == nil {
			total += info.Size()
		}
	}
	return total
}
