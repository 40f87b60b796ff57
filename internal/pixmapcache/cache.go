package pixmapcache

import (
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

// pendingSoftCap is the pending map's soft size limit (spec.md §4.4: "a
// few hundred entries"); exceeding it triggers an immediate flush
// instead of waiting for the debounce timer.
const pendingSoftCap = 256

// flushDelay is how long the pending map waits after its last insert
// before draining into the persistent store (spec.md §4.4: ≈600ms,
// single-shot, reset on each insert).
const flushDelay = 600 * time.Millisecond

// Cache is the two-tier Pixmap Cache: a bounded in-process pending map
// coalescing renders produced since the last flush, backed by a
// persistent on-disk LRU store shared across processes.
type Cache struct {
	disk    *DiskStore
	pending *ristretto.Cache

	mu        sync.Mutex
	dirty     map[Key]struct{}
	flushTime *time.Timer
}

// New builds a Cache whose persistent tier lives under dir, bounded to
// maxBytes, and whose pending tier holds up to pendingSoftCap renders.
func New(dir string, maxBytes int64) (*Cache, error) {
	disk, err := NewDiskStore(dir, maxBytes)
	if err != nil {
		return nil, err
	}
	pending, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: pendingSoftCap * 10,
		MaxCost:     pendingSoftCap,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{disk: disk, pending: pending, dirty: map[Key]struct{}{}}, nil
}

// Find looks up key, preferring the pending map, falling back to the
// persistent store. A hit is only returned if sourceMtime is no newer
// than the cached entry's captured mtime (spec.md §4.4).
func (c *Cache) Find(key Key, sourceMtime time.Time) (Entry, bool) {
	if v, ok := c.pending.Get(key); ok {
		entry := v.(Entry)
		if !sourceMtime.After(entry.SourceMtime) {
			return entry, true
		}
		return Entry{}, false
	}
	return c.disk.Find(key, sourceMtime)
}

// Insert enters entry into the pending map under key and schedules a
// flush to the persistent store.
func (c *Cache) Insert(key Key, entry Entry) {
	c.pending.Set(key, entry, 1)
	c.pending.Wait() // ristretto applies Set asynchronously; force visibility before returning

	c.mu.Lock()
	c.dirty[key] = struct{}{}
	dirtyCount := len(c.dirty)
	if c.flushTime == nil {
		c.flushTime = time.AfterFunc(flushDelay, c.flush)
	} else {
		c.flushTime.Reset(flushDelay)
	}
	c.mu.Unlock()

	if dirtyCount >= pendingSoftCap {
		c.flush()
	}
}

// Flush forces an immediate drain of the pending map into the
// persistent store, useful for tests and graceful shutdown.
func (c *Cache) Flush() { c.flush() }

func (c *Cache) flush() {
	c.mu.Lock()
	keys := make([]Key, 0, len(c.dirty))
	for k := range c.dirty {
		keys = append(keys, k)
	}
	c.dirty = map[Key]struct{}{}
	c.mu.Unlock()

	for _, key := range keys {
		v, ok := c.pending.Get(key)
		if !ok {
			continue
		}
		_ = c.disk.Insert(key, v.(Entry))
	}
}

// PendingLen reports the number of keys awaiting flush, used by tests
// to verify the soft-cap and debounce behavior.
func (c *Cache) PendingLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.dirty)
}

// DiskSize reports the persistent store's current size in bytes.
func (c *Cache) DiskSize() int64 { return c.disk.Size() }
