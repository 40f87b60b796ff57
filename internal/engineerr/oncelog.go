package engineerr

import (
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Deduper emits at most one warning log line per (path, kind) pair for the
// lifetime of the process, matching spec §7's "single warning log per
// (path, error-kind)" propagation policy.
type Deduper struct {
	logger hclog.Logger
	mu     sync.Mutex
	seen   map[string]struct{}
}

// NewDeduper wraps logger with dedupe bookkeeping.
func NewDeduper(logger hclog.Logger) *Deduper {
	return &Deduper{logger: logger, seen: make(map[string]struct{})}
}

// Warn logs err once for (path, kind); subsequent calls with the same pair
// are silently dropped.
func (d *Deduper) Warn(kind Kind, path string, err error) {
	key := string(kind) + "\x00" + path
	d.mu.Lock()
	_, already := d.seen[key]
	if !already {
		d.seen[key] = struct{}{}
	}
	d.mu.Unlock()

	if already {
		return
	}
	d.logger.Warn("asset failure", "kind", kind, "path", path, "error", err)
}

// Reset clears the dedupe set, e.g. after a theme change invalidates the
// assets that previously failed.
func (d *Deduper) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = make(map[string]struct{})
}
