package digital

import (
	"sync"
	"time"
)

const (
	// dedupWindow is how long after a counted download the same caller's
	// repeat requests for the same book are ignored. Browsers and PDF
	// viewers commonly fetch a file twice in quick succession.
	dedupWindow = 5 * time.Second

	// dedupRetention is when stale entries become eligible for pruning.
	dedupRetention = 10 * time.Second

	// dedupMaxEntries bounds the tracker so it cannot grow without limit
	// under a flood of distinct callers.
	dedupMaxEntries = 10000
)

// DownloadTracker suppresses double-counting of downloads. It is shared by
// all requests and safe for concurrent use.
type DownloadTracker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewDownloadTracker creates an empty tracker.
func NewDownloadTracker() *DownloadTracker {
	return &DownloadTracker{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// ShouldCount reports whether a download for the given caller/book key
// should increment the counter, and records it if so.
func (t *DownloadTracker) ShouldCount(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.prune(now)

	if last, ok := t.entries[key]; ok && now.Sub(last) <= dedupWindow {
		return false
	}

	t.entries[key] = now
	return true
}

// prune drops stale entries, and when the bound is still exceeded after
// that, drops everything. Losing dedup state only risks counting a
// download twice, which is acceptable.
func (t *DownloadTracker) prune(now time.Time) {
	for k, v := range t.entries {
		if now.Sub(v) > dedupRetention {
			delete(t.entries, k)
		}
	}
	if len(t.entries) >= dedupMaxEntries {
		t.entries = make(map[string]time.Time)
	}
}
