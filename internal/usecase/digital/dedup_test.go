package digital

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTrackerAt(start time.Time) (*DownloadTracker, *time.Time) {
	clock := start
	t := NewDownloadTracker()
	t.now = func() time.Time { return clock }
	return t, &clock
}

func TestShouldCountFirstDownload(t *testing.T) {
	tracker, _ := newTrackerAt(time.Now())

	assert.True(t, tracker.ShouldCount("user1_book1"))
}

func TestShouldCountSuppressesRepeatWithinWindow(t *testing.T) {
	tracker, clock := newTrackerAt(time.Now())

	assert.True(t, tracker.ShouldCount("user1_book1"))

	*clock = clock.Add(2 * time.Second)
	assert.False(t, tracker.ShouldCount("user1_book1"))

	*clock = clock.Add(2 * time.Second)
	assert.False(t, tracker.ShouldCount("user1_book1"))
}

func TestShouldCountAgainAfterWindow(t *testing.T) {
	tracker, clock := newTrackerAt(time.Now())

	assert.True(t, tracker.ShouldCount("user1_book1"))

	*clock = clock.Add(dedupWindow + time.Second)
	assert.True(t, tracker.ShouldCount("user1_book1"))
}

func TestShouldCountKeysAreIndependent(t *testing.T) {
	tracker, _ := newTrackerAt(time.Now())

	assert.True(t, tracker.ShouldCount("user1_book1"))
	assert.True(t, tracker.ShouldCount("user2_book1"))
	assert.True(t, tracker.ShouldCount("user1_book2"))
}

func TestPruneDropsStaleEntries(t *testing.T) {
	tracker, clock := newTrackerAt(time.Now())

	tracker.ShouldCount("user1_book1")
	assert.Len(t, tracker.entries, 1)

	*clock = clock.Add(dedupRetention + time.Second)
	tracker.ShouldCount("user2_book2")
	assert.Len(t, tracker.entries, 1)
}

func TestPruneClearsWhenBoundExceeded(t *testing.T) {
	tracker, _ := newTrackerAt(time.Now())

	// All entries are fresh, so only the size bound can trigger the reset.
	for i := 0; i < dedupMaxEntries; i++ {
		tracker.entries[fmt.Sprintf("key%d", i)] = tracker.now()
	}

	assert.True(t, tracker.ShouldCount("newcomer_book1"))
	assert.Len(t, tracker.entries, 1)
}
