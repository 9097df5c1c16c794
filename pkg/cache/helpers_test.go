package cache

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/AjayAntoIsDev/PrepMate/pkg/kvstore"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// failingStore wraps a MemoryStore and fails selected operations.
type failingStore struct {
	*kvstore.MemoryStore
	failSet    bool
	failDelete bool
}

var errDiskFull = errors.New("disk full")

func (s *failingStore) SetString(key, value string) error {
	if s.failSet {
		return errDiskFull
	}
	return s.MemoryStore.SetString(key, value)
}

func (s *failingStore) Delete(key string) error {
	if s.failDelete {
		return errDiskFull
	}
	return s.MemoryStore.Delete(key)
}

// recordedEvents counts Recorder callbacks.
type recordedEvents struct {
	mu      sync.Mutex
	hits    int
	misses  map[string]int
	stored  int
	failed  int
	evicted int
	cleaned int
	fetches int
}

func newRecordedEvents() *recordedEvents {
	return &recordedEvents{misses: make(map[string]int)}
}

func (r *recordedEvents) Hit(string) { r.mu.Lock(); r.hits++; r.mu.Unlock() }
func (r *recordedEvents) Miss(_ string, reason string) {
	r.mu.Lock()
	r.misses[reason]++
	r.mu.Unlock()
}
func (r *recordedEvents) Stored(string, int64)    { r.mu.Lock(); r.stored++; r.mu.Unlock() }
func (r *recordedEvents) SetFailed(string)        { r.mu.Lock(); r.failed++; r.mu.Unlock() }
func (r *recordedEvents) Deleted(string, int)     {}
func (r *recordedEvents) Evicted(_ string, n int) { r.mu.Lock(); r.evicted += n; r.mu.Unlock() }
func (r *recordedEvents) Cleaned(n int)           { r.mu.Lock(); r.cleaned += n; r.mu.Unlock() }
func (r *recordedEvents) Fetched(string, time.Duration, error) {
	r.mu.Lock()
	r.fetches++
	r.mu.Unlock()
}
func (r *recordedEvents) StoreSize(int64) {}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestManager builds a manager over a fresh MemoryStore with a fake clock.
func newTestManager(t *testing.T, opts ...Option) (*Manager, *kvstore.MemoryStore, *fakeClock) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	clock := newFakeClock()
	opts = append([]Option{WithClock(clock.Now), WithLogger(quietLogger())}, opts...)
	m := New(store, opts...)
	t.Cleanup(m.Close)
	return m, store, clock
}
