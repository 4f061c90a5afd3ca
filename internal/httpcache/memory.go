package httpcache

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// MemoryStore keeps responses in process. Expired entries are dropped on
// read and by PurgeExpired.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*interfaces.CachedResponse
	now     func() time.Time
}

var (
	_ interfaces.ResponseStore = (*MemoryStore)(nil)
	_ interfaces.ExpiringStore = (*MemoryStore)(nil)
)

// NewMemoryStore returns an empty store. A nil clock defaults to time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		entries: map[string]*interfaces.CachedResponse{},
		now:     now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*interfaces.CachedResponse, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if entry.Expired(s.now()) {
		s.mu.Lock()
		if current, still := s.entries[key]; still && current == entry {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return cloneResponse(entry), true, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, resp *interfaces.CachedResponse, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	entry := cloneResponse(resp)
	entry.ExpiresAt = expiresAt
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.entries = map[string]*interfaces.CachedResponse{}
	s.mu.Unlock()
	return nil
}

// PurgeExpired removes stale entries and returns how many were dropped.
func (s *MemoryStore) PurgeExpired(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for key, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, key)
			purged++
		}
	}
	return purged, nil
}

// Len returns the number of entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func cloneResponse(resp *interfaces.CachedResponse) *interfaces.CachedResponse {
	cloned := *resp
	cloned.Body = append([]byte(nil), resp.Body...)
	if resp.Headers != nil {
		cloned.Headers = make(map[string]string, len(resp.Headers))
		for k, v := range resp.Headers {
			cloned.Headers[k] = v
		}
	}
	return &cloned
}
