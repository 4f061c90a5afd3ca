package interfaces

import (
	"context"
	"time"
)

// CachedResponse is a full page response captured by the response cache.
type CachedResponse struct {
	Status      int               `json:"status"`
	ContentType string            `json:"content_type"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        []byte            `json:"body"`
	StoredAt    time.Time         `json:"stored_at"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// Expired reports whether the entry is stale at the supplied instant.
func (r *CachedResponse) Expired(now time.Time) bool {
	if r == nil {
		return true
	}
	if r.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(r.ExpiresAt)
}

// ResponseStore persists cached responses keyed by request. Implementations
// must be safe for concurrent use. A miss is reported with ok=false and a
// nil error.
type ResponseStore interface {
	Get(ctx context.Context, key string) (resp *CachedResponse, ok bool, err error)
	Put(ctx context.Context, key string, resp *CachedResponse, expiresAt time.Time) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// ExpiringStore is implemented by stores that need an explicit sweep to drop
// stale entries. Stores with native TTL support do not implement it.
type ExpiringStore interface {
	PurgeExpired(ctx context.Context) (int, error)
}
