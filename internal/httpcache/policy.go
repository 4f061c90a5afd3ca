package httpcache

import (
	"net/http"
	"time"
)

// Request is the slice of an incoming request the profile inspects.
type Request struct {
	Method string
	// Async is set for background fetches (X-Requested-With: XMLHttpRequest).
	Async bool
}

// ExecutionContext describes where the request is being handled. It is
// passed in by the caller instead of being read from process state.
type ExecutionContext struct {
	// Interactive is true when serving real traffic, false for CLI tasks
	// and other non-interactive callers.
	Interactive bool
	// Testing is true inside the test environment.
	Testing bool
}

// ContextPredicate decides whether an execution context may use the cache.
type ContextPredicate func(ExecutionContext) bool

// InteractiveOrTesting allows interactive contexts, and non-interactive ones
// only when they run in the test environment.
func InteractiveOrTesting(ec ExecutionContext) bool {
	return ec.Interactive || ec.Testing
}

// ProfileConfig is the configuration read by Profile.
type ProfileConfig struct {
	Enabled                bool
	CacheLifetimeInMinutes int
}

// Profile is the cache profile for anonymous visitors. All methods are pure
// and safe for concurrent use; a nil Profile caches nothing.
type Profile struct {
	config       *ProfileConfig
	now          func() time.Time
	allowContext ContextPredicate
}

// ProfileOption customises a Profile.
type ProfileOption func(*Profile)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfileOption {
	return func(p *Profile) {
		if now != nil {
			p.now = now
		}
	}
}

// WithContextPredicate replaces InteractiveOrTesting.
func WithContextPredicate(fn ContextPredicate) ProfileOption {
	return func(p *Profile) {
		if fn != nil {
			p.allowContext = fn
		}
	}
}

// NewProfile builds a profile. A nil cfg leaves caching disabled.
func NewProfile(cfg *ProfileConfig, opts ...ProfileOption) *Profile {
	p := &Profile{
		config:       cfg,
		now:          time.Now,
		allowContext: InteractiveOrTesting,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Enabled reports the global switch.
func (p *Profile) Enabled() bool {
	return p != nil && p.config != nil && p.config.Enabled
}

// ShouldCacheRequest reports whether req may be answered from, or stored in,
// the cache: it must not be async, the context must be allowed, and the
// method must be GET.
func (p *Profile) ShouldCacheRequest(req Request, ec ExecutionContext) bool {
	if p == nil {
		return false
	}
	if req.Async {
		return false
	}
	if !p.allowContext(ec) {
		return false
	}
	return req.Method == http.MethodGet
}

// ShouldCacheResponse accepts 2xx and 3xx statuses.
func (p *Profile) ShouldCacheResponse(status int) bool {
	return status >= 200 && status < 400
}

// CacheRequestUntil returns the expiry for an entry stored now.
func (p *Profile) CacheRequestUntil() time.Time {
	if p == nil {
		return time.Now()
	}
	now := p.now()
	if p.config == nil || p.config.CacheLifetimeInMinutes <= 0 {
		return now
	}
	return now.Add(time.Duration(p.config.CacheLifetimeInMinutes) * time.Minute)
}

// CacheNameSuffix is appended to cache keys. Anonymous pages share one
// namespace, so it is always empty.
func (p *Profile) CacheNameSuffix() string {
	return ""
}
