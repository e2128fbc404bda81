// Package sourcecache provides the run-scoped registry of opened source
// handles, keyed by resolved path.
package sourcecache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/deathbreakfast/marvel-mega-cut/engine"
)

// Opener opens a source handle for a resolved path. engine.Engine satisfies
// this interface.
type Opener interface {
	OpenSource(ctx context.Context, path string) (engine.Source, error)
}

// Handle wraps a shared source with a per-handle lock. Source handles are
// not assumed safe for concurrent trims, so workers funnel handle-touching
// work through Do.
type Handle struct {
	src engine.Source
	mu  sync.Mutex
}

// Source returns the underlying source for read-only metadata access
// (path, duration, audio tracks).
func (h *Handle) Source() engine.Source {
	return h.src
}

// Do runs fn while holding the handle's lock, serializing work on one source
// across concurrent scene workers.
func (h *Handle) Do(fn func(engine.Source) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.src)
}

type entry struct {
	once   sync.Once
	handle *Handle
	err    error
	closed bool
}

// Cache is a run-scoped get-or-open registry. Each distinct path is opened
// at most once, even under concurrent access; CloseAll tears every handle
// down exactly once.
type Cache struct {
	opener Opener

	mu      sync.Mutex
	entries map[string]*entry
	closed  bool
}

// New creates an empty cache that opens sources through opener.
func New(opener Opener) *Cache {
	return &Cache{
		opener:  opener,
		entries: make(map[string]*entry),
	}
}

// GetOrOpen returns the existing handle for path, opening and registering one
// on first access. Concurrent callers for the same path share a single open;
// a failed open is remembered for the run rather than retried.
func (c *Cache) GetOrOpen(ctx context.Context, path string) (*Handle, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, fmt.Errorf("source cache is closed")
	}
	e, ok := c.entries[path]
	if !ok {
		e = &entry{}
		c.entries[path] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		src, err := c.opener.OpenSource(ctx, path)
		if err != nil {
			e.err = fmt.Errorf("failed to open source %s: %w", path, err)
			return
		}
		e.handle = &Handle{src: src}
	})

	return e.handle, e.err
}

// Len returns the number of registered paths, including failed opens.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CloseAll closes every registered handle exactly once. Calling CloseAll
// again, or on a cache whose handles were already closed, is harmless.
func (c *Cache) CloseAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true

	var errs []error
	for path, e := range c.entries {
		if e.handle == nil || e.closed {
			continue
		}
		e.closed = true
		if err := e.handle.src.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}
