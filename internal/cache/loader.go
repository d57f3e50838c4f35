package cache

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/snc-project/snc/internal/ir"
)

// Loader closes the read-then-write race on the cache: without it, two
// concurrent compiles of the same previously-unseen hash would both miss
// and both pay the oracle. Loads for the same hash are collapsed into a
// single flight; everyone else blocks and reuses the leader's result.
type Loader struct {
	cache *Cache
	group singleflight.Group
}

// NewLoader creates a single-flight loader over a cache.
func NewLoader(c *Cache) *Loader {
	return &Loader{cache: c}
}

// GenerateFunc produces an artifact template for a hash that is not in the
// cache. It is invoked at most once per hash across concurrent callers.
type GenerateFunc func(ctx context.Context) (ir.CacheEntry, error)

// Load returns the template for a content hash, generating and registering
// it on first use. The second return reports whether the caller got a
// cached result: false only for the one call that actually generated.
func (l *Loader) Load(ctx context.Context, hash string, generate GenerateFunc) (ir.CacheEntry, bool, error) {
	if entry, err := l.cache.GetByHash(ctx, hash); err != nil {
		return ir.CacheEntry{}, false, err
	} else if entry != nil {
		return *entry, true, nil
	}

	// Each caller captures its own fresh flag; singleflight runs exactly
	// one caller's closure, so the flag flips only for the generating
	// caller and followers keep reporting a hit.
	fresh := false
	v, err, _ := l.group.Do(hash, func() (any, error) {
		// Re-check under the flight: a previous leader may have finished
		// between our miss and joining the group.
		if entry, err := l.cache.GetByHash(ctx, hash); err != nil {
			return nil, err
		} else if entry != nil {
			return *entry, nil
		}

		entry, err := generate(ctx)
		if err != nil {
			return nil, err
		}
		entry.ContentHash = hash
		if err := l.cache.store.UpsertCacheEntry(ctx, entry); err != nil {
			return nil, err
		}
		fresh = true
		return entry, nil
	})
	if err != nil {
		return ir.CacheEntry{}, false, fmt.Errorf("load %s: %w", hash, err)
	}

	return v.(ir.CacheEntry), !fresh, nil
}
