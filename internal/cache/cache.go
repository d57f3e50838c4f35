// Package cache is the content-addressed artifact cache: fingerprint →
// artifact template, shared across all tokens and documents. Same hash
// means byte-identical code, and only the first compile of a given hash
// ever pays the oracle's cost.
package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/snc-project/snc/internal/ir"
	"github.com/snc-project/snc/internal/store"
)

// Cache wraps the store's cache_entries table with the dedup semantics the
// orchestrator relies on.
type Cache struct {
	store *store.Store
}

// New creates a cache over the given store.
func New(st *store.Store) *Cache {
	return &Cache{store: st}
}

// GetByHash returns the artifact template for a content hash, or nil when
// the hash has never been compiled.
func (c *Cache) GetByHash(ctx context.Context, hash string) (*ir.CacheEntry, error) {
	return c.store.GetCacheEntry(ctx, hash)
}

// Store registers an artifact's code under a content hash. Idempotent:
// a second write for the same hash is a no-op, so the first compile wins
// and same-hash artifacts stay byte-identical.
func (c *Cache) Store(ctx context.Context, hash string, a ir.Artifact) error {
	return c.store.UpsertCacheEntry(ctx, ir.CacheEntry{
		ContentHash: hash,
		Language:    a.Language,
		Framework:   a.Framework,
		Code:        a.Code,
		Valid:       a.Valid,
	})
}

// DuplicateForToken materializes a cached template as a fresh artifact
// owned by the given token. The new artifact copies code, language,
// framework and validity from the template and is marked as a cache hit.
func (c *Cache) DuplicateForToken(ctx context.Context, tokenID string, tmpl ir.CacheEntry) (ir.Artifact, error) {
	a := ir.Artifact{
		ID:          uuid.Must(uuid.NewV7()).String(),
		TokenID:     tokenID,
		Language:    tmpl.Language,
		Framework:   tmpl.Framework,
		Code:        tmpl.Code,
		Valid:       tmpl.Valid,
		CacheHit:    true,
		ContentHash: tmpl.ContentHash,
	}
	if err := c.store.InsertArtifact(ctx, a); err != nil {
		return ir.Artifact{}, fmt.Errorf("duplicate for token: %w", err)
	}
	return a, nil
}
