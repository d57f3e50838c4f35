package compiler

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/snc-project/snc/internal/cache"
	"github.com/snc-project/snc/internal/ir"
	"github.com/snc-project/snc/internal/oracle"
	"github.com/snc-project/snc/internal/store"
)

// DefaultMaxParallel bounds concurrent token compiles within one document.
const DefaultMaxParallel = 4

// Orchestrator produces exactly one artifact per token. The oracle and
// cache are explicit dependencies; nothing here reaches for ambient
// state.
type Orchestrator struct {
	store       *store.Store
	loader      *cache.Loader
	cache       *cache.Cache
	oracle      oracle.Oracle
	language    string
	framework   string
	maxParallel int
}

// Options tunes an Orchestrator.
type Options struct {
	Language    string // target language tag, default "typescript"
	Framework   string // target framework tag, default "angular"
	MaxParallel int    // concurrent compiles per document, default 4
}

// NewOrchestrator wires an orchestrator over its collaborators.
func NewOrchestrator(st *store.Store, c *cache.Cache, o oracle.Oracle, opts Options) *Orchestrator {
	if opts.Language == "" {
		opts.Language = "typescript"
	}
	if opts.Framework == "" {
		opts.Framework = "angular"
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = DefaultMaxParallel
	}
	return &Orchestrator{
		store:       st,
		loader:      cache.NewLoader(c),
		cache:       c,
		oracle:      o,
		language:    opts.Language,
		framework:   opts.Framework,
		maxParallel: opts.MaxParallel,
	}
}

// CompileToken returns the artifact for a token, producing it if needed.
//
// Resolution order:
//  1. the token's own existing artifact (idempotent re-read),
//  2. the shared cache, duplicated into a new artifact for this token,
//  3. the oracle, at most once per content hash across concurrent calls.
func (o *Orchestrator) CompileToken(ctx context.Context, tokenID string) (ir.Artifact, error) {
	token, err := o.store.GetToken(ctx, tokenID)
	if err != nil {
		return ir.Artifact{}, err
	}
	if token == nil {
		return ir.Artifact{}, NewNotFound("token", tokenID)
	}

	if existing, err := o.store.ArtifactByToken(ctx, tokenID); err != nil {
		return ir.Artifact{}, err
	} else if existing != nil {
		// Re-reads count as cache hits.
		if err := o.store.SetArtifactCacheHit(ctx, existing.ID, true); err != nil {
			return ir.Artifact{}, err
		}
		existing.CacheHit = true
		slog.Debug("compile: existing artifact reused",
			"token", tokenID, "artifact", existing.ID)
		return *existing, nil
	}

	entry, hit, err := o.loader.Load(ctx, token.Hash, func(ctx context.Context) (ir.CacheEntry, error) {
		slog.Info("compile: invoking oracle", "token", tokenID, "hash", token.Hash)
		code, err := o.oracle.GenerateCode(ctx, token.Content)
		if err != nil {
			return ir.CacheEntry{}, err
		}
		return ir.CacheEntry{
			Language:  o.language,
			Framework: o.framework,
			Code:      code,
			Valid:     true,
		}, nil
	})
	if err != nil {
		return ir.Artifact{}, err
	}

	if hit {
		slog.Debug("compile: cache hit", "token", tokenID, "hash", token.Hash)
		return o.cache.DuplicateForToken(ctx, tokenID, entry)
	}

	artifact := ir.Artifact{
		ID:          uuid.Must(uuid.NewV7()).String(),
		TokenID:     tokenID,
		Language:    entry.Language,
		Framework:   entry.Framework,
		Code:        entry.Code,
		Valid:       true, // optimistic until validated
		CacheHit:    false,
		ContentHash: token.Hash,
	}
	if err := o.store.InsertArtifact(ctx, artifact); err != nil {
		return ir.Artifact{}, err
	}
	slog.Info("compile: artifact created",
		"token", tokenID, "artifact", artifact.ID, "hash", token.Hash)
	return artifact, nil
}

// CompileDocument compiles every token of a document, concurrently up to
// the configured parallelism. Tokens are independent; no inter-token
// ordering is guaranteed. Artifacts come back in document order.
func (o *Orchestrator) CompileDocument(ctx context.Context, documentID string) ([]ir.Artifact, error) {
	doc, err := o.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, NewNotFound("document", documentID)
	}

	tokens, err := o.store.TokensByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	artifacts := make([]ir.Artifact, len(tokens))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxParallel)
	for i, tok := range tokens {
		g.Go(func() error {
			a, err := o.CompileToken(gctx, tok.ID)
			if err != nil {
				return err
			}
			artifacts[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}
