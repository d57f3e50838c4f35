package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/snc-project/snc/internal/ir"
)

// execer abstracts *sql.DB and *sql.Tx so token/artifact writes can run
// standalone or inside a reconcile transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateDocument inserts a document record.
func (s *Store) CreateDocument(ctx context.Context, doc ir.Document) error {
	version := doc.Version
	if version == "" {
		version = "v1"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, content, version)
		VALUES (?, ?, ?)
	`, doc.ID, doc.Content, version)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// UpdateDocumentContent replaces a document's text wholesale. Documents are
// never partially mutated; this is the only content write path.
func (s *Store) UpdateDocumentContent(ctx context.Context, id, content string) error {
	return updateDocumentContent(ctx, s.db, id, content)
}

func updateDocumentContent(ctx context.Context, db execer, id, content string) error {
	_, err := db.ExecContext(ctx, `
		UPDATE documents
		SET content = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ?
	`, content, id)
	if err != nil {
		return fmt.Errorf("update document content: %w", err)
	}
	return nil
}

// DeleteDocument removes a document. Tokens and artifacts cascade.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// InsertToken inserts a token record. The stable-key uniqueness index
// rejects a second token with the same (category, name) in one document.
func (s *Store) InsertToken(ctx context.Context, tok ir.Token) error {
	return insertToken(ctx, s.db, tok)
}

func insertToken(ctx context.Context, db execer, tok ir.Token) error {
	deps, err := marshalDeps(tok.Deps)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO tokens
		(id, document_id, token_type, token_name, key_category, scene_name, component_name, order_index, content, hash, deps)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		tok.ID,
		tok.DocumentID,
		string(tok.Type),
		tok.Name,
		tok.Key().Category,
		nullable(tok.SceneName),
		nullable(tok.ComponentName),
		tok.OrderIndex,
		tok.Content,
		tok.Hash,
		deps,
	)
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// UpdateTokenContent rewrites a token's content and hash in place. The
// token's identity (id, key, order) is preserved; only the text changes.
func (s *Store) UpdateTokenContent(ctx context.Context, id, content, hash string) error {
	return updateTokenContent(ctx, s.db, id, content, hash)
}

func updateTokenContent(ctx context.Context, db execer, id, content, hash string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE tokens SET content = ?, hash = ? WHERE id = ?
	`, content, hash, id)
	if err != nil {
		return fmt.Errorf("update token content: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update token content: token %s not found", id)
	}
	return nil
}

// DeleteToken removes a token record; its artifact cascades.
func (s *Store) DeleteToken(ctx context.Context, id string) error {
	return deleteToken(ctx, s.db, id)
}

func deleteToken(ctx context.Context, db execer, id string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM tokens WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// InsertArtifact inserts an artifact record. The one-artifact-per-token
// index rejects a second artifact for the same token.
func (s *Store) InsertArtifact(ctx context.Context, a ir.Artifact) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artifacts
		(id, token_id, language, framework, code, valid, cache_hit, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.ID,
		a.TokenID,
		a.Language,
		a.Framework,
		a.Code,
		boolToInt(a.Valid),
		boolToInt(a.CacheHit),
		a.ContentHash,
	)
	if err != nil {
		return fmt.Errorf("insert artifact: %w", err)
	}
	return nil
}

// UpdateArtifactCode overwrites an artifact's code in place and records the
// given validity. The artifact is never deleted or recreated by repair.
func (s *Store) UpdateArtifactCode(ctx context.Context, id, code string, valid bool) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE artifacts SET code = ?, valid = ? WHERE id = ?
	`, code, boolToInt(valid), id)
	if err != nil {
		return fmt.Errorf("update artifact code: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update artifact code: artifact %s not found", id)
	}
	return nil
}

// SetArtifactValid records a validation outcome.
func (s *Store) SetArtifactValid(ctx context.Context, id string, valid bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE artifacts SET valid = ? WHERE id = ?
	`, boolToInt(valid), id)
	if err != nil {
		return fmt.Errorf("set artifact valid: %w", err)
	}
	return nil
}

// SetArtifactCacheHit marks an artifact as served from cache.
func (s *Store) SetArtifactCacheHit(ctx context.Context, id string, hit bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE artifacts SET cache_hit = ? WHERE id = ?
	`, boolToInt(hit), id)
	if err != nil {
		return fmt.Errorf("set artifact cache_hit: %w", err)
	}
	return nil
}

// DeleteArtifactForToken removes the artifact owned by a token, if any.
func (s *Store) DeleteArtifactForToken(ctx context.Context, tokenID string) error {
	return deleteArtifactForToken(ctx, s.db, tokenID)
}

func deleteArtifactForToken(ctx context.Context, db execer, tokenID string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM artifacts WHERE token_id = ?`, tokenID); err != nil {
		return fmt.Errorf("delete artifact for token: %w", err)
	}
	return nil
}

// UpsertCacheEntry registers an artifact template under its content hash.
// Uses ON CONFLICT DO NOTHING for idempotency: the first write for a hash
// wins and later identical writes are silently ignored.
func (s *Store) UpsertCacheEntry(ctx context.Context, e ir.CacheEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (content_hash, language, framework, code, valid)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(content_hash) DO NOTHING
	`, e.ContentHash, e.Language, e.Framework, e.Code, boolToInt(e.Valid))
	if err != nil {
		return fmt.Errorf("upsert cache entry: %w", err)
	}
	return nil
}

// ChangedToken is an in-place content rewrite for one surviving token.
type ChangedToken struct {
	TokenID string
	Content string
	Hash    string
}

// ReconcileMutation is the full set of token mutations produced by diffing
// one document revision against the next.
type ReconcileMutation struct {
	RemovedTokenIDs []string
	Changed         []ChangedToken
	Added           []ir.Token
}

// ApplyReconcile applies a document update atomically: the new document
// text, removed tokens (artifact deleted before token, never orphaned),
// changed tokens (artifact dropped, content rewritten in place) and added
// tokens all commit or roll back together. Recompilation happens after,
// outside the transaction, per token.
func (s *Store) ApplyReconcile(ctx context.Context, documentID, newContent string, mut ReconcileMutation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("apply reconcile: begin: %w", err)
	}
	defer tx.Rollback()

	if err := updateDocumentContent(ctx, tx, documentID, newContent); err != nil {
		return fmt.Errorf("apply reconcile: %w", err)
	}

	for _, id := range mut.RemovedTokenIDs {
		if err := deleteArtifactForToken(ctx, tx, id); err != nil {
			return fmt.Errorf("apply reconcile: %w", err)
		}
		if err := deleteToken(ctx, tx, id); err != nil {
			return fmt.Errorf("apply reconcile: %w", err)
		}
	}

	for _, ch := range mut.Changed {
		if err := deleteArtifactForToken(ctx, tx, ch.TokenID); err != nil {
			return fmt.Errorf("apply reconcile: %w", err)
		}
		if err := updateTokenContent(ctx, tx, ch.TokenID, ch.Content, ch.Hash); err != nil {
			return fmt.Errorf("apply reconcile: %w", err)
		}
	}

	for _, tok := range mut.Added {
		if err := insertToken(ctx, tx, tok); err != nil {
			return fmt.Errorf("apply reconcile: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply reconcile: commit: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
