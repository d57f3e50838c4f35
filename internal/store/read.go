package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/snc-project/snc/internal/ir"
)

// Absence is reported as (nil, nil), not an error; callers decide whether
// a missing row is exceptional.

// GetDocument returns a document by id, or nil if it does not exist.
func (s *Store) GetDocument(ctx context.Context, id string) (*ir.Document, error) {
	var doc ir.Document
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, content, version, created_at, updated_at
		FROM documents
		WHERE id = ?
	`, id).Scan(&doc.ID, &doc.Content, &doc.Version, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	doc.CreatedAt = parseTimestamp(createdAt)
	doc.UpdatedAt = parseTimestamp(updatedAt)
	return &doc, nil
}

// GetToken returns a token by id, or nil if it does not exist.
func (s *Store) GetToken(ctx context.Context, id string) (*ir.Token, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, token_type, token_name, scene_name, component_name, order_index, content, hash, deps
		FROM tokens
		WHERE id = ?
	`, id)
	tok, err := scanToken(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}
	return tok, nil
}

// TokensByDocument returns a document's tokens in document order.
// Returns an empty slice (not nil) when the document has no tokens.
func (s *Store) TokensByDocument(ctx context.Context, documentID string) ([]ir.Token, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, token_type, token_name, scene_name, component_name, order_index, content, hash, deps
		FROM tokens
		WHERE document_id = ?
		ORDER BY order_index ASC, id COLLATE BINARY ASC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("query tokens: %w", err)
	}
	defer rows.Close()

	tokens := []ir.Token{}
	for rows.Next() {
		tok, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		tokens = append(tokens, *tok)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tokens: %w", err)
	}
	return tokens, nil
}

// MaxOrderIndex returns the highest order index among a document's tokens,
// or -1 when the document has none.
func (s *Store) MaxOrderIndex(ctx context.Context, documentID string) (int, error) {
	var max sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(order_index) FROM tokens WHERE document_id = ?
	`, documentID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max order index: %w", err)
	}
	if !max.Valid {
		return -1, nil
	}
	return int(max.Int64), nil
}

// GetArtifact returns an artifact by id, or nil if it does not exist.
func (s *Store) GetArtifact(ctx context.Context, id string) (*ir.Artifact, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, token_id, language, framework, code, valid, cache_hit, content_hash
		FROM artifacts
		WHERE id = ?
	`, id)
	a, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact: %w", err)
	}
	return a, nil
}

// ArtifactByToken returns the artifact owned by a token, or nil when the
// token has none.
func (s *Store) ArtifactByToken(ctx context.Context, tokenID string) (*ir.Artifact, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, token_id, language, framework, code, valid, cache_hit, content_hash
		FROM artifacts
		WHERE token_id = ?
	`, tokenID)
	a, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("artifact by token: %w", err)
	}
	return a, nil
}

// ArtifactsByDocument returns the artifacts for a document's tokens in
// document order.
func (s *Store) ArtifactsByDocument(ctx context.Context, documentID string) ([]ir.Artifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.token_id, a.language, a.framework, a.code, a.valid, a.cache_hit, a.content_hash
		FROM artifacts a
		JOIN tokens t ON a.token_id = t.id
		WHERE t.document_id = ?
		ORDER BY t.order_index ASC, a.id COLLATE BINARY ASC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := []ir.Artifact{}
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		artifacts = append(artifacts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return artifacts, nil
}

// OrphanArtifactCount returns the number of artifacts whose token no
// longer exists. Should always be zero; exposed for invariant checks.
func (s *Store) OrphanArtifactCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM artifacts a
		LEFT JOIN tokens t ON a.token_id = t.id
		WHERE t.id IS NULL
	`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("orphan artifact count: %w", err)
	}
	return n, nil
}

// GetCacheEntry returns the artifact template for a content hash, or nil
// when the hash has never been compiled.
func (s *Store) GetCacheEntry(ctx context.Context, contentHash string) (*ir.CacheEntry, error) {
	var e ir.CacheEntry
	var valid int
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT content_hash, language, framework, code, valid, created_at
		FROM cache_entries
		WHERE content_hash = ?
	`, contentHash).Scan(&e.ContentHash, &e.Language, &e.Framework, &e.Code, &valid, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cache entry: %w", err)
	}
	e.Valid = valid != 0
	e.CreatedAt = parseTimestamp(createdAt)
	return &e, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanToken(row scanner) (*ir.Token, error) {
	var tok ir.Token
	var tokenType, deps string
	var sceneName, componentName sql.NullString
	err := row.Scan(
		&tok.ID,
		&tok.DocumentID,
		&tokenType,
		&tok.Name,
		&sceneName,
		&componentName,
		&tok.OrderIndex,
		&tok.Content,
		&tok.Hash,
		&deps,
	)
	if err != nil {
		return nil, err
	}
	tok.Type = ir.TokenType(tokenType)
	tok.SceneName = sceneName.String
	tok.ComponentName = componentName.String
	tok.Deps, err = unmarshalDeps(deps)
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

func scanArtifact(row scanner) (*ir.Artifact, error) {
	var a ir.Artifact
	var valid, cacheHit int
	err := row.Scan(
		&a.ID,
		&a.TokenID,
		&a.Language,
		&a.Framework,
		&a.Code,
		&valid,
		&cacheHit,
		&a.ContentHash,
	)
	if err != nil {
		return nil, err
	}
	a.Valid = valid != 0
	a.CacheHit = cacheHit != 0
	return &a, nil
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05.000Z", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
