package ir

import "time"

// TokenType classifies a narrative unit.
type TokenType string

const (
	TokenScene     TokenType = "scene"
	TokenComponent TokenType = "component"
	TokenFunction  TokenType = "function"
)

// StableKey identifies "the same logical unit" across document revisions,
// independent of content. Two tokens with the same key are the same unit
// even when their text differs.
//
// The category collapses to {scene, component, unknown}: functions and any
// future unit kinds share the "unknown" namespace for addressing purposes.
type StableKey struct {
	Category string
	Name     string
}

// Document is a narrative document. Content is only ever replaced wholesale;
// there are no in-place token edits at the document level.
type Document struct {
	ID        string
	Content   string
	Version   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Token is one typed unit of a document: a scene, component or function,
// with the literal lines it directly owns.
type Token struct {
	ID         string
	DocumentID string
	Type       TokenType
	Name       string

	// SceneName / ComponentName mirror the persisted shape: exactly one of
	// them is set for scene/component tokens, neither for functions.
	SceneName     string
	ComponentName string

	// OrderIndex is the token's position in document pre-order.
	OrderIndex int

	// Content is the newline-joined literal lines owned by this unit.
	// Descendants' lines are not included.
	Content string

	// Hash is the content fingerprint of Content.
	Hash string

	// Deps holds names referenced via [REF:X] annotations, sorted.
	Deps []string
}

// Key returns the token's stable identity key.
func (t *Token) Key() StableKey {
	switch t.Type {
	case TokenScene:
		return StableKey{Category: "scene", Name: t.Name}
	case TokenComponent:
		return StableKey{Category: "component", Name: t.Name}
	default:
		return StableKey{Category: "unknown", Name: t.Name}
	}
}

// Artifact is the compiled output for exactly one token. The 1:1 pairing is
// enforced by the orchestrator and a UNIQUE index on token_id; storage
// itself would happily hold more.
type Artifact struct {
	ID          string
	TokenID     string
	Language    string
	Framework   string
	Code        string
	Valid       bool
	CacheHit    bool
	ContentHash string
}

// CacheEntry is an artifact template keyed by content fingerprint. Entries
// are shared across all tokens and documents and are never evicted.
type CacheEntry struct {
	ContentHash string
	Language    string
	Framework   string
	Code        string
	Valid       bool
	CreatedAt   time.Time
}
