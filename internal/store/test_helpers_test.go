package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/snc-project/snc/internal/ir"
)

// openTestStore creates a store backed by a throwaway database file.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// seedDocument inserts a document with the given content.
func seedDocument(t *testing.T, s *Store, content string) ir.Document {
	t.Helper()
	doc := ir.Document{ID: newID(), Content: content, Version: "v1"}
	require.NoError(t, s.CreateDocument(context.Background(), doc))
	return doc
}

// seedToken inserts one scene token owned by doc.
func seedToken(t *testing.T, s *Store, docID, name, content string, order int) ir.Token {
	t.Helper()
	tok := ir.Token{
		ID:         newID(),
		DocumentID: docID,
		Type:       ir.TokenScene,
		Name:       name,
		SceneName:  name,
		OrderIndex: order,
		Content:    content,
		Hash:       ir.Fingerprint(content),
	}
	require.NoError(t, s.InsertToken(context.Background(), tok))
	return tok
}

// seedArtifact inserts an artifact for the token.
func seedArtifact(t *testing.T, s *Store, tok ir.Token) ir.Artifact {
	t.Helper()
	a := ir.Artifact{
		ID:          newID(),
		TokenID:     tok.ID,
		Language:    "typescript",
		Framework:   "angular",
		Code:        "export class Thing {}\n",
		Valid:       true,
		ContentHash: tok.Hash,
	}
	require.NoError(t, s.InsertArtifact(context.Background(), a))
	return a
}
