package compiler

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/snc-project/snc/internal/cache"
	"github.com/snc-project/snc/internal/ir"
	"github.com/snc-project/snc/internal/oracle"
	"github.com/snc-project/snc/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// newPipeline wires a store, mock oracle, orchestrator and updater over a
// throwaway database.
func newPipeline(t *testing.T) (*store.Store, *oracle.Mock, *Orchestrator, *Updater) {
	t.Helper()
	st := openTestStore(t)
	mock := &oracle.Mock{}
	orch := NewOrchestrator(st, cache.New(st), mock, Options{})
	return st, mock, orch, NewUpdater(st, orch)
}

func sceneToken(name, content string) ir.Token {
	return ir.Token{
		Type:       ir.TokenScene,
		Name:       name,
		SceneName:  name,
		Content:    content,
		Hash:       ir.Fingerprint(content),
	}
}

// insertSceneToken persists a scene token for doc and returns it.
func insertSceneToken(t *testing.T, st *store.Store, docID, name, content string, order int) ir.Token {
	t.Helper()
	tok := sceneToken(name, content)
	tok.ID = uuid.Must(uuid.NewV7()).String()
	tok.DocumentID = docID
	tok.OrderIndex = order
	require.NoError(t, st.InsertToken(context.Background(), tok))
	return tok
}

func insertDocument(t *testing.T, st *store.Store, content string) ir.Document {
	t.Helper()
	doc := ir.Document{ID: uuid.Must(uuid.NewV7()).String(), Content: content, Version: "v1"}
	require.NoError(t, st.CreateDocument(context.Background(), doc))
	return doc
}
