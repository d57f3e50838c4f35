package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snc-project/snc/internal/ir"
)

func TestDiffEmptySets(t *testing.T) {
	result, err := Diff(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Removed)
	assert.Empty(t, result.Changed)
	assert.Empty(t, result.Added)
	assert.Empty(t, result.Unchanged)
}

func TestDiffClassification(t *testing.T) {
	removed := sceneToken("Gone", "gone body")
	removed.ID = "id-gone"
	unchanged := sceneToken("Same", "same body")
	unchanged.ID = "id-same"
	changed := sceneToken("Edited", "old body")
	changed.ID = "id-edited"
	old := []ir.Token{removed, unchanged, changed}

	fresh := []ir.Token{
		sceneToken("Same", "same body"),
		sceneToken("Edited", "new body"),
		sceneToken("Fresh", "fresh body"),
	}

	result, err := Diff(old, fresh)
	require.NoError(t, err)

	require.Len(t, result.Removed, 1)
	assert.Equal(t, "id-gone", result.Removed[0].ID)

	require.Len(t, result.Unchanged, 1)
	assert.Equal(t, "id-same", result.Unchanged[0].ID)

	require.Len(t, result.Changed, 1)
	assert.Equal(t, "id-edited", result.Changed[0].Old.ID, "identity survives a content edit")
	assert.Equal(t, "new body", result.Changed[0].NewContent)
	assert.Equal(t, ir.Fingerprint("new body"), result.Changed[0].NewHash)

	require.Len(t, result.Added, 1)
	assert.Equal(t, "Fresh", result.Added[0].Name)
	assert.Empty(t, result.Added[0].ID)
}

func TestDiffKeyIncludesCategory(t *testing.T) {
	scene := sceneToken("Cart", "as a scene")
	scene.ID = "id-scene"
	component := ir.Token{
		Type:          ir.TokenComponent,
		Name:          "Cart",
		ComponentName: "Cart",
		Content:       "as a component",
		Hash:          ir.Fingerprint("as a component"),
	}

	// Same name, different category: no collision, and the scene is
	// removed while the component is added.
	result, err := Diff([]ir.Token{scene}, []ir.Token{component})
	require.NoError(t, err)
	assert.Len(t, result.Removed, 1)
	assert.Len(t, result.Added, 1)
}

func TestDiffDuplicateKeyInFresh(t *testing.T) {
	fresh := []ir.Token{
		sceneToken("Twin", "first"),
		sceneToken("Twin", "second"),
	}

	_, err := Diff(nil, fresh)
	require.Error(t, err)
	assert.True(t, IsCollision(err))
}

func TestDiffDuplicateKeyInOld(t *testing.T) {
	a := sceneToken("Twin", "first")
	a.ID = "id-a"
	b := sceneToken("Twin", "second")
	b.ID = "id-b"

	_, err := Diff([]ir.Token{a, b}, nil)
	require.Error(t, err)
	assert.True(t, IsCollision(err))
}

func TestDiffFunctionAndSceneShareUnknownNamespace(t *testing.T) {
	fn := ir.Token{Type: ir.TokenFunction, Name: "submit", Content: "a", Hash: ir.Fingerprint("a")}
	fn2 := ir.Token{Type: ir.TokenFunction, Name: "submit", Content: "b", Hash: ir.Fingerprint("b")}

	_, err := Diff(nil, []ir.Token{fn, fn2})
	assert.True(t, IsCollision(err))
}
