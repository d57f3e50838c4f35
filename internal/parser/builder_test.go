package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snc-project/snc/internal/ir"
)

func TestBuildTreeEmptyInput(t *testing.T) {
	assert.Nil(t, BuildTree(""))
	assert.Nil(t, BuildTree("   \n\t\n  "))
}

func TestBuildTreeImplicitDefaultScene(t *testing.T) {
	roots := BuildTree("Just some prose without any markers.")

	require.Len(t, roots, 1)
	assert.Equal(t, ir.TokenScene, roots[0].Type)
	assert.Equal(t, DefaultSceneName, roots[0].Name)
	assert.Equal(t, "Just some prose without any markers.", roots[0].FullText())
}

func TestBuildTreeMarkerCaseInsensitive(t *testing.T) {
	roots := BuildTree("[SCENE: Opening]\nline one\n[scene:Closing]\nline two")

	require.Len(t, roots, 2)
	assert.Equal(t, "Opening", roots[0].Name)
	assert.Equal(t, "Closing", roots[1].Name)
}

func TestBuildTreeMarkerMustBeWholeLine(t *testing.T) {
	// A marker embedded in prose is content, not a marker.
	roots := BuildTree("The log mentions [Scene: Fake] mid-sentence.")

	require.Len(t, roots, 1)
	assert.Equal(t, DefaultSceneName, roots[0].Name)
	assert.Empty(t, roots[0].Children)
}

func TestBuildTreeNesting(t *testing.T) {
	text := `[Scene: Checkout]
The customer reviews their cart.
[Component: CartSummary]
Displays each line item.
[Function: recalcTotals]
Recomputes totals.
[Component: PaymentForm]
Collects card details.
[Scene: Confirmation]
Shows the order number.`

	roots := BuildTree(text)
	require.Len(t, roots, 2)

	checkout := roots[0]
	assert.Equal(t, "Checkout", checkout.Name)
	require.Len(t, checkout.Children, 2)

	cart := checkout.Children[0]
	assert.Equal(t, ir.TokenComponent, cart.Type)
	assert.Equal(t, "CartSummary", cart.Name)
	require.Len(t, cart.Children, 1)
	assert.Equal(t, ir.TokenFunction, cart.Children[0].Type)
	assert.Equal(t, "recalcTotals", cart.Children[0].Name)

	// The second component closed the first one, including its function.
	payment := checkout.Children[1]
	assert.Equal(t, "PaymentForm", payment.Name)
	assert.Empty(t, payment.Children)

	assert.Equal(t, "Confirmation", roots[1].Name)
}

func TestBuildTreeComponentBeforeScene(t *testing.T) {
	roots := BuildTree("[Component: Orphan]\nsome body")

	require.Len(t, roots, 1)
	assert.Equal(t, DefaultSceneName, roots[0].Name)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "Orphan", roots[0].Children[0].Name)
}

func TestBuildTreeAnonymousFunctionName(t *testing.T) {
	roots := BuildTree("[Scene: S]\n[Function]\nbody line")

	require.Len(t, roots, 1)
	require.Len(t, roots[0].Children, 1)
	fn := roots[0].Children[0]
	assert.Equal(t, ir.TokenFunction, fn.Type)
	// Name derives from the marker line, not the body, so editing the
	// body keeps the unit's identity.
	assert.Equal(t, "func_b47196a0", fn.Name)

	again := BuildTree("[Scene: S]\n[Function]\ndifferent body")
	assert.Equal(t, fn.Name, again[0].Children[0].Name)
}

func TestBuildTreeOwnLinesOnly(t *testing.T) {
	text := `[Scene: S]
scene line
[Component: C]
component line`

	roots := BuildTree(text)
	require.Len(t, roots, 1)
	assert.Equal(t, "scene line", roots[0].FullText())
	assert.Equal(t, "component line", roots[0].Children[0].FullText())
}

func TestBuildTreeDeps(t *testing.T) {
	text := `[Scene: S]
[Component: A]
Uses [REF: Billing] and [REF: Auth].
Also mentions REF:Billing again.
[Component: B]
No references here.`

	roots := BuildTree(text)
	require.Len(t, roots, 1)

	a := roots[0].Children[0]
	assert.Equal(t, []string{"Auth", "Billing"}, a.Deps())
	assert.Nil(t, roots[0].Children[1].Deps())

	// Child references fold into the parent scene.
	assert.Equal(t, []string{"Auth", "Billing"}, roots[0].Deps())
}

func TestBuildTreeBlankLinesSkipped(t *testing.T) {
	roots := BuildTree("[Scene: S]\n\nfirst\n\n\nsecond\n")

	require.Len(t, roots, 1)
	assert.Equal(t, "first\nsecond", roots[0].FullText())
}
