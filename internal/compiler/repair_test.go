package compiler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snc-project/snc/internal/checker"
	"github.com/snc-project/snc/internal/ir"
	"github.com/snc-project/snc/internal/oracle"
	"github.com/snc-project/snc/internal/store"
	"github.com/snc-project/snc/internal/validate"
)

// repairFixture seeds a document, token and artifact and wires a repairer
// whose syntax checker fails until the code contains "// fixed".
func repairFixture(t *testing.T, mock *oracle.Mock) (*store.Store, *Repairer, ir.Artifact) {
	t.Helper()
	st := openTestStore(t)
	ctx := context.Background()

	doc := insertDocument(t, st, "Plain prose, no promises.")
	tok := insertSceneToken(t, st, doc.ID, "S", "Plain prose, no promises.", 0)

	a := ir.Artifact{
		ID:          uuid.Must(uuid.NewV7()).String(),
		TokenID:     tok.ID,
		Language:    "typescript",
		Framework:   "angular",
		Code:        "export class Broken {",
		Valid:       false,
		ContentHash: tok.Hash,
	}
	require.NoError(t, st.InsertArtifact(ctx, a))

	brokenUntilFixed := checker.CheckerFunc(
		func(ctx context.Context, code string) ([]ir.ValidationError, error) {
			if strings.Contains(code, "// fixed") {
				return nil, nil
			}
			return []ir.ValidationError{{
				Source: "artifact.ts", Line: 1, Code: "TS1005", Message: "'}' expected.",
			}}, nil
		})
	registry := validate.NewRegistry(map[string]validate.Validator{
		"typescript": validate.NewTypeScript(st, brokenUntilFixed),
	})
	return st, NewRepairer(st, registry, mock), a
}

func TestRepairAlreadyValid(t *testing.T) {
	mock := &oracle.Mock{}
	st, repairer, a := repairFixture(t, mock)
	ctx := context.Background()

	// Make the stored code pass immediately.
	require.NoError(t, st.UpdateArtifactCode(ctx, a.ID, "export class Fine {} // fixed", false))

	valid, err := repairer.Repair(ctx, a.ID, 3)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, 0, mock.FixCalls(), "no fix needed")

	stored, err := st.GetArtifact(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, stored.Valid)
}

func TestRepairSucceedsFirstFix(t *testing.T) {
	mock := &oracle.Mock{} // default FixCode appends "// fixed"
	st, repairer, a := repairFixture(t, mock)
	ctx := context.Background()

	valid, err := repairer.Repair(ctx, a.ID, 3)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, 1, mock.FixCalls())

	stored, err := st.GetArtifact(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, stored.Valid)
	assert.Equal(t, a.ID, stored.ID, "the artifact is rewritten in place, never replaced")
	assert.Contains(t, stored.Code, "// fixed")
}

func TestRepairExhaustsAttempts(t *testing.T) {
	mock := &oracle.Mock{
		// Fixes never converge.
		FixFunc: func(code, errorSummary string) (string, error) {
			return code + "\n// still broken\n", nil
		},
	}
	st, repairer, a := repairFixture(t, mock)
	ctx := context.Background()

	valid, err := repairer.Repair(ctx, a.ID, 3)
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Equal(t, 3, mock.FixCalls(), "at most maxAttempts fix calls")

	stored, err := st.GetArtifact(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, stored.Valid)
}

func TestRepairOracleFailureAborts(t *testing.T) {
	boom := errors.New("oracle gone")
	mock := &oracle.Mock{
		FixFunc: func(code, errorSummary string) (string, error) {
			return "", boom
		},
	}
	_, repairer, a := repairFixture(t, mock)

	_, err := repairer.Repair(context.Background(), a.ID, 3)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, mock.FixCalls(), "the loop aborts, it does not retry the oracle itself")
}

func TestRepairErrorSummaryInPrompt(t *testing.T) {
	var seenSummary string
	mock := &oracle.Mock{
		FixFunc: func(code, errorSummary string) (string, error) {
			seenSummary = errorSummary
			return code + " // fixed", nil
		},
	}
	_, repairer, a := repairFixture(t, mock)

	_, err := repairer.Repair(context.Background(), a.ID, 3)
	require.NoError(t, err)
	assert.Contains(t, seenSummary, "Found the following typescript errors:")
	assert.Contains(t, seenSummary, "artifact.ts(1,0): '}' expected.")
}

func TestRepairMissingArtifact(t *testing.T) {
	mock := &oracle.Mock{}
	_, repairer, _ := repairFixture(t, mock)

	_, err := repairer.Repair(context.Background(), uuid.Must(uuid.NewV7()).String(), 3)
	assert.True(t, IsNotFound(err))
}

func TestRepairUnsupportedLanguage(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	doc := insertDocument(t, st, "prose")
	tok := insertSceneToken(t, st, doc.ID, "S", "prose", 0)
	a := ir.Artifact{
		ID:          uuid.Must(uuid.NewV7()).String(),
		TokenID:     tok.ID,
		Language:    "haskell",
		Code:        "main = pure ()",
		ContentHash: tok.Hash,
	}
	require.NoError(t, st.InsertArtifact(ctx, a))

	repairer := NewRepairer(st, validate.NewRegistry(map[string]validate.Validator{}), &oracle.Mock{})
	_, err := repairer.Repair(ctx, a.ID, 3)
	assert.True(t, IsUnsupportedLanguage(err))
}

func TestSummarizeErrors(t *testing.T) {
	summary := SummarizeErrors("typescript", []ir.ValidationError{
		{Source: "artifact.ts", Line: 3, Column: 5, Message: "Cannot find name 'foo'."},
		{Source: "artifact.ts", Line: 8, Column: 1, Message: "';' expected."},
	})
	assert.Equal(t,
		"Found the following typescript errors:\n"+
			"artifact.ts(3,5): Cannot find name 'foo'.\n"+
			"artifact.ts(8,1): ';' expected.",
		summary)
}
