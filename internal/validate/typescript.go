package validate

import (
	"context"
	"fmt"

	"github.com/snc-project/snc/internal/checker"
	"github.com/snc-project/snc/internal/ir"
	"github.com/snc-project/snc/internal/store"
)

// TypeScript validates TypeScript artifacts: tsc first, semantic
// expectations second. Syntax errors short-circuit - expectations are
// only checked against code that at least compiles.
type TypeScript struct {
	store   *store.Store
	checker checker.Checker
}

// NewTypeScript creates a TypeScript validator over a store and a syntax
// checker.
func NewTypeScript(st *store.Store, ch checker.Checker) *TypeScript {
	return &TypeScript{store: st, checker: ch}
}

func (v *TypeScript) Validate(ctx context.Context, artifactID string) (ir.ValidationResult, error) {
	artifact, err := v.store.GetArtifact(ctx, artifactID)
	if err != nil {
		return ir.ValidationResult{}, err
	}
	if artifact == nil {
		return ir.ValidationResult{}, fmt.Errorf("validate: artifact %s not found", artifactID)
	}

	result, err := v.check(ctx, artifact)
	if err != nil {
		return ir.ValidationResult{}, err
	}

	// The artifact records the outcome unconditionally, pass or fail.
	if err := v.store.SetArtifactValid(ctx, artifactID, result.Success); err != nil {
		return ir.ValidationResult{}, err
	}
	return result, nil
}

func (v *TypeScript) check(ctx context.Context, artifact *ir.Artifact) (ir.ValidationResult, error) {
	syntaxErrs, err := v.checker.Check(ctx, artifact.Code)
	if err != nil {
		return ir.ValidationResult{}, err
	}
	if len(syntaxErrs) > 0 {
		return ir.ValidationResult{Success: false, Errors: syntaxErrs}, nil
	}

	narrative, err := v.narrativeFor(ctx, artifact)
	if err != nil {
		return ir.ValidationResult{}, err
	}

	semanticErrs := CheckExpectations(DeriveExpectations(narrative), artifact.Code)
	return ir.ValidationResult{
		Success: len(semanticErrs) == 0,
		Errors:  semanticErrs,
	}, nil
}

// narrativeFor returns the raw text of the document owning the artifact's
// token. Expectations are derived from the whole document, mirroring how
// the narrative promises things across unit boundaries.
func (v *TypeScript) narrativeFor(ctx context.Context, artifact *ir.Artifact) (string, error) {
	token, err := v.store.GetToken(ctx, artifact.TokenID)
	if err != nil {
		return "", err
	}
	if token == nil {
		return "", fmt.Errorf("validate: token %s not found", artifact.TokenID)
	}
	doc, err := v.store.GetDocument(ctx, token.DocumentID)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", fmt.Errorf("validate: document %s not found", token.DocumentID)
	}
	return doc.Content, nil
}
