// Package validate runs compiled artifacts through a two-step check:
// first a language-specific syntax/type checker, then - only when that
// passes - semantic expectations derived from the narrative that produced
// the artifact. Validators are looked up in a static registry keyed by
// language tag.
package validate

import (
	"context"
	"fmt"

	"github.com/snc-project/snc/internal/ir"
)

// Validator validates one artifact by id and records the outcome on the
// artifact's valid flag. A failed validation is a normal result; errors
// are reserved for missing artifacts, broken checkers and the like.
type Validator interface {
	Validate(ctx context.Context, artifactID string) (ir.ValidationResult, error)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, artifactID string) (ir.ValidationResult, error)

func (f ValidatorFunc) Validate(ctx context.Context, artifactID string) (ir.ValidationResult, error) {
	return f(ctx, artifactID)
}

// UnsupportedLanguageError reports a language with no registered
// validator. This is a configuration error and fails fast.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("no validator registered for language %q", e.Language)
}
