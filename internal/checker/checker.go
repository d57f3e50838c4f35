// Package checker is the boundary to external syntax/type checkers. A
// checker is a black box that takes code and reports diagnostics; the
// stock implementation shells out to the TypeScript compiler.
package checker

import (
	"context"
	"fmt"

	"github.com/snc-project/snc/internal/ir"
)

// Checker runs a syntax/type check over one code string. An empty result
// means the code passed. A missing or broken tool is an error (the
// configuration is wrong), never a list of diagnostics.
type Checker interface {
	Check(ctx context.Context, code string) ([]ir.ValidationError, error)
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context, code string) ([]ir.ValidationError, error)

func (f CheckerFunc) Check(ctx context.Context, code string) ([]ir.ValidationError, error) {
	return f(ctx, code)
}

// Unavailable reports that the checker tool cannot be run at all. This is
// a fatal configuration error, not a validation failure.
type Unavailable struct {
	Tool string
	Err  error
}

func (u *Unavailable) Error() string {
	return fmt.Sprintf("checker %q unavailable: %v", u.Tool, u.Err)
}

func (u *Unavailable) Unwrap() error {
	return u.Err
}
