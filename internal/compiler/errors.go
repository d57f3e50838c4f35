package compiler

import (
	"errors"
	"fmt"

	"github.com/snc-project/snc/internal/checker"
	"github.com/snc-project/snc/internal/oracle"
	"github.com/snc-project/snc/internal/validate"
)

// ErrorCode categorizes pipeline errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a referenced token, artifact or document
	// does not exist. Surfaced to the caller, never retried.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeTokenCollision indicates two tokens in one document revision
	// share a stable key.
	ErrCodeTokenCollision ErrorCode = "TOKEN_COLLISION"
)

// Error is a structured pipeline error with enough context to diagnose
// which entity was involved.
type Error struct {
	Code    ErrorCode
	Message string
	Kind    string // "token" | "artifact" | "document"
	ID      string
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s (%s=%s)", e.Code, e.Message, e.Kind, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNotFound creates a NOT_FOUND error for the given entity.
func NewNotFound(kind, id string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: kind + " not found",
		Kind:    kind,
		ID:      id,
	}
}

// NewCollision creates a TOKEN_COLLISION error for a duplicated stable key.
func NewCollision(key string) *Error {
	return &Error{
		Code:    ErrCodeTokenCollision,
		Message: "duplicate stable key " + key,
		Kind:    "token",
	}
}

// IsNotFound reports whether err is a NOT_FOUND pipeline error.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeNotFound
}

// IsCollision reports whether err is a TOKEN_COLLISION pipeline error.
func IsCollision(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTokenCollision
}

// IsOracleFailure reports whether err is an exhausted oracle retry budget.
// Fatal: the self-repair loop aborts on it instead of looping.
func IsOracleFailure(err error) bool {
	var f *oracle.Failure
	return errors.As(err, &f)
}

// IsCheckerUnavailable reports whether err means the syntax checker tool
// cannot run at all.
func IsCheckerUnavailable(err error) bool {
	var u *checker.Unavailable
	return errors.As(err, &u)
}

// IsUnsupportedLanguage reports whether err is a missing validator
// registration.
func IsUnsupportedLanguage(err error) bool {
	var u *validate.UnsupportedLanguageError
	return errors.As(err, &u)
}
