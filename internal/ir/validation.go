package ir

import "fmt"

// Error codes attached to semantic validation errors. Syntax checker
// diagnostics carry the tool's own code (e.g. "TS2304") instead.
const (
	CodeMissingComponent = "MISSING_COMPONENT"
	CodeMissingMethod    = "MISSING_METHOD"
)

// ValidationError is one diagnostic from a syntax or semantic check.
// Errors are transient: they live only as long as the validation call
// that produced them and are never persisted.
type ValidationError struct {
	Source  string `json:"source"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s(%d,%d): %s", e.Source, e.Line, e.Column, e.Message)
}

// ValidationResult is the outcome of validating one artifact. A failed
// validation is a normal result with Success=false, not an error.
type ValidationResult struct {
	Success bool              `json:"success"`
	Errors  []ValidationError `json:"errors,omitempty"`
}
