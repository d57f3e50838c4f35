// Package oracle is the boundary to the external code-generation service.
// The compiler treats it as a black box: narrative text in, code out, plus
// a fix operation for the self-repair loop. Backends exist for OpenAI and
// Anthropic; tests use the scripted Mock.
package oracle

import (
	"context"
	"fmt"
	"strings"
)

// Oracle generates and repairs code. Both calls block on the remote
// service and honor context cancellation; transient failures are the
// caller's problem unless the oracle is wrapped in Retrying.
type Oracle interface {
	// GenerateCode compiles one narrative unit into code.
	GenerateCode(ctx context.Context, narrative string) (string, error)

	// FixCode rewrites code that failed validation, guided by an error
	// summary.
	FixCode(ctx context.Context, code, errorSummary string) (string, error)
}

// Failure reports an oracle call that kept failing after its retry budget.
// It is fatal: callers surface it instead of looping further.
type Failure struct {
	Op       string
	Attempts int
	Err      error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("oracle %s failed after %d attempts: %v", f.Op, f.Attempts, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

const generateSystemPrompt = `You are a code generator. Compile the ` +
	`narrative instruction you are given into a single self-contained ` +
	`source file. Output only code, no prose.`

const fixSystemPrompt = `You are a code fixer. You are given source code ` +
	`and a list of errors found in it. Return the corrected source file. ` +
	`Output only code, no prose.`

func fixUserPrompt(code, errorSummary string) string {
	return "The following code has errors:\n\n" + code +
		"\n\n" + errorSummary + "\n\nReturn the corrected code."
}

// stripFences removes a surrounding Markdown code fence, with or without a
// language tag. Models add them no matter how firmly told not to.
func stripFences(code string) string {
	trimmed := strings.TrimSpace(code)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
