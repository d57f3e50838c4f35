package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/snc-project/snc/internal/ir"
	"github.com/snc-project/snc/internal/oracle"
	"github.com/snc-project/snc/internal/store"
	"github.com/snc-project/snc/internal/validate"
)

// DefaultRepairAttempts bounds the validate/fix cycles per repair call.
const DefaultRepairAttempts = 3

// Repairer runs the bounded self-repair loop: validate, summarize the
// errors, ask the oracle for a fix, overwrite the code in place, repeat.
// The artifact is never deleted or recreated - only its code changes.
type Repairer struct {
	store      *store.Store
	validators *validate.Registry
	oracle     oracle.Oracle
}

// NewRepairer wires a repairer over its collaborators.
func NewRepairer(st *store.Store, reg *validate.Registry, o oracle.Oracle) *Repairer {
	return &Repairer{store: st, validators: reg, oracle: o}
}

// Repair attempts to make an artifact valid within maxAttempts validate/
// fix cycles, with one final validation after the loop. Returns whether
// the artifact ended up valid.
//
// A failed validation is expected and loops; an exhausted oracle aborts
// immediately, leaving the validity flag as last set.
func (r *Repairer) Repair(ctx context.Context, artifactID string, maxAttempts int) (bool, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultRepairAttempts
	}

	artifact, err := r.store.GetArtifact(ctx, artifactID)
	if err != nil {
		return false, err
	}
	if artifact == nil {
		return false, NewNotFound("artifact", artifactID)
	}

	validator, err := r.validators.For(artifact.Language)
	if err != nil {
		return false, err
	}

	code := artifact.Code
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := validator.Validate(ctx, artifactID)
		if err != nil {
			return false, err
		}
		if result.Success {
			slog.Info("repair: artifact valid", "artifact", artifactID, "attempt", attempt)
			return true, nil
		}

		slog.Info("repair: fixing",
			"artifact", artifactID, "attempt", attempt, "errors", len(result.Errors))
		fixed, err := r.oracle.FixCode(ctx, code, SummarizeErrors(artifact.Language, result.Errors))
		if err != nil {
			// Oracle exhaustion is fatal; the validity flag stays as the
			// last validation left it.
			return false, err
		}
		// Tentatively invalid until the next validation pass says otherwise.
		if err := r.store.UpdateArtifactCode(ctx, artifactID, fixed, false); err != nil {
			return false, err
		}
		code = fixed
	}

	result, err := validator.Validate(ctx, artifactID)
	if err != nil {
		return false, err
	}
	if !result.Success {
		slog.Warn("repair: giving up", "artifact", artifactID, "attempts", maxAttempts)
	}
	return result.Success, nil
}

// SummarizeErrors formats validation errors for the fix prompt.
func SummarizeErrors(language string, errs []ir.ValidationError) string {
	lines := []string{fmt.Sprintf("Found the following %s errors:", language)}
	for _, e := range errs {
		lines = append(lines, e.String())
	}
	return strings.Join(lines, "\n")
}
