package cli

import (
	"github.com/spf13/cobra"

	"github.com/snc-project/snc/internal/ir"
)

// validateResult is the payload reported after validating an artifact.
type validateResult struct {
	ArtifactID string               `json:"artifact_id"`
	Valid      bool                 `json:"valid"`
	Errors     []ir.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <artifact-id>",
		Short: "Run the language validator over an artifact",
		Long: `Runs the registered validator for the artifact's language: syntax
checks first, then narrative expectations against the owning document.
The artifact's validity flag is updated with the outcome either way.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, artifactID string, cmd *cobra.Command) error {
	app, err := openApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	f := formatter(opts, cmd)
	artifact, err := app.store.GetArtifact(cmd.Context(), artifactID)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading artifact", err)
	}
	if artifact == nil {
		return WrapExitError(ExitCommandError, "artifact not found: "+artifactID, nil)
	}

	validator, err := app.registry.For(artifact.Language)
	if err != nil {
		return WrapExitError(ExitCommandError, "resolving validator", err)
	}

	result, err := validator.Validate(cmd.Context(), artifactID)
	if err != nil {
		return WrapExitError(ExitCommandError, "running validator", err)
	}

	payload := validateResult{
		ArtifactID: artifactID,
		Valid:      result.Success,
		Errors:     result.Errors,
	}
	if opts.Format == "json" {
		if err := f.JSON(payload); err != nil {
			return err
		}
	} else if result.Success {
		f.Textf("artifact %s: valid\n", artifactID)
	} else {
		f.Textf("artifact %s: invalid (%d errors)\n", artifactID, len(result.Errors))
		for _, e := range result.Errors {
			f.Textf("  %s\n", e.String())
		}
	}

	if !result.Success {
		return WrapExitError(ExitFailure, "artifact failed validation", nil)
	}
	return nil
}
