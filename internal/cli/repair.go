package cli

import (
	"github.com/spf13/cobra"

	"github.com/snc-project/snc/internal/compiler"
)

// repairResult is the payload reported after a repair attempt.
type repairResult struct {
	ArtifactID string `json:"artifact_id"`
	Valid      bool   `json:"valid"`
	Attempts   int    `json:"attempts"`
}

// NewRepairCommand creates the repair command.
func NewRepairCommand(rootOpts *RootOptions) *cobra.Command {
	var attempts int

	cmd := &cobra.Command{
		Use:   "repair <artifact-id>",
		Short: "Run the bounded self-repair loop over an artifact",
		Long: `Alternates validation and oracle fixes until the artifact validates
or the attempt budget runs out. The artifact keeps its identity; only
its code is rewritten in place.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(rootOpts, args[0], attempts, cmd)
		},
	}
	cmd.Flags().IntVar(&attempts, "attempts", 0,
		"maximum validate/fix cycles before giving up (default from config)")
	return cmd
}

func runRepair(opts *RootOptions, artifactID string, attempts int, cmd *cobra.Command) error {
	app, err := openApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	if attempts <= 0 {
		attempts = app.cfg.Compile.RepairAttempts
	}

	f := formatter(opts, cmd)
	valid, err := app.repairer.Repair(cmd.Context(), artifactID, attempts)
	if err != nil {
		code := ExitFailure
		if compiler.IsNotFound(err) || compiler.IsUnsupportedLanguage(err) {
			code = ExitCommandError
		}
		return WrapExitError(code, "repairing artifact", err)
	}

	payload := repairResult{ArtifactID: artifactID, Valid: valid, Attempts: attempts}
	if opts.Format == "json" {
		if err := f.JSON(payload); err != nil {
			return err
		}
	} else if valid {
		f.Textf("artifact %s: valid\n", artifactID)
	} else {
		f.Textf("artifact %s: still invalid after %d attempts\n", artifactID, attempts)
	}

	if !valid {
		return WrapExitError(ExitFailure, "artifact still invalid", nil)
	}
	return nil
}
