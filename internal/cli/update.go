package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/snc-project/snc/internal/compiler"
)

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <document-id> <narrative-file>",
		Short: "Replace a document's narrative and recompile what changed",
		Long: `Diffs the new narrative against the stored tokens by stable key,
applies removals, rewrites and inserts in a single transaction, then
recompiles only the changed and added tokens. Unchanged tokens keep
their artifacts untouched.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runUpdate(opts *RootOptions, documentID, path string, cmd *cobra.Command) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading narrative file", err)
	}

	app, err := openApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	f := formatter(opts, cmd)
	summary, err := app.updater.UpdateDocument(cmd.Context(), documentID, string(content))
	if err != nil {
		if compiler.IsNotFound(err) {
			return WrapExitError(ExitCommandError, "updating document", err)
		}
		// The reconcile committed; some recompiles failed. Report the
		// partial summary alongside the failure exit.
		if opts.Format == "json" {
			f.JSON(summary)
		} else {
			printSummary(f, summary)
		}
		return WrapExitError(ExitFailure, "recompiling changed tokens", err)
	}

	if opts.Format == "json" {
		return f.JSON(summary)
	}
	printSummary(f, summary)
	return nil
}

func printSummary(f *OutputFormatter, s compiler.UpdateSummary) {
	f.Textf("document %s: removed=%d changed=%d added=%d unchanged=%d recompiled=%d\n",
		s.DocumentID, s.Removed, s.Changed, s.Added, s.Unchanged, len(s.Recompiled))
}
