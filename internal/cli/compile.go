package cli

import (
	"github.com/spf13/cobra"

	"github.com/snc-project/snc/internal/compiler"
)

// compileResult is the payload reported after compiling a document or token.
type compileResult struct {
	DocumentID string           `json:"document_id,omitempty"`
	Artifacts  []artifactReport `json:"artifacts"`
}

type artifactReport struct {
	ArtifactID string `json:"artifact_id"`
	TokenID    string `json:"token_id"`
	Language   string `json:"language"`
	Valid      bool   `json:"valid"`
	CacheHit   bool   `json:"cache_hit"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	var tokenID string

	cmd := &cobra.Command{
		Use:   "compile <document-id>",
		Short: "Compile a stored document's tokens into artifacts",
		Long: `Compiles every token of a document, reusing cached artifacts where
the content hash is already known. With --token, compiles that single
token instead.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tokenID != "" {
				return runCompileToken(rootOpts, tokenID, cmd)
			}
			if len(args) != 1 {
				return WrapExitError(ExitCommandError, "compile needs a document id or --token", nil)
			}
			return runCompileDocument(rootOpts, args[0], cmd)
		},
	}
	cmd.Flags().StringVar(&tokenID, "token", "", "compile a single token by id")
	return cmd
}

func runCompileDocument(opts *RootOptions, documentID string, cmd *cobra.Command) error {
	app, err := openApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	f := formatter(opts, cmd)
	artifacts, err := app.orch.CompileDocument(cmd.Context(), documentID)
	if err != nil {
		code := ExitFailure
		if compiler.IsNotFound(err) {
			code = ExitCommandError
		}
		return WrapExitError(code, "compiling document", err)
	}

	result := compileResult{DocumentID: documentID}
	for _, a := range artifacts {
		result.Artifacts = append(result.Artifacts, artifactReport{
			ArtifactID: a.ID,
			TokenID:    a.TokenID,
			Language:   a.Language,
			Valid:      a.Valid,
			CacheHit:   a.CacheHit,
		})
	}
	if opts.Format == "json" {
		return f.JSON(result)
	}
	f.Textf("document %s: %d artifacts\n", documentID, len(result.Artifacts))
	for _, a := range result.Artifacts {
		f.Textf("  %s token=%s cache_hit=%v\n", a.ArtifactID, a.TokenID, a.CacheHit)
	}
	return nil
}

func runCompileToken(opts *RootOptions, tokenID string, cmd *cobra.Command) error {
	app, err := openApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	f := formatter(opts, cmd)
	artifact, err := app.orch.CompileToken(cmd.Context(), tokenID)
	if err != nil {
		code := ExitFailure
		if compiler.IsNotFound(err) {
			code = ExitCommandError
		}
		return WrapExitError(code, "compiling token", err)
	}

	report := artifactReport{
		ArtifactID: artifact.ID,
		TokenID:    artifact.TokenID,
		Language:   artifact.Language,
		Valid:      artifact.Valid,
		CacheHit:   artifact.CacheHit,
	}
	if opts.Format == "json" {
		return f.JSON(report)
	}
	f.Textf("artifact %s token=%s cache_hit=%v\n", report.ArtifactID, report.TokenID, report.CacheHit)
	return nil
}
