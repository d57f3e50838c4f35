package cli

import (
	"github.com/spf13/cobra"
)

// tokenReport is one row of the tokens listing.
type tokenReport struct {
	TokenID    string `json:"token_id"`
	Type       string `json:"type"`
	Name       string `json:"name"`
	OrderIndex int    `json:"order_index"`
	Hash       string `json:"hash"`
	ArtifactID string `json:"artifact_id,omitempty"`
	CacheHit   bool   `json:"cache_hit,omitempty"`
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens <document-id>",
		Short: "List a document's tokens in document order",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runTokens(opts *RootOptions, documentID string, cmd *cobra.Command) error {
	app, err := openApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	f := formatter(opts, cmd)
	doc, err := app.store.GetDocument(cmd.Context(), documentID)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading document", err)
	}
	if doc == nil {
		return WrapExitError(ExitCommandError, "document not found: "+documentID, nil)
	}

	tokens, err := app.store.TokensByDocument(cmd.Context(), documentID)
	if err != nil {
		return WrapExitError(ExitCommandError, "listing tokens", err)
	}

	reports := make([]tokenReport, 0, len(tokens))
	for _, tok := range tokens {
		report := tokenReport{
			TokenID:    tok.ID,
			Type:       string(tok.Type),
			Name:       tok.Name,
			OrderIndex: tok.OrderIndex,
			Hash:       tok.Hash,
		}
		artifact, err := app.store.ArtifactByToken(cmd.Context(), tok.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "loading artifact", err)
		}
		if artifact != nil {
			report.ArtifactID = artifact.ID
			report.CacheHit = artifact.CacheHit
		}
		reports = append(reports, report)
	}

	if opts.Format == "json" {
		return f.JSON(reports)
	}
	f.Textf("document %s: %d tokens\n", documentID, len(reports))
	for _, r := range reports {
		f.Textf("  [%d] %s %s hash=%s artifact=%s\n",
			r.OrderIndex, r.Type, r.Name, r.Hash[:12], r.ArtifactID)
	}
	return nil
}
