package compiler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/snc-project/snc/internal/ir"
	"github.com/snc-project/snc/internal/parser"
	"github.com/snc-project/snc/internal/store"
)

// Updater owns the document lifecycle: ingesting new narrative documents
// and reconciling edits into minimal recompilation.
type Updater struct {
	store *store.Store
	orch  *Orchestrator
}

// NewUpdater wires an updater over a store and an orchestrator.
func NewUpdater(st *store.Store, orch *Orchestrator) *Updater {
	return &Updater{store: st, orch: orch}
}

// UpdateSummary reports what one reconciliation did.
type UpdateSummary struct {
	DocumentID string   `json:"document_id"`
	Removed    int      `json:"removed"`
	Changed    int      `json:"changed"`
	Added      int      `json:"added"`
	Unchanged  int      `json:"unchanged"`
	Recompiled []string `json:"recompiled,omitempty"` // token ids
}

// CreateDocument ingests narrative text: tokenize, persist, compile every
// token. Returns the document and its artifacts in document order.
func (u *Updater) CreateDocument(ctx context.Context, content string) (ir.Document, []ir.Artifact, error) {
	doc := ir.Document{
		ID:      uuid.Must(uuid.NewV7()).String(),
		Content: content,
		Version: "v1",
	}
	if err := u.store.CreateDocument(ctx, doc); err != nil {
		return ir.Document{}, nil, err
	}

	tokens := parser.Tokenize(content)
	for i := range tokens {
		tokens[i].ID = uuid.Must(uuid.NewV7()).String()
		tokens[i].DocumentID = doc.ID
		if err := u.store.InsertToken(ctx, tokens[i]); err != nil {
			return ir.Document{}, nil, err
		}
	}
	slog.Info("document created", "document", doc.ID, "tokens", len(tokens))

	artifacts, err := u.orch.CompileDocument(ctx, doc.ID)
	if err != nil {
		return ir.Document{}, nil, err
	}
	return doc, artifacts, nil
}

// UpdateDocument replaces a document's text and recompiles only what
// changed. Token deletes, content rewrites and inserts commit in one
// transaction; recompiles run after, per token, so one token's failure
// leaves every already-reconciled sibling intact.
func (u *Updater) UpdateDocument(ctx context.Context, documentID, newContent string) (UpdateSummary, error) {
	doc, err := u.store.GetDocument(ctx, documentID)
	if err != nil {
		return UpdateSummary{}, err
	}
	if doc == nil {
		return UpdateSummary{}, NewNotFound("document", documentID)
	}

	old, err := u.store.TokensByDocument(ctx, documentID)
	if err != nil {
		return UpdateSummary{}, err
	}

	diff, err := Diff(old, parser.Tokenize(newContent))
	if err != nil {
		return UpdateSummary{}, err
	}
	slog.Info("document diff",
		"document", documentID,
		"removed", len(diff.Removed),
		"changed", len(diff.Changed),
		"added", len(diff.Added),
		"unchanged", len(diff.Unchanged),
	)

	mut := store.ReconcileMutation{}
	for _, tok := range diff.Removed {
		mut.RemovedTokenIDs = append(mut.RemovedTokenIDs, tok.ID)
	}
	for _, ch := range diff.Changed {
		mut.Changed = append(mut.Changed, store.ChangedToken{
			TokenID: ch.Old.ID,
			Content: ch.NewContent,
			Hash:    ch.NewHash,
		})
	}

	// New tokens take order indexes after every existing one.
	nextOrder, err := u.store.MaxOrderIndex(ctx, documentID)
	if err != nil {
		return UpdateSummary{}, err
	}
	nextOrder++
	for _, tok := range diff.Added {
		tok.ID = uuid.Must(uuid.NewV7()).String()
		tok.DocumentID = documentID
		tok.OrderIndex = nextOrder
		nextOrder++
		mut.Added = append(mut.Added, tok)
	}

	if err := u.store.ApplyReconcile(ctx, documentID, newContent, mut); err != nil {
		return UpdateSummary{}, err
	}

	summary := UpdateSummary{
		DocumentID: documentID,
		Removed:    len(diff.Removed),
		Changed:    len(diff.Changed),
		Added:      len(diff.Added),
		Unchanged:  len(diff.Unchanged),
	}

	// Recompile exactly the marked set. Failures are collected rather
	// than aborting the whole batch: a sibling's state never depends on
	// another token compiling.
	var errs []error
	for _, ch := range diff.Changed {
		if _, err := u.orch.CompileToken(ctx, ch.Old.ID); err != nil {
			slog.Error("recompile failed", "token", ch.Old.ID, "error", err)
			errs = append(errs, err)
			continue
		}
		summary.Recompiled = append(summary.Recompiled, ch.Old.ID)
	}
	for _, tok := range mut.Added {
		if _, err := u.orch.CompileToken(ctx, tok.ID); err != nil {
			slog.Error("compile failed", "token", tok.ID, "error", err)
			errs = append(errs, err)
			continue
		}
		summary.Recompiled = append(summary.Recompiled, tok.ID)
	}

	return summary, errors.Join(errs...)
}
