package compiler

import (
	"fmt"

	"github.com/snc-project/snc/internal/ir"
)

// DiffResult classifies a freshly tokenized revision against the stored
// token set.
type DiffResult struct {
	// Removed tokens exist in the old set only. Token and artifact go.
	Removed []ir.Token

	// Changed pairs a surviving token with its new text. The token keeps
	// its identity; only content, hash and artifact change.
	Changed []ChangedPair

	// Added tokens exist in the new revision only. They carry no IDs yet.
	Added []ir.Token

	// Unchanged tokens match on key and hash. Token and artifact are
	// retained byte for byte.
	Unchanged []ir.Token
}

// ChangedPair is one surviving token with its replacement content.
type ChangedPair struct {
	Old        ir.Token
	NewContent string
	NewHash    string
}

// Diff reconciles stored tokens against a freshly tokenized revision by
// stable key. Duplicate keys on either side are a TOKEN_COLLISION error:
// stable keys are unique within one revision by construction, and a
// collision means addressing is ambiguous.
func Diff(old []ir.Token, fresh []ir.Token) (DiffResult, error) {
	oldByKey := make(map[ir.StableKey]ir.Token, len(old))
	for _, tok := range old {
		key := tok.Key()
		if _, dup := oldByKey[key]; dup {
			return DiffResult{}, NewCollision(fmt.Sprintf("%s/%s", key.Category, key.Name))
		}
		oldByKey[key] = tok
	}

	newByKey := make(map[ir.StableKey]ir.Token, len(fresh))
	var result DiffResult
	for _, tok := range fresh {
		key := tok.Key()
		if _, dup := newByKey[key]; dup {
			return DiffResult{}, NewCollision(fmt.Sprintf("%s/%s", key.Category, key.Name))
		}
		newByKey[key] = tok

		prev, exists := oldByKey[key]
		switch {
		case !exists:
			result.Added = append(result.Added, tok)
		case prev.Hash != tok.Hash:
			result.Changed = append(result.Changed, ChangedPair{
				Old:        prev,
				NewContent: tok.Content,
				NewHash:    tok.Hash,
			})
		default:
			result.Unchanged = append(result.Unchanged, prev)
		}
	}

	for _, tok := range old {
		if _, still := newByKey[tok.Key()]; !still {
			result.Removed = append(result.Removed, tok)
		}
	}

	return result, nil
}
