package api

import (
	"context"
	"fmt"
)

// Selection is the set of cards and notes chosen for tagging.
type Selection struct {
	Cards []int64
	Notes []int64
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s.Cards) == 0 && len(s.Notes) == 0
}

// ApplyTags resolves the selection to notes and attaches tags to each of them.
func ApplyTags(ctx context.Context, store TagStore, sel Selection, tags []string) (ApplyResult, error) {
	if sel.Empty() {
		return ApplyResult{}, ValidationError{Message: "no cards selected"}
	}
	if len(tags) == 0 {
		return ApplyResult{}, ValidationError{Message: "no subtags provided"}
	}

	notes := append([]int64(nil), sel.Notes...)
	if len(sel.Cards) > 0 {
		fromCards, err := store.NotesForCards(ctx, sel.Cards)
		if err != nil {
			return ApplyResult{}, fmt.Errorf("resolving cards: %w", err)
		}
		notes = append(notes, fromCards...)
	}

	result, err := store.AddTags(ctx, uniqueIDs(notes), tags)
	if err != nil {
		return ApplyResult{}, fmt.Errorf("adding tags: %w", err)
	}
	return result, nil
}
