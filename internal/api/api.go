package api

import "context"

// TagStore is the host collection as seen by subtags.
// Both the AnkiConnect client (Client) and the collection file (FileStore)
// implement it, so commands work with either backend.
type TagStore interface {
	// AllTags returns every tag in the collection, sorted and without duplicates.
	AllTags(ctx context.Context) ([]string, error)

	// NotesForCards maps card IDs to the IDs of the notes that own them.
	// The result has no duplicates and follows the order of first appearance.
	NotesForCards(ctx context.Context, cardIDs []int64) ([]int64, error)

	// AddTags attaches every tag to every note. Tags a note already carries
	// are left alone.
	AddTags(ctx context.Context, noteIDs []int64, tags []string) (ApplyResult, error)

	// Name identifies the backend for messages and logs.
	Name() string
}

// NoteChange lists the tags newly attached to one note.
type NoteChange struct {
	NoteID int64    `json:"note_id" yaml:"note_id"`
	Added  []string `json:"added" yaml:"added"`
}

// ApplyResult summarizes an AddTags call.
type ApplyResult struct {
	Notes     int          `json:"notes" yaml:"notes"`
	TagsAdded int          `json:"tags_added" yaml:"tags_added"`
	Changes   []NoteChange `json:"changes,omitempty" yaml:"changes,omitempty"`
}

// missingTags returns the tags in want that are not in have, keeping want's order.
func missingTags(have, want []string) []string {
	present := make(map[string]struct{}, len(have))
	for _, tag := range have {
		present[tag] = struct{}{}
	}
	var missing []string
	for _, tag := range want {
		if _, ok := present[tag]; ok {
			continue
		}
		present[tag] = struct{}{}
		missing = append(missing, tag)
	}
	return missing
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
