package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/99designs/keyring"

	"github.com/salmonumbrella/subtags/internal/api"
	"github.com/salmonumbrella/subtags/internal/secrets"
)

// fakeStore is an in-memory api.TagStore.
type fakeStore struct {
	tags      []string
	cardNotes map[int64]int64
	noteTags  map[int64][]string

	AllTagsFunc func(context.Context) ([]string, error)
	addCalls    [][]int64
}

func (f *fakeStore) Name() string { return "fake" }

func (f *fakeStore) AllTags(ctx context.Context) ([]string, error) {
	if f.AllTagsFunc != nil {
		return f.AllTagsFunc(ctx)
	}
	tags := append([]string(nil), f.tags...)
	sort.Strings(tags)
	return tags, nil
}

func (f *fakeStore) NotesForCards(_ context.Context, cardIDs []int64) ([]int64, error) {
	var notes []int64
	for _, card := range cardIDs {
		note, ok := f.cardNotes[card]
		if !ok {
			return nil, api.NotFoundError{Message: fmt.Sprintf("card not found: %d", card)}
		}
		notes = append(notes, note)
	}
	return notes, nil
}

func (f *fakeStore) AddTags(_ context.Context, noteIDs []int64, tags []string) (api.ApplyResult, error) {
	f.addCalls = append(f.addCalls, noteIDs)
	if f.noteTags == nil {
		f.noteTags = map[int64][]string{}
	}
	result := api.ApplyResult{Notes: len(noteIDs)}
	for _, id := range noteIDs {
		var added []string
		for _, tag := range tags {
			if !contains(f.noteTags[id], tag) {
				f.noteTags[id] = append(f.noteTags[id], tag)
				added = append(added, tag)
			}
		}
		if len(added) > 0 {
			result.Changes = append(result.Changes, api.NoteChange{NoteID: id, Added: added})
			result.TagsAdded += len(added)
		}
	}
	return result, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// fakeSecrets is an in-memory secrets.Store.
type fakeSecrets struct {
	tokens map[string]secrets.Token
}

func newFakeSecrets() *fakeSecrets {
	return &fakeSecrets{tokens: map[string]secrets.Token{}}
}

func (f *fakeSecrets) GetToken(profile string) (secrets.Token, error) {
	tok, ok := f.tokens[profile]
	if !ok {
		return secrets.Token{}, keyring.ErrKeyNotFound
	}
	return tok, nil
}

func (f *fakeSecrets) SetToken(profile string, tok secrets.Token) error {
	f.tokens[profile] = tok
	return nil
}

func (f *fakeSecrets) DeleteToken(profile string) error {
	delete(f.tokens, profile)
	return nil
}

func (f *fakeSecrets) Keys() ([]string, error) {
	keys := make([]string, 0, len(f.tokens))
	for k := range f.tokens {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

var (
	_ api.TagStore  = (*fakeStore)(nil)
	_ secrets.Store = (*fakeSecrets)(nil)
)
