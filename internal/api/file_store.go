package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/subtags/internal/fsutil"
)

// Note is one note in a collection file.
type Note struct {
	ID    int64    `yaml:"id" json:"id"`
	Tags  []string `yaml:"tags,omitempty" json:"tags,omitempty"`
	Cards []int64  `yaml:"cards,omitempty" json:"cards,omitempty"`
}

// Collection is the on-disk layout of a collection file:
//
//	notes:
//	  - id: 1700000000001
//	    tags: [Biology]
//	    cards: [1700000000101, 1700000000102]
type Collection struct {
	Notes []Note `yaml:"notes" json:"notes"`
}

// FileStore implements TagStore over a YAML collection file. The file is read
// on every call and rewritten whole when tags change.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the collection file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Name returns the backend name
func (s *FileStore) Name() string {
	return "file"
}

// Path returns the collection file path
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the collection. A missing file is an empty collection.
func (s *FileStore) Load() (*Collection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Collection{}, nil
		}
		return nil, fmt.Errorf("reading collection: %w", err)
	}

	var col Collection
	if err := yaml.Unmarshal(data, &col); err != nil {
		return nil, fmt.Errorf("parsing collection %s: %w", s.path, err)
	}
	return &col, nil
}

// Save overwrites the collection file.
func (s *FileStore) Save(ctx context.Context, col *Collection) error {
	data, err := yaml.Marshal(col)
	if err != nil {
		return fmt.Errorf("marshaling collection: %w", err)
	}
	if err := fsutil.WriteAtomic(ctx, s.path, data, 0o644, 0o755); err != nil {
		return fmt.Errorf("writing collection: %w", err)
	}
	return nil
}

// AllTags returns every tag used by any note, sorted
func (s *FileStore) AllTags(_ context.Context) ([]string, error) {
	col, err := s.Load()
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, note := range col.Notes {
		tags = append(tags, note.Tags...)
	}
	sort.Strings(tags)
	return slices.Compact(tags), nil
}

// NotesForCards maps card IDs to their notes
func (s *FileStore) NotesForCards(_ context.Context, cardIDs []int64) ([]int64, error) {
	if len(cardIDs) == 0 {
		return nil, nil
	}
	col, err := s.Load()
	if err != nil {
		return nil, err
	}

	owner := make(map[int64]int64)
	for _, note := range col.Notes {
		for _, card := range note.Cards {
			owner[card] = note.ID
		}
	}

	notes := make([]int64, 0, len(cardIDs))
	for _, card := range cardIDs {
		id, ok := owner[card]
		if !ok {
			return nil, NotFoundError{Message: fmt.Sprintf("card not found: %d", card)}
		}
		notes = append(notes, id)
	}
	return uniqueIDs(notes), nil
}

// AddTags attaches tags to notes and saves the collection if anything changed
func (s *FileStore) AddTags(ctx context.Context, noteIDs []int64, tags []string) (ApplyResult, error) {
	noteIDs = uniqueIDs(noteIDs)
	result := ApplyResult{Notes: len(noteIDs)}
	if len(noteIDs) == 0 || len(tags) == 0 {
		return result, nil
	}

	col, err := s.Load()
	if err != nil {
		return ApplyResult{}, err
	}

	index := make(map[int64]int, len(col.Notes))
	for i, note := range col.Notes {
		index[note.ID] = i
	}

	for _, id := range noteIDs {
		i, ok := index[id]
		if !ok {
			return ApplyResult{}, NotFoundError{Message: fmt.Sprintf("note not found: %d", id)}
		}
		added := missingTags(col.Notes[i].Tags, tags)
		if len(added) == 0 {
			continue
		}
		col.Notes[i].Tags = append(col.Notes[i].Tags, added...)
		result.Changes = append(result.Changes, NoteChange{NoteID: id, Added: added})
		result.TagsAdded += len(added)
	}

	if result.TagsAdded == 0 {
		return result, nil
	}
	if err := s.Save(ctx, col); err != nil {
		return ApplyResult{}, err
	}
	return result, nil
}

// Ensure FileStore implements TagStore at compile time
var _ TagStore = (*FileStore)(nil)
