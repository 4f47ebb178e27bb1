package api

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestApplyTags_Validation(t *testing.T) {
	store := writeCollection(t, sampleCollection)

	tests := []struct {
		name    string
		sel     Selection
		tags    []string
		message string
	}{
		{"nothing selected", Selection{}, []string{"A"}, "no cards selected"},
		{"no tags", Selection{Cards: []int64{101}}, nil, "no subtags provided"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyTags(context.Background(), store, tt.sel, tt.tags)
			var validation ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %T: %v", err, err)
			}
			if validation.Message != tt.message {
				t.Errorf("expected %q, got %q", tt.message, validation.Message)
			}
		})
	}
}

func TestApplyTags_CardsAndNotes(t *testing.T) {
	store := writeCollection(t, sampleCollection)

	// Cards 101 and 102 both belong to note 1, which is also selected directly.
	result, err := ApplyTags(context.Background(), store, Selection{
		Cards: []int64{101, 102, 201},
		Notes: []int64{1},
	}, []string{"Deck::01_Intro"})
	if err != nil {
		t.Fatalf("ApplyTags failed: %v", err)
	}

	if result.Notes != 2 {
		t.Errorf("expected 2 notes, got %d", result.Notes)
	}
	var ids []int64
	for _, change := range result.Changes {
		ids = append(ids, change.NoteID)
	}
	if !reflect.DeepEqual(ids, []int64{1, 2}) {
		t.Errorf("unexpected changed notes: %v", ids)
	}
}

func TestApplyTags_UnknownCard(t *testing.T) {
	store := writeCollection(t, sampleCollection)

	_, err := ApplyTags(context.Background(), store, Selection{Cards: []int64{5}}, []string{"A"})

	var notFound NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}
