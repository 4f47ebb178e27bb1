// Package settings persists small pieces of UI state between runs: which tag
// tree nodes are expanded and whether the outline format explanation is shown.
//
// File format (JSON):
//
//	{
//	  "expansions": {"Biology": true, "Biology::Cells": false},
//	  "explanationVisible": true
//	}
//
// Missing or unreadable files fall back to defaults.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/salmonumbrella/subtags/internal/fsutil"
	"github.com/salmonumbrella/subtags/internal/logging"
)

// FileName is the settings file name inside the config directory.
const FileName = "settings.json"

// Settings is the persisted UI state.
type Settings struct {
	Expansions         map[string]bool
	ExplanationVisible bool
}

type fileFormat struct {
	Expansions         map[string]bool `json:"expansions"`
	ExplanationVisible *bool           `json:"explanationVisible,omitempty"`
}

// Default returns settings with nothing expanded and the explanation visible.
func Default() *Settings {
	return &Settings{
		Expansions:         map[string]bool{},
		ExplanationVisible: true,
	}
}

// DefaultPath returns ~/.config/subtags/settings.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "subtags", FileName), nil
}

// Load reads settings from path. It never fails: a missing file yields
// defaults, and a broken one yields defaults plus a warning on logger.
func Load(path string, logger *log.Logger) *Settings {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) && logger != nil {
			logger.Warn("could not read settings, using defaults", logging.FieldPath, path, logging.FieldError, err)
		}
		return s
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		if logger != nil {
			logger.Warn("invalid settings file, using defaults", logging.FieldPath, path, logging.FieldError, err)
		}
		return s
	}

	for tag, expanded := range f.Expansions {
		s.Expansions[tag] = expanded
	}
	if f.ExplanationVisible != nil {
		s.ExplanationVisible = *f.ExplanationVisible
	}
	return s
}

// Save overwrites path with the current settings.
func (s *Settings) Save(ctx context.Context, path string) error {
	visible := s.ExplanationVisible
	expansions := s.Expansions
	if expansions == nil {
		expansions = map[string]bool{}
	}
	data, err := json.MarshalIndent(fileFormat{
		Expansions:         expansions,
		ExplanationVisible: &visible,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	data = append(data, '\n')

	if err := fsutil.WriteAtomic(ctx, path, data, 0o644, 0o755); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// IsExpanded reports whether tag was last left expanded. Unknown tags are collapsed.
func (s *Settings) IsExpanded(tag string) bool {
	return s.Expansions[tag]
}

// SetExpanded records the expansion state of tag.
func (s *Settings) SetExpanded(tag string, expanded bool) {
	if s.Expansions == nil {
		s.Expansions = map[string]bool{}
	}
	s.Expansions[tag] = expanded
}

// ExpandedTags returns the tags currently marked expanded, sorted.
func (s *Settings) ExpandedTags() []string {
	tags := make([]string, 0, len(s.Expansions))
	for tag, expanded := range s.Expansions {
		if expanded {
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// ToggleExplanation flips explanation visibility and returns the new value.
func (s *Settings) ToggleExplanation() bool {
	s.ExplanationVisible = !s.ExplanationVisible
	return s.ExplanationVisible
}
