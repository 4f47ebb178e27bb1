// Package tagpath turns indented plain-text outlines into enumerated
// hierarchical tag paths such as "01_Topic::02_Sub".
package tagpath

import (
	"fmt"
	"strings"
)

const (
	// Separator joins the segments of a hierarchical tag.
	Separator = "::"

	// indentWidth is the number of columns that make up one indentation level.
	// A tab counts as a full level.
	indentWidth = 4
)

// Entry describes how a single non-blank input line was enumerated.
type Entry struct {
	Line    int    `json:"line"`
	Level   int    `json:"level"`
	Segment string `json:"segment"`
	Path    string `json:"path"`
	Leaf    bool   `json:"leaf"`
}

// ParseIndentation returns the indentation level of line and its content with
// the leading indentation removed and surrounding whitespace trimmed.
// Spaces weigh one column and tabs weigh four; the level is columns / 4.
func ParseIndentation(line string) (int, string) {
	columns := 0
	cut := 0
	for cut < len(line) {
		switch line[cut] {
		case ' ':
			columns++
		case '\t':
			columns += indentWidth
		default:
			return columns / indentWidth, strings.TrimSpace(line[cut:])
		}
		cut++
	}
	return columns / indentWidth, ""
}

// levelState holds the per-level sibling counters and current segment names
// for one enumeration run.
type levelState struct {
	counters []int
	names    []string
}

func (s *levelState) ensure(level int) {
	for len(s.counters) <= level {
		s.counters = append(s.counters, 0)
		s.names = append(s.names, "")
	}
}

// resetBelow clears every level deeper than level.
func (s *levelState) resetBelow(level int) {
	for i := level + 1; i < len(s.counters); i++ {
		s.counters[i] = 0
		s.names[i] = ""
	}
}

func (s *levelState) path(level int) string {
	segments := make([]string, 0, level+1)
	for i := 0; i <= level; i++ {
		if s.names[i] != "" {
			segments = append(segments, s.names[i])
		}
	}
	return strings.Join(segments, Separator)
}

// Trace enumerates lines and reports one Entry per non-blank line, in input
// order and without de-duplication.
func Trace(lines []string) []Entry {
	var (
		state   levelState
		entries []Entry
	)
	for i, line := range lines {
		level, content := ParseIndentation(line)
		if content == "" {
			continue
		}
		state.ensure(level)
		state.resetBelow(level)
		state.counters[level]++

		segment := formatSegment(state.counters[level], content)
		state.names[level] = segment

		entries = append(entries, Entry{
			Line:    i + 1,
			Level:   level,
			Segment: segment,
			Path:    state.path(level),
		})
	}

	for i := range entries {
		entries[i].Leaf = i == len(entries)-1 || entries[i+1].Level <= entries[i].Level
	}
	return entries
}

// EnumeratePaths converts lines into enumerated tag paths. Every non-blank line
// yields the path from the top level down to itself; exact duplicates are
// dropped, keeping the first occurrence.
func EnumeratePaths(lines []string) []string {
	entries := Trace(lines)
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.Path)
	}
	return dedupe(paths)
}

// EnumerateLeaves is like EnumeratePaths but only keeps lines that are not
// immediately followed by a deeper line.
func EnumerateLeaves(lines []string) []string {
	entries := Trace(lines)
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Leaf {
			paths = append(paths, entry.Path)
		}
	}
	return dedupe(paths)
}

func formatSegment(counter int, content string) string {
	return fmt.Sprintf("%02d_%s", counter, strings.ReplaceAll(content, " ", "_"))
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
