package tagpath

import "strings"

// Options controls how an Enumerator turns an outline into final tags.
type Options struct {
	// Parent is prepended to every produced path when non-empty.
	Parent string
	// LeavesOnly drops paths of lines that have deeper children.
	LeavesOnly bool
}

// Enumerator applies Options on top of the path enumeration.
type Enumerator struct {
	opts Options
}

// New returns an Enumerator configured with opts.
func New(opts Options) *Enumerator {
	return &Enumerator{opts: opts}
}

// Parent returns the normalized parent tag, or "" when none is configured.
func (e *Enumerator) Parent() string {
	return NormalizeTag(e.opts.Parent)
}

// Enumerate returns the final tag strings for lines.
func (e *Enumerator) Enumerate(lines []string) []string {
	var paths []string
	if e.opts.LeavesOnly {
		paths = EnumerateLeaves(lines)
	} else {
		paths = EnumeratePaths(lines)
	}
	return WithParent(e.opts.Parent, paths)
}

// EnumerateText splits text into lines and enumerates them.
func (e *Enumerator) EnumerateText(text string) []string {
	return e.Enumerate(SplitLines(text))
}

// TraceText is Trace over text with the enumerator's parent prefixed to every
// path. With LeavesOnly set, entries that have deeper children are dropped.
func (e *Enumerator) TraceText(text string) []Entry {
	parent := e.Parent()
	entries := Trace(SplitLines(text))
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if e.opts.LeavesOnly && !entry.Leaf {
			continue
		}
		if parent != "" {
			entry.Path = parent + Separator + entry.Path
		}
		out = append(out, entry)
	}
	return out
}

// NormalizeTag trims s and replaces spaces with underscores, since tags
// cannot contain spaces.
func NormalizeTag(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
}

// WithParent prefixes each path with "parent::". The parent is normalized
// first; an empty parent returns a copy of paths unchanged.
func WithParent(parent string, paths []string) []string {
	parent = NormalizeTag(parent)
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if parent == "" {
			out = append(out, p)
			continue
		}
		out = append(out, parent+Separator+p)
	}
	return out
}

// SplitLines splits text on line breaks, accepting \n, \r\n and a lone \r.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
