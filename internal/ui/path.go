package ui

import (
	"strings"

	"github.com/salmonumbrella/subtags/internal/tagpath"
)

// RenderPath styles an enumerated tag path, dimming the separators and
// highlighting each segment's counter prefix.
func (s *Styles) RenderPath(path string) string {
	segments := strings.Split(path, tagpath.Separator)
	rendered := make([]string, 0, len(segments))
	for _, segment := range segments {
		rendered = append(rendered, s.renderSegment(segment))
	}
	return strings.Join(rendered, s.Separator.Render(tagpath.Separator))
}

func (s *Styles) renderSegment(segment string) string {
	counter, name, ok := strings.Cut(segment, "_")
	if !ok || counter == "" || strings.Trim(counter, "0123456789") != "" {
		return s.Tag.Render(segment)
	}
	return s.Counter.Render(counter+"_") + s.Tag.Render(name)
}
