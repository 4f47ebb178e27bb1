package logging

// Structured field names.
const (
	FieldError    = "error"
	FieldPath     = "path"
	FieldBackend  = "backend"
	FieldURL      = "url"
	FieldAction   = "action"
	FieldTag      = "tag"
	FieldTags     = "tags"
	FieldNotes    = "notes"
	FieldCards    = "cards"
	FieldLines    = "lines"
	FieldAdded    = "added"
	FieldExpanded = "expanded"
	FieldNodes    = "nodes"
)
