package api

// Error types for store failures.
type (
	// AuthenticationError indicates a missing or rejected API key.
	AuthenticationError struct{ Message string }
	// NotFoundError indicates an unknown note or card.
	NotFoundError struct{ Message string }
	// ValidationError indicates invalid input.
	ValidationError struct{ Message string }
	// ConnectError indicates the Anki desktop app (with AnkiConnect) is not reachable.
	ConnectError struct{ Message string }
	// StoreError is an error reported by the backend itself.
	StoreError struct{ Message string }
)

func (e AuthenticationError) Error() string { return e.Message }
func (e NotFoundError) Error() string       { return e.Message }
func (e ValidationError) Error() string     { return e.Message }
func (e ConnectError) Error() string        { return e.Message }
func (e StoreError) Error() string          { return e.Message }
