package workflow

import "errors"

var (
	// ErrNotFound is returned when a document id cannot be resolved.
	ErrNotFound = errors.New("document not found")

	// ErrForbidden is returned when the actor's roles (or ownership) do not
	// permit the requested action. The document is left unchanged.
	ErrForbidden = errors.New("actor not authorized for action")

	// ErrInvalidAction is returned when the transition table has no entry
	// for the (current status, action) pair. Indicates a stale client or an
	// attempt to skip stages.
	ErrInvalidAction = errors.New("action not valid for current status")

	// ErrInvalidPayload is returned when action-specific payload validation
	// fails, e.g. a wrong inquiry count or missing rejection notes.
	ErrInvalidPayload = errors.New("invalid action payload")

	// ErrConflict is returned when a concurrent write to the same document
	// is detected. Callers should reload and re-validate before retrying;
	// the engine never retries automatically.
	ErrConflict = errors.New("document was modified concurrently")
)
