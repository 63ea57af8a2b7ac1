package workflow

import "time"

// Document is the abstract workflow instance the engine operates on. It is
// realized by the concrete document types (goods request, project proposal,
// payment request); the engine only touches the shared surface.
type Document interface {
	// DocumentID returns the opaque unique identifier.
	DocumentID() string

	// DocumentNumber returns the human-readable sequence number, assigned
	// exactly once at creation.
	DocumentNumber() string

	// Owner returns the requester's id and display name.
	Owner() (id, name string)

	// CurrentStatus returns the document's position in its state machine.
	CurrentStatus() Status

	// SetStatus moves the document to a new status. Only the engine calls
	// this, and only for transitions defined in the table.
	SetStatus(Status)

	// DocumentVersion returns the optimistic-concurrency version of the
	// persisted document.
	DocumentVersion() int64

	// AppendEntry appends one record to the in-memory audit trail. The
	// store persists the same entry to the ledger atomically with the
	// document write.
	AppendEntry(Entry)

	// Entries returns the audit trail in insertion order.
	Entries() []Entry

	// Touch bumps the document's updated-at timestamp.
	Touch(now time.Time)
}
