package workflow

// Status is a position in a document type's approval lifecycle.
type Status string

// StatusDraft is the initial status of every document type. Payload edits
// are only permitted while a document is in draft.
const StatusDraft Status = "draft"

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Action is a named operation an actor attempts on a document, e.g.
// "submit" or "add_inquiries". The transition table decides whether the
// action is permitted in the document's current status.
type Action string

// String returns the string representation of the action.
func (a Action) String() string {
	return string(a)
}
