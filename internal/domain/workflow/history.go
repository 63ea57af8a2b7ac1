package workflow

import "time"

// Entry is one immutable record in a document's audit trail. Entries are
// appended in causal order and never edited or removed. Timestamps are
// assigned by the engine at append time, so insertion order equals
// chronological order.
type Entry struct {
	Action     Action    `json:"action"`
	ActorID    string    `json:"actor_id"`
	ActorName  string    `json:"actor_name"`
	Timestamp  time.Time `json:"timestamp"`
	Notes      string    `json:"notes,omitempty"`
	FromStatus Status    `json:"from_status,omitempty"`
	ToStatus   Status    `json:"to_status,omitempty"`
}

// Noter is implemented by action payloads that carry free-text notes to be
// recorded on the ledger entry.
type Noter interface {
	HistoryNotes() string
}
