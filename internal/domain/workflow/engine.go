package workflow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Store is the persistence collaborator. Save must write the document and
// its new ledger entries as one atomic unit, rejecting the write with
// ErrConflict when the persisted version no longer matches the loaded one.
type Store interface {
	Load(ctx context.Context, id string) (Document, error)
	Save(ctx context.Context, doc Document, entries []Entry) error
}

// Notification is one message delivered to one user about one document.
type Notification struct {
	UserID         string
	DocumentID     string
	DocumentNumber string
	Message        string
}

// Notifier is the dispatch collaborator. Delivery is fire-and-forget and
// at-least-once: the engine logs failures and never surfaces them.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// Recipient is a resolved notification target.
type Recipient struct {
	ID   string
	Name string
}

// Directory resolves role fan-out targets to concrete users.
type Directory interface {
	FindByRole(ctx context.Context, role Role) ([]Recipient, error)
}

// Engine applies actions to workflow documents: it validates the actor's
// role against the transition table, validates and applies the action
// payload, transitions status, appends the ledger entry, persists the
// result atomically and then dispatches notifications. One engine instance
// serves one document type; the per-type rules arrive as a Table.
type Engine struct {
	table     *Table
	store     Store
	notifier  Notifier
	directory Directory
	logger    *zap.Logger
	now       func() time.Time
}

// NewEngine creates an engine for one document type.
func NewEngine(table *Table, store Store, notifier Notifier, directory Directory, logger *zap.Logger) *Engine {
	return &Engine{
		table:     table,
		store:     store,
		notifier:  notifier,
		directory: directory,
		logger:    logger,
		now:       time.Now,
	}
}

// Table returns the transition table the engine enforces.
func (e *Engine) Table() *Table {
	return e.table
}

// Get loads a document and its audit trail.
func (e *Engine) Get(ctx context.Context, id string) (Document, error) {
	return e.store.Load(ctx, id)
}

// ApplyAction executes one action against one document as a single logical
// unit. On any validation failure the persisted document is untouched and
// no notification is sent. Notifications are a side effect of successful
// persistence only.
func (e *Engine) ApplyAction(ctx context.Context, id string, action Action, actor Actor, payload any) (Document, error) {
	doc, err := e.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	rule, ok := e.table.Lookup(doc.CurrentStatus(), action)
	if !ok {
		return nil, fmt.Errorf("%w: %s in status %s", ErrInvalidAction, action, doc.CurrentStatus())
	}

	if err := e.authorize(doc, rule, actor); err != nil {
		return nil, err
	}

	if rule.Validate != nil {
		if err := rule.Validate(doc, payload); err != nil {
			return nil, err
		}
	}

	if rule.Apply != nil {
		if err := rule.Apply(doc, payload); err != nil {
			return nil, err
		}
	}

	now := e.now().UTC()
	from := doc.CurrentStatus()
	if rule.Next != "" && rule.Next != from {
		doc.SetStatus(rule.Next)
	}

	var entries []Entry
	if rule.Record != "" {
		entry := Entry{
			Action:    rule.Record,
			ActorID:   actor.ID,
			ActorName: actor.DisplayName,
			Timestamp: now,
		}
		if n, ok := payload.(Noter); ok {
			entry.Notes = n.HistoryNotes()
		}
		if doc.CurrentStatus() != from {
			entry.FromStatus = from
			entry.ToStatus = doc.CurrentStatus()
		}
		doc.AppendEntry(entry)
		entries = append(entries, entry)
	}

	pending := rule.Notify

	// Condition-triggered transitions are evaluated against the full
	// current document state, not incrementally, and only after the
	// actions that can satisfy them.
	for _, auto := range e.table.AutoRules(doc.CurrentStatus()) {
		if auto.Triggers(action) && auto.When(doc) {
			doc.SetStatus(auto.To)
			pending = append(pending, auto.Notify...)
			break
		}
	}

	doc.Touch(now)

	if err := e.store.Save(ctx, doc, entries); err != nil {
		return nil, err
	}

	e.dispatch(ctx, doc, pending)
	return doc, nil
}

func (e *Engine) authorize(doc Document, rule Rule, actor Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if rule.OwnerOnly {
		ownerID, _ := doc.Owner()
		if actor.ID != ownerID {
			return fmt.Errorf("%w: owner-only action", ErrForbidden)
		}
	}
	if len(rule.Roles) > 0 && !actor.Authorized(rule.Roles) {
		return fmt.Errorf("%w: requires one of %v", ErrForbidden, rule.Roles)
	}
	return nil
}

// dispatch resolves targets and sends one notification per resolved user.
// The transition has already committed, so delivery failures are logged
// and swallowed.
func (e *Engine) dispatch(ctx context.Context, doc Document, targets []Target) {
	for _, t := range targets {
		message := ""
		if t.Message != nil {
			message = t.Message(doc)
		}
		for _, userID := range e.resolve(ctx, doc, t) {
			n := Notification{
				UserID:         userID,
				DocumentID:     doc.DocumentID(),
				DocumentNumber: doc.DocumentNumber(),
				Message:        message,
			}
			if err := e.notifier.Send(ctx, n); err != nil {
				e.logger.Warn("notification delivery failed",
					zap.String("document_id", doc.DocumentID()),
					zap.String("user_id", userID),
					zap.Error(err))
			}
		}
	}
}

func (e *Engine) resolve(ctx context.Context, doc Document, t Target) []string {
	switch {
	case t.Role != "":
		users, err := e.directory.FindByRole(ctx, t.Role)
		if err != nil {
			e.logger.Warn("role fan-out lookup failed",
				zap.String("role", t.Role.String()),
				zap.Error(err))
			return nil
		}
		ids := make([]string, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		return ids
	case t.ToOwner:
		ownerID, _ := doc.Owner()
		return []string{ownerID}
	case t.UserID != nil:
		if id := t.UserID(doc); id != "" {
			return []string{id}
		}
	}
	return nil
}
