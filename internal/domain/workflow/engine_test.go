package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeDoc is a minimal in-memory Document for engine tests.
type fakeDoc struct {
	id        string
	number    string
	ownerID   string
	ownerName string
	status    Status
	history   []Entry
	version   int64
	updatedAt time.Time

	// domain payload the apply funcs mutate
	confirmed bool
}

func (d *fakeDoc) DocumentID() string      { return d.id }
func (d *fakeDoc) DocumentNumber() string  { return d.number }
func (d *fakeDoc) Owner() (string, string) { return d.ownerID, d.ownerName }
func (d *fakeDoc) CurrentStatus() Status   { return d.status }
func (d *fakeDoc) SetStatus(s Status)      { d.status = s }
func (d *fakeDoc) DocumentVersion() int64  { return d.version }
func (d *fakeDoc) AppendEntry(e Entry)     { d.history = append(d.history, e) }
func (d *fakeDoc) Entries() []Entry        { return d.history }
func (d *fakeDoc) Touch(now time.Time)     { d.updatedAt = now }

type fakeStore struct {
	doc     *fakeDoc
	loadErr error
	saveErr error
	saved   bool
	entries []Entry
}

func (s *fakeStore) Load(_ context.Context, _ string) (Document, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.doc, nil
}

func (s *fakeStore) Save(_ context.Context, _ Document, entries []Entry) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = true
	s.entries = entries
	return nil
}

type fakeNotifier struct {
	sent    []Notification
	sendErr error
}

func (n *fakeNotifier) Send(_ context.Context, msg Notification) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.sent = append(n.sent, msg)
	return nil
}

type fakeDirectory struct {
	byRole map[Role][]Recipient
}

func (d *fakeDirectory) FindByRole(_ context.Context, role Role) ([]Recipient, error) {
	return d.byRole[role], nil
}

type notesPayload struct{ notes string }

func (p notesPayload) HistoryNotes() string { return p.notes }

func testTable() *Table {
	t := NewTable("test_doc")
	t.From(testStatusDraft).Permit(testActionSubmit, Rule{
		OwnerOnly: true,
		Next:      testStatusPending,
		Record:    Action("submitted"),
		Notify: []Target{{
			Role:    Role("reviewer"),
			Message: func(doc Document) string { return "review " + doc.DocumentNumber() },
		}},
	})
	t.From(testStatusPending).
		Permit(testActionApprove, Rule{
			Roles:  []Role{Role("reviewer")},
			Next:   testStatusDone,
			Record: Action("approved"),
			Notify: []Target{{ToOwner: true, Message: func(Document) string { return "approved" }}},
		}).
		Permit(Action("confirm"), Rule{
			Roles: []Role{Role("reviewer")},
			Apply: func(doc Document, _ any) error {
				doc.(*fakeDoc).confirmed = true
				return nil
			},
		}).
		Permit(Action("note"), Rule{
			Roles:  []Role{Role("reviewer")},
			Record: Action("noted"),
		})
	t.Auto(AutoRule{
		From: testStatusPending,
		To:   testStatusDone,
		On:   []Action{Action("confirm")},
		When: func(doc Document) bool { return doc.(*fakeDoc).confirmed },
		Notify: []Target{{
			UserID:  func(doc Document) string { return "watcher" },
			Message: func(Document) string { return "auto-advanced" },
		}},
	})
	return t
}

func newTestEngine(doc *fakeDoc) (*Engine, *fakeStore, *fakeNotifier) {
	store := &fakeStore{doc: doc}
	notifier := &fakeNotifier{}
	directory := &fakeDirectory{byRole: map[Role][]Recipient{
		Role("reviewer"): {{ID: "rev1"}, {ID: "rev2"}},
	}}
	return NewEngine(testTable(), store, notifier, directory, zap.NewNop()), store, notifier
}

func draftDoc() *fakeDoc {
	return &fakeDoc{id: "d1", number: "1404-1", ownerID: "owner", ownerName: "Owner", status: testStatusDraft}
}

func TestEngine_ApplyAction_InvalidAction(t *testing.T) {
	doc := draftDoc()
	engine, store, notifier := newTestEngine(doc)

	_, err := engine.ApplyAction(context.Background(), "d1", testActionApprove, Actor{ID: "owner"}, nil)
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("ApplyAction() error = %v, want ErrInvalidAction", err)
	}
	if store.saved {
		t.Error("invalid action reached the store")
	}
	if len(notifier.sent) != 0 {
		t.Error("invalid action sent notifications")
	}
	if doc.status != testStatusDraft {
		t.Errorf("status = %v, want unchanged draft", doc.status)
	}
}

func TestEngine_ApplyAction_OwnerGate(t *testing.T) {
	doc := draftDoc()
	engine, store, _ := newTestEngine(doc)

	_, err := engine.ApplyAction(context.Background(), "d1", testActionSubmit, Actor{ID: "intruder"}, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("ApplyAction() error = %v, want ErrForbidden", err)
	}
	if store.saved {
		t.Error("forbidden action reached the store")
	}
}

func TestEngine_ApplyAction_RoleGate(t *testing.T) {
	doc := draftDoc()
	doc.status = testStatusPending
	engine, _, _ := newTestEngine(doc)

	_, err := engine.ApplyAction(context.Background(), "d1", testActionApprove, Actor{ID: "u1", Roles: []Role{Role("requester")}}, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("ApplyAction() error = %v, want ErrForbidden", err)
	}
}

func TestEngine_ApplyAction_AdminOverride(t *testing.T) {
	doc := draftDoc()
	engine, _, _ := newTestEngine(doc)

	// Admin passes the owner gate without being the owner.
	_, err := engine.ApplyAction(context.Background(), "d1", testActionSubmit, Actor{ID: "root", Roles: []Role{RoleAdmin}}, nil)
	if err != nil {
		t.Fatalf("ApplyAction() error = %v, want nil", err)
	}
	if doc.status != testStatusPending {
		t.Errorf("status = %v, want %v", doc.status, testStatusPending)
	}
}

func TestEngine_ApplyAction_TransitionAndLedger(t *testing.T) {
	doc := draftDoc()
	engine, store, notifier := newTestEngine(doc)

	out, err := engine.ApplyAction(context.Background(), "d1", testActionSubmit,
		Actor{ID: "owner", DisplayName: "Owner"}, notesPayload{notes: "please expedite"})
	if err != nil {
		t.Fatalf("ApplyAction() error = %v", err)
	}
	if out.CurrentStatus() != testStatusPending {
		t.Errorf("status = %v, want %v", out.CurrentStatus(), testStatusPending)
	}
	if len(doc.history) != 1 {
		t.Fatalf("history length = %d, want 1", len(doc.history))
	}
	entry := doc.history[0]
	if entry.Action != Action("submitted") {
		t.Errorf("entry.Action = %v, want submitted", entry.Action)
	}
	if entry.ActorID != "owner" || entry.ActorName != "Owner" {
		t.Errorf("entry actor = %s/%s, want owner/Owner", entry.ActorID, entry.ActorName)
	}
	if entry.Notes != "please expedite" {
		t.Errorf("entry.Notes = %q, want payload notes", entry.Notes)
	}
	if entry.FromStatus != testStatusDraft || entry.ToStatus != testStatusPending {
		t.Errorf("entry transition = %v -> %v, want draft -> pending", entry.FromStatus, entry.ToStatus)
	}
	if !store.saved || len(store.entries) != 1 {
		t.Errorf("store received %d entries, want 1", len(store.entries))
	}
	// Role fan-out reaches every reviewer.
	if len(notifier.sent) != 2 {
		t.Fatalf("sent %d notifications, want 2", len(notifier.sent))
	}
	if notifier.sent[0].Message != "review 1404-1" {
		t.Errorf("notification message = %q", notifier.sent[0].Message)
	}
}

func TestEngine_ApplyAction_NonTransitioningAction(t *testing.T) {
	doc := draftDoc()
	doc.status = testStatusPending
	engine, store, notifier := newTestEngine(doc)
	reviewer := Actor{ID: "rev1", Roles: []Role{Role("reviewer")}}

	// confirm mutates the payload, writes no ledger entry, and here trips
	// the auto-advance condition.
	out, err := engine.ApplyAction(context.Background(), "d1", Action("confirm"), reviewer, nil)
	if err != nil {
		t.Fatalf("ApplyAction() error = %v", err)
	}
	if len(doc.history) != 0 {
		t.Errorf("history length = %d, want 0 for unrecorded action", len(doc.history))
	}
	if out.CurrentStatus() != testStatusDone {
		t.Errorf("status = %v, want auto-advanced %v", out.CurrentStatus(), testStatusDone)
	}
	if !store.saved {
		t.Error("document was not persisted")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].UserID != "watcher" {
		t.Errorf("auto-advance notifications = %v, want one to watcher", notifier.sent)
	}
}

func TestEngine_ApplyAction_AutoRuleIgnoresUnrelatedActions(t *testing.T) {
	doc := draftDoc()
	doc.status = testStatusPending
	doc.confirmed = true
	engine, _, notifier := newTestEngine(doc)
	reviewer := Actor{ID: "rev1", Roles: []Role{Role("reviewer")}}

	// The auto-advance condition already holds, but "note" is not one of
	// its triggering actions, so the document must stay put.
	out, err := engine.ApplyAction(context.Background(), "d1", Action("note"), reviewer, nil)
	if err != nil {
		t.Fatalf("ApplyAction() error = %v", err)
	}
	if out.CurrentStatus() != testStatusPending {
		t.Errorf("status = %v, want %v unchanged", out.CurrentStatus(), testStatusPending)
	}
	for _, n := range notifier.sent {
		if n.UserID == "watcher" {
			t.Error("auto-advance notification sent for a non-triggering action")
		}
	}
}

func TestEngine_ApplyAction_SaveFailureSuppressesNotifications(t *testing.T) {
	doc := draftDoc()
	engine, store, notifier := newTestEngine(doc)
	store.saveErr = ErrConflict

	_, err := engine.ApplyAction(context.Background(), "d1", testActionSubmit, Actor{ID: "owner"}, nil)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("ApplyAction() error = %v, want ErrConflict", err)
	}
	if len(notifier.sent) != 0 {
		t.Error("notifications sent despite failed save")
	}
}

func TestEngine_ApplyAction_NotifierFailureIsSwallowed(t *testing.T) {
	doc := draftDoc()
	engine, _, notifier := newTestEngine(doc)
	notifier.sendErr = errors.New("smtp down")

	out, err := engine.ApplyAction(context.Background(), "d1", testActionSubmit, Actor{ID: "owner"}, nil)
	if err != nil {
		t.Fatalf("ApplyAction() error = %v, want nil despite notifier failure", err)
	}
	if out.CurrentStatus() != testStatusPending {
		t.Errorf("status = %v, want %v", out.CurrentStatus(), testStatusPending)
	}
}

func TestEngine_Get(t *testing.T) {
	doc := draftDoc()
	engine, store, _ := newTestEngine(doc)

	got, err := engine.Get(context.Background(), "d1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.DocumentID() != "d1" {
		t.Errorf("Get() id = %v, want d1", got.DocumentID())
	}

	store.loadErr = ErrNotFound
	if _, err := engine.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}
