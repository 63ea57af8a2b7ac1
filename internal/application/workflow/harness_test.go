package workflow

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// memStore holds a single document in memory for table tests.
type memStore struct {
	doc workflow.Document
}

func (s *memStore) Load(_ context.Context, _ string) (workflow.Document, error) {
	return s.doc, nil
}

func (s *memStore) Save(_ context.Context, doc workflow.Document, _ []workflow.Entry) error {
	s.doc = doc
	return nil
}

type memNotifier struct {
	sent []workflow.Notification
}

func (n *memNotifier) Send(_ context.Context, msg workflow.Notification) error {
	n.sent = append(n.sent, msg)
	return nil
}

type memDirectory struct {
	byRole map[workflow.Role][]workflow.Recipient
}

func (d *memDirectory) FindByRole(_ context.Context, role workflow.Role) ([]workflow.Recipient, error) {
	return d.byRole[role], nil
}

// Actors used across the table tests.
var (
	requester      = workflow.Actor{ID: "req-1", DisplayName: "Req User", Roles: []workflow.Role{workflow.RoleRequester}}
	procurement    = workflow.Actor{ID: "proc-1", DisplayName: "Proc User", Roles: []workflow.Role{workflow.RoleProcurement}}
	management     = workflow.Actor{ID: "mgmt-1", DisplayName: "Mgmt User", Roles: []workflow.Role{workflow.RoleManagement}}
	financial      = workflow.Actor{ID: "fin-1", DisplayName: "Fin User", Roles: []workflow.Role{workflow.RoleFinancial}}
	coo            = workflow.Actor{ID: "coo-1", DisplayName: "COO User", Roles: []workflow.Role{workflow.RoleCOO}}
	devManager     = workflow.Actor{ID: "dev-1", DisplayName: "Dev Mgr", Roles: []workflow.Role{workflow.RoleDevManager}}
	projectControl = workflow.Actor{ID: "pc-1", DisplayName: "PC User", Roles: []workflow.Role{workflow.RoleProjectControl}}
)

func testEngine(table *workflow.Table, doc workflow.Document) (*workflow.Engine, *memNotifier) {
	notifier := &memNotifier{}
	directory := &memDirectory{byRole: map[workflow.Role][]workflow.Recipient{
		workflow.RoleProcurement:    {{ID: procurement.ID}},
		workflow.RoleManagement:     {{ID: management.ID}},
		workflow.RoleFinancial:      {{ID: financial.ID}},
		workflow.RoleCOO:            {{ID: coo.ID}},
		workflow.RoleDevManager:     {{ID: devManager.ID}},
		workflow.RoleProjectControl: {{ID: projectControl.ID}},
	}}
	return workflow.NewEngine(table, &memStore{doc: doc}, notifier, directory, zap.NewNop()), notifier
}

// newCreatedDoc mimics what the document services do at creation time:
// fresh draft plus the initial "created" ledger entry.
func newCreatedDoc(id, number string, owner workflow.Actor) entity.WorkflowDocument {
	now := time.Now().UTC()
	doc := entity.NewWorkflowDocument(id, number, owner.ID, owner.DisplayName, now)
	doc.AppendEntry(workflow.Entry{
		Action:    RecordCreated,
		ActorID:   owner.ID,
		ActorName: owner.DisplayName,
		Timestamp: now,
	})
	return doc
}
