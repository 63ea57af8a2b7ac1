package entity

import (
	"time"

	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// WorkflowDocument carries the fields shared by every document type. The
// concrete types embed it; the engine mutates status, history and the
// updated-at timestamp exclusively through its methods.
type WorkflowDocument struct {
	ID         string           `json:"id"`
	Number     string           `json:"document_number"`
	OwnerID    string           `json:"owner_id"`
	OwnerName  string           `json:"owner_name"`
	Status     workflow.Status  `json:"status"`
	History    []workflow.Entry `json:"history"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`

	// Version backs optimistic concurrency in the store; it is not part of
	// the API payload.
	Version int64 `json:"-"`
}

// NewWorkflowDocument initializes the shared fields for a freshly created
// draft document.
func NewWorkflowDocument(id, number, ownerID, ownerName string, now time.Time) WorkflowDocument {
	return WorkflowDocument{
		ID:        id,
		Number:    number,
		OwnerID:   ownerID,
		OwnerName: ownerName,
		Status:    workflow.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (d *WorkflowDocument) DocumentID() string { return d.ID }

func (d *WorkflowDocument) DocumentNumber() string { return d.Number }

func (d *WorkflowDocument) Owner() (string, string) { return d.OwnerID, d.OwnerName }

func (d *WorkflowDocument) CurrentStatus() workflow.Status { return d.Status }

func (d *WorkflowDocument) SetStatus(s workflow.Status) { d.Status = s }

func (d *WorkflowDocument) DocumentVersion() int64 { return d.Version }

// SetVersion is called by the persistence layer when loading or after a
// successful optimistic write.
func (d *WorkflowDocument) SetVersion(v int64) { d.Version = v }

func (d *WorkflowDocument) AppendEntry(e workflow.Entry) { d.History = append(d.History, e) }

func (d *WorkflowDocument) Entries() []workflow.Entry { return d.History }

func (d *WorkflowDocument) Touch(now time.Time) { d.UpdatedAt = now }

var _ workflow.Document = (*WorkflowDocument)(nil)
