// Package workflow defines the per-document-type transition tables and the
// action payloads consumed by the generic engine. All approval rules live
// here as data; the engine in internal/domain/workflow stays type-agnostic.
package workflow

import (
	"fmt"

	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// invalidf wraps an action-specific constraint violation so callers can
// detect it with errors.Is(err, workflow.ErrInvalidPayload).
func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{workflow.ErrInvalidPayload}, args...)...)
}

// NotesPayload carries optional free-text notes for approve/reject style
// actions.
type NotesPayload struct {
	Notes string `json:"notes,omitempty"`
}

func (p NotesPayload) HistoryNotes() string { return p.Notes }

// InquiryInput is one price inquiry submitted by procurement.
type InquiryInput struct {
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"total_price"`
	ImageBase64 string  `json:"image_base64,omitempty"`
}

// AddInquiriesPayload carries the full inquiry set for a goods request.
type AddInquiriesPayload struct {
	Inquiries []InquiryInput `json:"inquiries"`
}

// SelectInquiryPayload identifies the winning inquiry.
type SelectInquiryPayload struct {
	InquiryID string `json:"inquiry_id"`
	Notes     string `json:"notes,omitempty"`
}

func (p SelectInquiryPayload) HistoryNotes() string { return p.Notes }

// AddReceiptPayload records one delivery. The receipt number is issued by
// the sequence generator before the action is applied.
type AddReceiptPayload struct {
	Number     string  `json:"receipt_number"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// ConfirmReceiptPayload confirms one receipt from either side.
type ConfirmReceiptPayload struct {
	ReceiptID   string `json:"receipt_id"`
	ReceiptDate string `json:"receipt_date"`
	ReceiptTime string `json:"receipt_time"`
}

// UploadInvoicePayload attaches the purchase invoice.
type UploadInvoicePayload struct {
	InvoiceBase64 string `json:"invoice_base64"`
}

// COOReviewPayload carries the COO's alignment verdict on a proposal.
type COOReviewPayload struct {
	Notes string `json:"notes,omitempty"`
}

func (p COOReviewPayload) HistoryNotes() string { return p.Notes }

// AssignManagerPayload assigns the feasibility manager for a proposal.
type AssignManagerPayload struct {
	ManagerID   string `json:"feasibility_manager_id"`
	ManagerName string `json:"feasibility_manager_name"`
	Notes       string `json:"notes,omitempty"`
}

func (p AssignManagerPayload) HistoryNotes() string {
	return "feasibility manager: " + p.ManagerName
}

// RegisterProjectPayload registers a proposal as a formal project.
type RegisterProjectPayload struct {
	ProjectCode      string `json:"project_code"`
	ProjectStartDate string `json:"project_start_date"`
	Notes            string `json:"notes,omitempty"`
}

func (p RegisterProjectPayload) HistoryNotes() string {
	return "project code: " + p.ProjectCode
}

// PaymentRowTypeInput sets the payment method for one row.
type PaymentRowTypeInput struct {
	RowID              string `json:"id"`
	PaymentMethod      string `json:"payment_method"`
	PaymentMethodOther string `json:"payment_method_other,omitempty"`
}

// SetPaymentTypesPayload carries financial's per-row payment methods.
type SetPaymentTypesPayload struct {
	Rows []PaymentRowTypeInput `json:"payment_rows"`
}

// ProcessPaymentPayload completes a payment request.
type ProcessPaymentPayload struct {
	PaymentDate   string `json:"payment_date"`
	InvoiceBase64 string `json:"invoice_base64,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

func (p ProcessPaymentPayload) HistoryNotes() string { return p.Notes }
