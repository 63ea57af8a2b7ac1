package workflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// Goods request statuses.
const (
	GoodsStatusDraft              = workflow.StatusDraft
	GoodsStatusPendingProcurement workflow.Status = "pending_procurement"
	GoodsStatusPendingManagement  workflow.Status = "pending_management"
	GoodsStatusPendingPurchase    workflow.Status = "pending_purchase"
	GoodsStatusPendingReceipt     workflow.Status = "pending_receipt"
	GoodsStatusPendingInvoice     workflow.Status = "pending_invoice"
	GoodsStatusPendingFinancial   workflow.Status = "pending_financial"
	GoodsStatusCompleted          workflow.Status = "completed"
	GoodsStatusRejected           workflow.Status = "rejected"
)

// requiredInquiryCount is how many price inquiries procurement must collect
// before management can pick a winner.
const requiredInquiryCount = 3

// goodsRejectBack maps each intermediate status to the status a generic
// rejection returns the document to. This is configuration confirmed with
// the process owners, not derived from the forward table.
var goodsRejectBack = map[workflow.Status]workflow.Status{
	GoodsStatusPendingProcurement: GoodsStatusDraft,
	GoodsStatusPendingManagement:  GoodsStatusPendingProcurement,
	GoodsStatusPendingPurchase:    GoodsStatusPendingManagement,
	GoodsStatusPendingInvoice:     GoodsStatusPendingReceipt,
	GoodsStatusPendingFinancial:   GoodsStatusPendingInvoice,
}

// goodsRejectRoles names the stage-responsible role allowed to reject at
// each status.
var goodsRejectRoles = map[workflow.Status][]workflow.Role{
	GoodsStatusPendingProcurement: {workflow.RoleProcurement},
	GoodsStatusPendingManagement:  {workflow.RoleManagement},
	GoodsStatusPendingPurchase:    {workflow.RoleProcurement},
	GoodsStatusPendingInvoice:     {workflow.RoleProcurement},
	GoodsStatusPendingFinancial:   {workflow.RoleFinancial},
}

func asGoods(doc workflow.Document) (*entity.GoodsRequest, error) {
	g, ok := doc.(*entity.GoodsRequest)
	if !ok {
		return nil, fmt.Errorf("goods table applied to %T", doc)
	}
	return g, nil
}

// GoodsRequestTable builds the transition table for goods requests:
// draft -> procurement inquiries -> management selection -> purchase ->
// receipt confirmation -> invoice -> financial approval.
func GoodsRequestTable() *workflow.Table {
	t := workflow.NewTable("goods_request")

	t.From(GoodsStatusDraft).
		Permit(ActionSubmit, workflow.Rule{
			OwnerOnly: true,
			Next:      GoodsStatusPendingProcurement,
			Record:    RecordSubmitted,
			Notify: []workflow.Target{{
				Role: workflow.RoleProcurement,
				Message: func(doc workflow.Document) string {
					_, owner := doc.Owner()
					return fmt.Sprintf("New goods request %s from %s", doc.DocumentNumber(), owner)
				},
			}},
		})

	t.From(GoodsStatusPendingProcurement).
		Permit(ActionAddInquiries, workflow.Rule{
			Roles:    []workflow.Role{workflow.RoleProcurement},
			Next:     GoodsStatusPendingManagement,
			Record:   RecordInquiriesAdded,
			Validate: validateInquiries,
			Apply:    applyInquiries,
			Notify: []workflow.Target{{
				Role: workflow.RoleManagement,
				Message: func(doc workflow.Document) string {
					return fmt.Sprintf("Inquiries for request %s are ready for review", doc.DocumentNumber())
				},
			}},
		})

	t.From(GoodsStatusPendingManagement).
		Permit(ActionApproveInquiry, workflow.Rule{
			Roles:    []workflow.Role{workflow.RoleManagement},
			Next:     GoodsStatusPendingPurchase,
			Record:   RecordApproved,
			Validate: validateInquirySelection,
			Apply:    applyInquirySelection,
			Notify: []workflow.Target{{
				Role: workflow.RoleProcurement,
				Message: func(doc workflow.Document) string {
					return fmt.Sprintf("Request %s approved, ready for purchase", doc.DocumentNumber())
				},
			}},
		}).
		Permit(ActionRejectWithEdit, workflow.Rule{
			Roles:  []workflow.Role{workflow.RoleManagement},
			Next:   GoodsStatusPendingProcurement,
			Record: RecordRejected,
			Notify: []workflow.Target{{
				Role: workflow.RoleProcurement,
				Message: func(doc workflow.Document) string {
					return fmt.Sprintf("Request %s needs revised inquiries", doc.DocumentNumber())
				},
			}},
		}).
		Permit(ActionRejectComplete, workflow.Rule{
			Roles:  []workflow.Role{workflow.RoleManagement},
			Next:   GoodsStatusRejected,
			Record: RecordRejected,
			Notify: []workflow.Target{{
				ToOwner: true,
				Message: func(doc workflow.Document) string {
					return fmt.Sprintf("Request %s was rejected", doc.DocumentNumber())
				},
			}},
		})

	receiptRule := workflow.Rule{
		Roles:    []workflow.Role{workflow.RoleProcurement},
		Next:     GoodsStatusPendingReceipt,
		Record:   RecordReceiptAdded,
		Validate: validateReceipt,
		Apply:    applyReceipt,
		Notify: []workflow.Target{{
			ToOwner: true,
			Message: func(doc workflow.Document) string {
				return fmt.Sprintf("A new receipt was recorded for request %s", doc.DocumentNumber())
			},
		}},
	}
	t.From(GoodsStatusPendingPurchase).Permit(ActionAddReceipt, receiptRule)
	t.From(GoodsStatusPendingReceipt).
		Permit(ActionAddReceipt, receiptRule).
		Permit(ActionConfirmReceiptProcurement, workflow.Rule{
			Roles:    []workflow.Role{workflow.RoleProcurement},
			Validate: validateReceiptRef,
			Apply:    confirmReceipt(true),
		}).
		Permit(ActionConfirmReceiptRequester, workflow.Rule{
			OwnerOnly: true,
			Validate:  validateReceiptRef,
			Apply:     confirmReceipt(false),
		})

	t.From(GoodsStatusPendingInvoice).
		Permit(ActionUploadInvoice, workflow.Rule{
			Roles:    []workflow.Role{workflow.RoleProcurement},
			Next:     GoodsStatusPendingFinancial,
			Record:   RecordInvoiceUploaded,
			Validate: validateInvoice,
			Apply:    applyInvoice,
			Notify: []workflow.Target{{
				Role: workflow.RoleFinancial,
				Message: func(doc workflow.Document) string {
					return fmt.Sprintf("Invoice for request %s is ready for approval", doc.DocumentNumber())
				},
			}},
		})

	t.From(GoodsStatusPendingFinancial).
		Permit(ActionApproveFinancial, workflow.Rule{
			Roles:  []workflow.Role{workflow.RoleFinancial},
			Next:   GoodsStatusCompleted,
			Record: RecordCompleted,
			Notify: []workflow.Target{{
				ToOwner: true,
				Message: func(doc workflow.Document) string {
					return fmt.Sprintf("Request %s is complete", doc.DocumentNumber())
				},
			}},
		})

	// Generic reject walks one stage backwards. Rejection always needs an
	// explanation on the ledger.
	for from, back := range goodsRejectBack {
		t.From(from).Permit(ActionReject, workflow.Rule{
			Roles:    goodsRejectRoles[from],
			Next:     back,
			Record:   RecordRejected,
			Validate: requireNotes,
			Notify: []workflow.Target{{
				ToOwner: true,
				Message: func(doc workflow.Document) string {
					return fmt.Sprintf("Request %s was sent back", doc.DocumentNumber())
				},
			}},
		})
	}

	// Once every receipt carries both confirmations the document advances
	// on its own; neither confirming side triggers it alone. Only the
	// confirmation actions are checked, so a rejection back into
	// pending_receipt stays put.
	t.Auto(workflow.AutoRule{
		From: GoodsStatusPendingReceipt,
		To:   GoodsStatusPendingInvoice,
		On:   []workflow.Action{ActionConfirmReceiptProcurement, ActionConfirmReceiptRequester},
		When: func(doc workflow.Document) bool {
			g, err := asGoods(doc)
			if err != nil {
				return false
			}
			return g.AllReceiptsConfirmed()
		},
		Notify: []workflow.Target{{
			Role: workflow.RoleProcurement,
			Message: func(doc workflow.Document) string {
				return fmt.Sprintf("Receipts for request %s are confirmed, please upload the invoice", doc.DocumentNumber())
			},
		}},
	})

	return t
}

func requireNotes(_ workflow.Document, payload any) error {
	p, ok := payload.(NotesPayload)
	if !ok || p.Notes == "" {
		return invalidf("rejection notes are required")
	}
	return nil
}

func validateInquiries(_ workflow.Document, payload any) error {
	p, ok := payload.(AddInquiriesPayload)
	if !ok {
		return invalidf("inquiries payload required")
	}
	if len(p.Inquiries) != requiredInquiryCount {
		return invalidf("exactly %d inquiries required, got %d", requiredInquiryCount, len(p.Inquiries))
	}
	return nil
}

func applyInquiries(doc workflow.Document, payload any) error {
	g, err := asGoods(doc)
	if err != nil {
		return err
	}
	p := payload.(AddInquiriesPayload)
	inquiries := make([]entity.Inquiry, 0, len(p.Inquiries))
	for _, in := range p.Inquiries {
		inquiries = append(inquiries, entity.Inquiry{
			ID:          uuid.NewString(),
			UnitPrice:   in.UnitPrice,
			Quantity:    in.Quantity,
			TotalPrice:  in.TotalPrice,
			ImageBase64: in.ImageBase64,
		})
	}
	g.Inquiries = inquiries
	return nil
}

func validateInquirySelection(doc workflow.Document, payload any) error {
	g, err := asGoods(doc)
	if err != nil {
		return err
	}
	p, ok := payload.(SelectInquiryPayload)
	if !ok || p.InquiryID == "" {
		return invalidf("inquiry id required")
	}
	for _, in := range g.Inquiries {
		if in.ID == p.InquiryID {
			return nil
		}
	}
	return invalidf("inquiry %s not found", p.InquiryID)
}

func applyInquirySelection(doc workflow.Document, payload any) error {
	g, err := asGoods(doc)
	if err != nil {
		return err
	}
	p := payload.(SelectInquiryPayload)
	for i := range g.Inquiries {
		g.Inquiries[i].IsSelected = g.Inquiries[i].ID == p.InquiryID
	}
	return nil
}

func validateReceipt(_ workflow.Document, payload any) error {
	p, ok := payload.(AddReceiptPayload)
	if !ok || p.Number == "" {
		return invalidf("receipt number required")
	}
	if p.Quantity <= 0 {
		return invalidf("receipt quantity must be positive")
	}
	return nil
}

func applyReceipt(doc workflow.Document, payload any) error {
	g, err := asGoods(doc)
	if err != nil {
		return err
	}
	p := payload.(AddReceiptPayload)
	g.Receipts = append(g.Receipts, entity.Receipt{
		ID:         uuid.NewString(),
		Number:     p.Number,
		Quantity:   p.Quantity,
		UnitPrice:  p.UnitPrice,
		TotalPrice: p.TotalPrice,
		CreatedAt:  time.Now().UTC(),
	})
	return nil
}

func validateReceiptRef(doc workflow.Document, payload any) error {
	g, err := asGoods(doc)
	if err != nil {
		return err
	}
	p, ok := payload.(ConfirmReceiptPayload)
	if !ok || p.ReceiptID == "" {
		return invalidf("receipt id required")
	}
	if g.FindReceipt(p.ReceiptID) == nil {
		return invalidf("receipt %s not found", p.ReceiptID)
	}
	return nil
}

// confirmReceipt marks one side's confirmation. The two sides are
// independent actions; neither transitions status by itself.
func confirmReceipt(byProcurement bool) workflow.ApplyFunc {
	return func(doc workflow.Document, payload any) error {
		g, err := asGoods(doc)
		if err != nil {
			return err
		}
		p := payload.(ConfirmReceiptPayload)
		r := g.FindReceipt(p.ReceiptID)
		now := time.Now().UTC()
		if byProcurement {
			r.ConfirmedByProcurement = true
			r.ProcurementConfirmedAt = &now
			r.ProcurementReceiptDate = p.ReceiptDate
			r.ProcurementReceiptTime = p.ReceiptTime
		} else {
			r.ConfirmedByRequester = true
			r.RequesterConfirmedAt = &now
			r.RequesterReceiptDate = p.ReceiptDate
			r.RequesterReceiptTime = p.ReceiptTime
		}
		return nil
	}
}

func validateInvoice(_ workflow.Document, payload any) error {
	p, ok := payload.(UploadInvoicePayload)
	if !ok || p.InvoiceBase64 == "" {
		return invalidf("invoice content required")
	}
	return nil
}

func applyInvoice(doc workflow.Document, payload any) error {
	g, err := asGoods(doc)
	if err != nil {
		return err
	}
	g.InvoiceBase64 = payload.(UploadInvoicePayload).InvoiceBase64
	return nil
}
