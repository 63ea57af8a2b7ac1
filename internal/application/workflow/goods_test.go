package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

func newGoodsRequest() *entity.GoodsRequest {
	return &entity.GoodsRequest{
		WorkflowDocument: newCreatedDoc("gr-1", "1404-1", requester),
		ItemName:         "steel pipe",
		Quantity:         20,
		CostCenter:       "cc-1",
	}
}

func threeInquiries() AddInquiriesPayload {
	return AddInquiriesPayload{Inquiries: []InquiryInput{
		{UnitPrice: 100, Quantity: 20, TotalPrice: 2000},
		{UnitPrice: 110, Quantity: 20, TotalPrice: 2200},
		{UnitPrice: 95, Quantity: 20, TotalPrice: 1900},
	}}
}

// The full happy path: create, submit, inquiries, selection, receipt,
// bilateral confirmation (auto-advance), invoice, financial approval.
func TestGoodsRequest_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	doc := newGoodsRequest()
	engine, notifier := testEngine(GoodsRequestTable(), doc)

	if _, err := engine.ApplyAction(ctx, doc.ID, ActionSubmit, requester, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if doc.Status != GoodsStatusPendingProcurement {
		t.Fatalf("status after submit = %v", doc.Status)
	}

	if _, err := engine.ApplyAction(ctx, doc.ID, ActionAddInquiries, procurement, threeInquiries()); err != nil {
		t.Fatalf("add_inquiries: %v", err)
	}
	if len(doc.Inquiries) != 3 {
		t.Fatalf("inquiries = %d, want 3", len(doc.Inquiries))
	}

	winner := doc.Inquiries[2].ID
	if _, err := engine.ApplyAction(ctx, doc.ID, ActionApproveInquiry, management,
		SelectInquiryPayload{InquiryID: winner, Notes: "cheapest offer"}); err != nil {
		t.Fatalf("approve inquiry: %v", err)
	}
	for _, in := range doc.Inquiries {
		if in.IsSelected != (in.ID == winner) {
			t.Errorf("inquiry %s IsSelected = %v", in.ID, in.IsSelected)
		}
	}
	if doc.Status != GoodsStatusPendingPurchase {
		t.Fatalf("status after selection = %v", doc.Status)
	}

	if _, err := engine.ApplyAction(ctx, doc.ID, ActionAddReceipt, procurement,
		AddReceiptPayload{Number: "R-00001", Quantity: 20, UnitPrice: 95, TotalPrice: 1900}); err != nil {
		t.Fatalf("add_receipt: %v", err)
	}
	if doc.Status != GoodsStatusPendingReceipt {
		t.Fatalf("status after receipt = %v", doc.Status)
	}
	receiptID := doc.Receipts[0].ID

	if _, err := engine.ApplyAction(ctx, doc.ID, ActionConfirmReceiptProcurement, procurement,
		ConfirmReceiptPayload{ReceiptID: receiptID, ReceiptDate: "1404-02-01", ReceiptTime: "10:30"}); err != nil {
		t.Fatalf("confirm (procurement): %v", err)
	}
	if doc.Status != GoodsStatusPendingReceipt {
		t.Fatalf("one-sided confirmation advanced status to %v", doc.Status)
	}

	if _, err := engine.ApplyAction(ctx, doc.ID, ActionConfirmReceiptRequester, requester,
		ConfirmReceiptPayload{ReceiptID: receiptID, ReceiptDate: "1404-02-01", ReceiptTime: "11:00"}); err != nil {
		t.Fatalf("confirm (requester): %v", err)
	}
	if doc.Status != GoodsStatusPendingInvoice {
		t.Fatalf("bilateral confirmation did not auto-advance, status = %v", doc.Status)
	}

	if _, err := engine.ApplyAction(ctx, doc.ID, ActionUploadInvoice, procurement,
		UploadInvoicePayload{InvoiceBase64: "aW52b2ljZQ=="}); err != nil {
		t.Fatalf("upload_invoice: %v", err)
	}

	if _, err := engine.ApplyAction(ctx, doc.ID, ActionApproveFinancial, financial, nil); err != nil {
		t.Fatalf("approve_financial: %v", err)
	}
	if doc.Status != GoodsStatusCompleted {
		t.Fatalf("final status = %v, want completed", doc.Status)
	}

	// Receipt confirmations and the auto-advance leave no ledger entries.
	wantActions := []workflow.Action{
		RecordCreated, RecordSubmitted, RecordInquiriesAdded, RecordApproved,
		RecordReceiptAdded, RecordInvoiceUploaded, RecordCompleted,
	}
	if len(doc.History) != len(wantActions) {
		t.Fatalf("history length = %d, want %d", len(doc.History), len(wantActions))
	}
	for i, want := range wantActions {
		if doc.History[i].Action != want {
			t.Errorf("history[%d].Action = %v, want %v", i, doc.History[i].Action, want)
		}
	}
	if doc.History[3].Notes != "cheapest offer" {
		t.Errorf("selection notes = %q", doc.History[3].Notes)
	}

	if len(notifier.sent) == 0 {
		t.Error("lifecycle produced no notifications")
	}
}

func TestGoodsRequest_InquiryCountEnforced(t *testing.T) {
	ctx := context.Background()
	doc := newGoodsRequest()
	doc.Status = GoodsStatusPendingProcurement
	engine, _ := testEngine(GoodsRequestTable(), doc)

	payload := AddInquiriesPayload{Inquiries: []InquiryInput{{UnitPrice: 100, Quantity: 20, TotalPrice: 2000}}}
	_, err := engine.ApplyAction(ctx, doc.ID, ActionAddInquiries, procurement, payload)
	if !errors.Is(err, workflow.ErrInvalidPayload) {
		t.Fatalf("error = %v, want ErrInvalidPayload", err)
	}
	if len(doc.Inquiries) != 0 {
		t.Error("rejected payload still mutated inquiries")
	}
	if doc.Status != GoodsStatusPendingProcurement {
		t.Errorf("status = %v, want unchanged", doc.Status)
	}
}

func TestGoodsRequest_RoleGate(t *testing.T) {
	ctx := context.Background()
	doc := newGoodsRequest()
	doc.Status = GoodsStatusPendingProcurement
	engine, _ := testEngine(GoodsRequestTable(), doc)

	// The requester cannot act in procurement's stage, even as owner.
	_, err := engine.ApplyAction(ctx, doc.ID, ActionAddInquiries, requester, threeInquiries())
	if !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}
}

func TestGoodsRequest_SubmitOwnerOnly(t *testing.T) {
	ctx := context.Background()
	doc := newGoodsRequest()
	engine, _ := testEngine(GoodsRequestTable(), doc)

	other := workflow.Actor{ID: "other", Roles: []workflow.Role{workflow.RoleRequester}}
	if _, err := engine.ApplyAction(ctx, doc.ID, ActionSubmit, other, nil); !errors.Is(err, workflow.ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}
}

func TestGoodsRequest_GenericRejectWalksBackwards(t *testing.T) {
	tests := []struct {
		name  string
		from  workflow.Status
		actor workflow.Actor
		want  workflow.Status
	}{
		{"procurement sends back to draft", GoodsStatusPendingProcurement, procurement, GoodsStatusDraft},
		{"management sends back to procurement", GoodsStatusPendingManagement, management, GoodsStatusPendingProcurement},
		{"procurement sends purchase back to management", GoodsStatusPendingPurchase, procurement, GoodsStatusPendingManagement},
		{"invoice back to receipt", GoodsStatusPendingInvoice, procurement, GoodsStatusPendingReceipt},
		{"financial back to invoice", GoodsStatusPendingFinancial, financial, GoodsStatusPendingInvoice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newGoodsRequest()
			doc.Status = tt.from
			engine, _ := testEngine(GoodsRequestTable(), doc)

			_, err := engine.ApplyAction(context.Background(), doc.ID, ActionReject, tt.actor,
				NotesPayload{Notes: "needs rework"})
			if err != nil {
				t.Fatalf("reject: %v", err)
			}
			if doc.Status != tt.want {
				t.Errorf("status = %v, want %v", doc.Status, tt.want)
			}
			last := doc.History[len(doc.History)-1]
			if last.Action != RecordRejected || last.Notes != "needs rework" {
				t.Errorf("ledger entry = %+v, want rejected with notes", last)
			}
		})
	}
}

// A rejection from pending_invoice lands in pending_receipt, where every
// receipt is by construction already bilaterally confirmed. The auto-advance
// must not bounce the document straight back.
func TestGoodsRequest_RejectFromInvoiceSticks(t *testing.T) {
	ctx := context.Background()
	doc := newGoodsRequest()
	doc.Status = GoodsStatusPendingInvoice
	doc.Receipts = []entity.Receipt{{
		ID:                     "r1",
		Number:                 "R-00001",
		Quantity:               20,
		ConfirmedByProcurement: true,
		ConfirmedByRequester:   true,
	}}
	engine, notifier := testEngine(GoodsRequestTable(), doc)

	if _, err := engine.ApplyAction(ctx, doc.ID, ActionReject, procurement,
		NotesPayload{Notes: "wrong receipt amounts"}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if doc.Status != GoodsStatusPendingReceipt {
		t.Fatalf("status = %v, want pending_receipt", doc.Status)
	}
	last := doc.History[len(doc.History)-1]
	if last.FromStatus != GoodsStatusPendingInvoice || last.ToStatus != GoodsStatusPendingReceipt {
		t.Errorf("ledger transition = %v -> %v, want pending_invoice -> pending_receipt",
			last.FromStatus, last.ToStatus)
	}
	for _, n := range notifier.sent {
		if n.Message == "Receipts for request 1404-1 are confirmed, please upload the invoice" {
			t.Error("rejection re-notified procurement to upload the invoice")
		}
	}

	// The document advances again only through a fresh confirmation.
	if _, err := engine.ApplyAction(ctx, doc.ID, ActionConfirmReceiptProcurement, procurement,
		ConfirmReceiptPayload{ReceiptID: "r1"}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if doc.Status != GoodsStatusPendingInvoice {
		t.Fatalf("status after re-confirmation = %v, want pending_invoice", doc.Status)
	}
}

func TestGoodsRequest_RejectRequiresNotes(t *testing.T) {
	doc := newGoodsRequest()
	doc.Status = GoodsStatusPendingManagement
	engine, _ := testEngine(GoodsRequestTable(), doc)

	_, err := engine.ApplyAction(context.Background(), doc.ID, ActionReject, management, NotesPayload{})
	if !errors.Is(err, workflow.ErrInvalidPayload) {
		t.Fatalf("error = %v, want ErrInvalidPayload", err)
	}
	if doc.Status != GoodsStatusPendingManagement {
		t.Errorf("status = %v, want unchanged", doc.Status)
	}
}

func TestGoodsRequest_AutoAdvanceWaitsForAllReceipts(t *testing.T) {
	ctx := context.Background()
	doc := newGoodsRequest()
	doc.Status = GoodsStatusPendingReceipt
	engine, _ := testEngine(GoodsRequestTable(), doc)

	// Two partial deliveries.
	for _, n := range []string{"R-00001", "R-00002"} {
		if _, err := engine.ApplyAction(ctx, doc.ID, ActionAddReceipt, procurement,
			AddReceiptPayload{Number: n, Quantity: 10, UnitPrice: 95, TotalPrice: 950}); err != nil {
			t.Fatalf("add_receipt %s: %v", n, err)
		}
	}

	// Fully confirm the first receipt only.
	first := doc.Receipts[0].ID
	if _, err := engine.ApplyAction(ctx, doc.ID, ActionConfirmReceiptProcurement, procurement,
		ConfirmReceiptPayload{ReceiptID: first}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := engine.ApplyAction(ctx, doc.ID, ActionConfirmReceiptRequester, requester,
		ConfirmReceiptPayload{ReceiptID: first}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if doc.Status != GoodsStatusPendingReceipt {
		t.Fatalf("advanced with an unconfirmed receipt outstanding, status = %v", doc.Status)
	}

	// Confirm the second; now the document advances.
	second := doc.Receipts[1].ID
	if _, err := engine.ApplyAction(ctx, doc.ID, ActionConfirmReceiptProcurement, procurement,
		ConfirmReceiptPayload{ReceiptID: second}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := engine.ApplyAction(ctx, doc.ID, ActionConfirmReceiptRequester, requester,
		ConfirmReceiptPayload{ReceiptID: second}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if doc.Status != GoodsStatusPendingInvoice {
		t.Fatalf("status = %v, want pending_invoice", doc.Status)
	}

	quantity, total := doc.TotalPurchased()
	if quantity != 20 || total != 1900 {
		t.Errorf("TotalPurchased() = %d, %v, want 20, 1900", quantity, total)
	}
}

func TestGoodsRequest_RejectWithEditKeepsInquiriesEditable(t *testing.T) {
	ctx := context.Background()
	doc := newGoodsRequest()
	doc.Status = GoodsStatusPendingManagement
	doc.Inquiries = []entity.Inquiry{{ID: "i1"}, {ID: "i2"}, {ID: "i3"}}
	engine, _ := testEngine(GoodsRequestTable(), doc)

	if _, err := engine.ApplyAction(ctx, doc.ID, ActionRejectWithEdit, management,
		NotesPayload{Notes: "get a fourth quote source"}); err != nil {
		t.Fatalf("reject_with_edit: %v", err)
	}
	if doc.Status != GoodsStatusPendingProcurement {
		t.Fatalf("status = %v, want pending_procurement", doc.Status)
	}

	// Procurement replaces the inquiry set wholesale on resubmission.
	if _, err := engine.ApplyAction(ctx, doc.ID, ActionAddInquiries, procurement, threeInquiries()); err != nil {
		t.Fatalf("add_inquiries after reject_with_edit: %v", err)
	}
	if len(doc.Inquiries) != 3 || doc.Inquiries[0].ID == "i1" {
		t.Error("resubmitted inquiries did not replace the previous set")
	}
}

func TestGoodsRequest_SelectionRequiresKnownInquiry(t *testing.T) {
	doc := newGoodsRequest()
	doc.Status = GoodsStatusPendingManagement
	doc.Inquiries = []entity.Inquiry{{ID: "i1"}, {ID: "i2"}, {ID: "i3"}}
	engine, _ := testEngine(GoodsRequestTable(), doc)

	_, err := engine.ApplyAction(context.Background(), doc.ID, ActionApproveInquiry, management,
		SelectInquiryPayload{InquiryID: "ghost"})
	if !errors.Is(err, workflow.ErrInvalidPayload) {
		t.Fatalf("error = %v, want ErrInvalidPayload", err)
	}
}

func TestGoodsRequest_CompletedIsTerminal(t *testing.T) {
	table := GoodsRequestTable()
	if got := table.PermittedActions(GoodsStatusCompleted); len(got) != 0 {
		t.Errorf("completed permits %v, want none", got)
	}
	if got := table.PermittedActions(GoodsStatusRejected); len(got) != 0 {
		t.Errorf("rejected permits %v, want none", got)
	}
}
