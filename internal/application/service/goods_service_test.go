package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	flows "github.com/alirezakafim/pardis/internal/application/workflow"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
	"github.com/alirezakafim/pardis/internal/sequence"
)

var (
	testRequester = workflow.Actor{ID: "req-1", DisplayName: "Req User", Roles: []workflow.Role{workflow.RoleRequester}}
	testOther     = workflow.Actor{ID: "req-2", DisplayName: "Other User", Roles: []workflow.Role{workflow.RoleRequester}}
	testProc      = workflow.Actor{ID: "proc-1", DisplayName: "Proc User", Roles: []workflow.Role{workflow.RoleProcurement}}
	testAdmin     = workflow.Actor{ID: "root", DisplayName: "Root", Roles: []workflow.Role{workflow.RoleAdmin}}
)

type goodsFixture struct {
	service       *GoodsService
	repo          *memGoodsRepo
	history       *memHistory
	notifications *memNotifications
	users         *memUsers
}

func newGoodsFixture() *goodsFixture {
	repo := newMemGoodsRepo()
	history := newMemHistory()
	notifications := &memNotifications{}
	users := newMemUsers()
	sequences := sequence.NewGenerator(newMemCounters(), "1404")
	svc := NewGoodsService(repo, history, notifications, users, memTx{}, sequences, zap.NewNop())
	return &goodsFixture{
		service:       svc,
		repo:          repo,
		history:       history,
		notifications: notifications,
		users:         users,
	}
}

func validGoodsInput() GoodsRequestInput {
	return GoodsRequestInput{ItemName: "cement", Quantity: 50, CostCenter: "cc-1"}
}

func TestGoodsService_Create(t *testing.T) {
	ctx := context.Background()
	fx := newGoodsFixture()

	req, err := fx.service.Create(ctx, testRequester, validGoodsInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if req.Number != "1404-1" {
		t.Errorf("number = %q, want 1404-1", req.Number)
	}
	if req.Status != workflow.StatusDraft {
		t.Errorf("status = %v, want draft", req.Status)
	}
	if len(req.History) != 1 || req.History[0].Action != flows.RecordCreated {
		t.Errorf("history = %+v, want single created entry", req.History)
	}

	ledger, err := fx.history.FindByDocument(ctx, "goods_request", req.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ledger) != 1 || ledger[0].Action != flows.RecordCreated {
		t.Errorf("persisted ledger = %+v, want single created entry", ledger)
	}

	second, err := fx.service.Create(ctx, testRequester, validGoodsInput())
	if err != nil {
		t.Fatal(err)
	}
	if second.Number != "1404-2" {
		t.Errorf("second number = %q, want 1404-2", second.Number)
	}
}

func TestGoodsService_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		input GoodsRequestInput
	}{
		{"missing item", GoodsRequestInput{Quantity: 5, CostCenter: "cc"}},
		{"zero quantity", GoodsRequestInput{ItemName: "x", CostCenter: "cc"}},
		{"missing cost center", GoodsRequestInput{ItemName: "x", Quantity: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newGoodsFixture()
			_, err := fx.service.Create(context.Background(), testRequester, tt.input)
			if !errors.Is(err, workflow.ErrInvalidPayload) {
				t.Fatalf("error = %v, want ErrInvalidPayload", err)
			}
		})
	}
}

func TestGoodsService_Visibility(t *testing.T) {
	ctx := context.Background()
	fx := newGoodsFixture()

	req, err := fx.service.Create(ctx, testRequester, validGoodsInput())
	if err != nil {
		t.Fatal(err)
	}

	// Owner, procurement and admin see it; another requester does not.
	for _, actor := range []workflow.Actor{testRequester, testProc, testAdmin} {
		if _, err := fx.service.Get(ctx, actor, req.ID); err != nil {
			t.Errorf("Get() as %s error = %v", actor.ID, err)
		}
	}
	if _, err := fx.service.Get(ctx, testOther, req.ID); !errors.Is(err, workflow.ErrForbidden) {
		t.Errorf("Get() as stranger error = %v, want ErrForbidden", err)
	}

	mine, err := fx.service.List(ctx, testOther)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 0 {
		t.Errorf("stranger list = %d documents, want 0", len(mine))
	}

	all, err := fx.service.List(ctx, testProc)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("procurement list = %d documents, want 1", len(all))
	}
}

func TestGoodsService_UpdateDraftGuards(t *testing.T) {
	ctx := context.Background()
	fx := newGoodsFixture()

	req, err := fx.service.Create(ctx, testRequester, validGoodsInput())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := fx.service.UpdateDraft(ctx, testOther, req.ID, validGoodsInput()); !errors.Is(err, workflow.ErrForbidden) {
		t.Errorf("UpdateDraft() by stranger error = %v, want ErrForbidden", err)
	}

	in := validGoodsInput()
	in.Quantity = 75
	updated, err := fx.service.UpdateDraft(ctx, testRequester, req.ID, in)
	if err != nil {
		t.Fatalf("UpdateDraft() error = %v", err)
	}
	if updated.Quantity != 75 {
		t.Errorf("quantity = %d, want 75", updated.Quantity)
	}

	if _, err := fx.service.Submit(ctx, testRequester, req.ID); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := fx.service.UpdateDraft(ctx, testRequester, req.ID, in); !errors.Is(err, workflow.ErrInvalidAction) {
		t.Errorf("UpdateDraft() after submit error = %v, want ErrInvalidAction", err)
	}
}

func TestGoodsService_SubmitNotifiesProcurement(t *testing.T) {
	ctx := context.Background()
	fx := newGoodsFixture()

	// One procurement user to fan out to.
	fx.users.users["proc-1"] = userWithRoles("proc-1", "proc", workflow.RoleProcurement)

	req, err := fx.service.Create(ctx, testRequester, validGoodsInput())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fx.service.Submit(ctx, testRequester, req.ID); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	rows, err := fx.notifications.FindByUser(ctx, "proc-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("procurement notifications = %d, want 1", len(rows))
	}
	if rows[0].DocumentNumber != req.Number {
		t.Errorf("notification number = %q, want %q", rows[0].DocumentNumber, req.Number)
	}
}

func TestGoodsService_AddReceiptIssuesNumber(t *testing.T) {
	ctx := context.Background()
	fx := newGoodsFixture()

	req, err := fx.service.Create(ctx, testRequester, validGoodsInput())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fx.service.Submit(ctx, testRequester, req.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := fx.service.AddInquiries(ctx, testProc, req.ID, flows.AddInquiriesPayload{
		Inquiries: []flows.InquiryInput{
			{UnitPrice: 10, Quantity: 50, TotalPrice: 500},
			{UnitPrice: 11, Quantity: 50, TotalPrice: 550},
			{UnitPrice: 12, Quantity: 50, TotalPrice: 600},
		},
	}); err != nil {
		t.Fatal(err)
	}
	mgmt := workflow.Actor{ID: "m1", Roles: []workflow.Role{workflow.RoleManagement}}
	loaded, err := fx.service.Get(ctx, mgmt, req.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fx.service.SelectInquiry(ctx, mgmt, req.ID, flows.SelectInquiryPayload{InquiryID: loaded.Inquiries[0].ID}); err != nil {
		t.Fatal(err)
	}

	updated, err := fx.service.AddReceipt(ctx, testProc, req.ID, AddReceiptInput{Quantity: 50, UnitPrice: 10, TotalPrice: 500})
	if err != nil {
		t.Fatalf("AddReceipt() error = %v", err)
	}
	if len(updated.Receipts) != 1 {
		t.Fatalf("receipts = %d, want 1", len(updated.Receipts))
	}
	if updated.Receipts[0].Number != "R-00001" {
		t.Errorf("receipt number = %q, want R-00001", updated.Receipts[0].Number)
	}
}

func TestGoodsService_DeleteDraftOnly(t *testing.T) {
	ctx := context.Background()
	fx := newGoodsFixture()

	req, err := fx.service.Create(ctx, testRequester, validGoodsInput())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fx.service.Submit(ctx, testRequester, req.ID); err != nil {
		t.Fatal(err)
	}
	if err := fx.service.DeleteDraft(ctx, testRequester, req.ID); !errors.Is(err, workflow.ErrInvalidAction) {
		t.Errorf("DeleteDraft() after submit error = %v, want ErrInvalidAction", err)
	}
}
