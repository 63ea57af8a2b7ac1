package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alirezakafim/pardis/internal/application/port"
	flows "github.com/alirezakafim/pardis/internal/application/workflow"
	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
	"github.com/alirezakafim/pardis/internal/sequence"
)

const goodsDocType = "goods_request"

// goodsReviewers are the roles that see every goods request; everyone else
// sees only their own.
var goodsReviewers = []workflow.Role{
	workflow.RoleProcurement,
	workflow.RoleManagement,
	workflow.RoleFinancial,
}

// GoodsRequestInput carries the requester-editable fields.
type GoodsRequestInput struct {
	ItemName    string `json:"item_name"`
	Quantity    int    `json:"quantity"`
	CostCenter  string `json:"cost_center"`
	NeedDate    string `json:"need_date"`
	ImageBase64 string `json:"image_base64"`
	Description string `json:"description"`
}

func (in GoodsRequestInput) validate() error {
	if in.ItemName == "" {
		return fmt.Errorf("%w: item name is required", workflow.ErrInvalidPayload)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", workflow.ErrInvalidPayload)
	}
	if in.CostCenter == "" {
		return fmt.Errorf("%w: cost center is required", workflow.ErrInvalidPayload)
	}
	return nil
}

// AddReceiptInput carries one delivery; the receipt number is issued here,
// not supplied by the caller.
type AddReceiptInput struct {
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// GoodsService owns the goods request lifecycle.
type GoodsService struct {
	engine    *workflow.Engine
	repo      port.GoodsRequestRepository
	history   port.HistoryRepository
	tx        port.TransactionManager
	sequences *sequence.Generator
	logger    *zap.Logger
}

// NewGoodsService wires the goods request engine and service.
func NewGoodsService(
	repo port.GoodsRequestRepository,
	history port.HistoryRepository,
	notifications port.NotificationRepository,
	users port.UserRepository,
	tx port.TransactionManager,
	sequences *sequence.Generator,
	logger *zap.Logger,
) *GoodsService {
	store := &documentStore{
		docType: goodsDocType,
		tx:      tx,
		history: history,
		load: func(ctx context.Context, id string) (workflow.Document, error) {
			doc, err := repo.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return doc, nil
		},
		save: func(ctx context.Context, doc workflow.Document) error {
			return repo.Update(ctx, doc.(*entity.GoodsRequest))
		},
	}
	engine := workflow.NewEngine(flows.GoodsRequestTable(), store,
		&repoNotifier{notifications: notifications}, &userDirectory{users: users}, logger)

	return &GoodsService{
		engine:    engine,
		repo:      repo,
		history:   history,
		tx:        tx,
		sequences: sequences,
		logger:    logger,
	}
}

// Create registers a new draft goods request.
func (s *GoodsService) Create(ctx context.Context, actor workflow.Actor, in GoodsRequestInput) (*entity.GoodsRequest, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	number, err := s.sequences.GoodsRequestNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	req := &entity.GoodsRequest{
		WorkflowDocument: entity.NewWorkflowDocument(uuid.NewString(), number, actor.ID, actor.DisplayName, now),
		ItemName:         in.ItemName,
		Quantity:         in.Quantity,
		CostCenter:       in.CostCenter,
		NeedDate:         in.NeedDate,
		ImageBase64:      in.ImageBase64,
		Description:      in.Description,
	}

	entry := workflow.Entry{
		Action:    flows.RecordCreated,
		ActorID:   actor.ID,
		ActorName: actor.DisplayName,
		Timestamp: now,
	}
	req.AppendEntry(entry)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, req); err != nil {
			return err
		}
		return s.history.Append(ctx, goodsDocType, req.ID, []workflow.Entry{entry})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("goods request created",
		zap.String("id", req.ID),
		zap.String("number", req.Number),
		zap.String("owner", actor.ID))
	return req, nil
}

// Get returns one goods request if the actor may see it.
func (s *GoodsService) Get(ctx context.Context, actor workflow.Actor, id string) (*entity.GoodsRequest, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, req.OwnerID, goodsReviewers) {
		return nil, workflow.ErrForbidden
	}
	return req, nil
}

// List returns the goods requests visible to the actor.
func (s *GoodsService) List(ctx context.Context, actor workflow.Actor) ([]*entity.GoodsRequest, error) {
	if actor.IsAdmin() || actor.Authorized(goodsReviewers) {
		return s.repo.FindAll(ctx)
	}
	return s.repo.FindByOwner(ctx, actor.ID)
}

// UpdateDraft replaces the requester-editable fields while the document is
// still a draft.
func (s *GoodsService) UpdateDraft(ctx context.Context, actor workflow.Actor, id string, in GoodsRequestInput) (*entity.GoodsRequest, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != req.OwnerID {
		return nil, workflow.ErrForbidden
	}
	if req.Status != workflow.StatusDraft {
		return nil, fmt.Errorf("%w: only drafts can be edited", workflow.ErrInvalidAction)
	}

	req.ItemName = in.ItemName
	req.Quantity = in.Quantity
	req.CostCenter = in.CostCenter
	req.NeedDate = in.NeedDate
	req.ImageBase64 = in.ImageBase64
	req.Description = in.Description
	req.Touch(time.Now().UTC())

	if err := s.repo.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// DeleteDraft removes a draft goods request.
func (s *GoodsService) DeleteDraft(ctx context.Context, actor workflow.Actor, id string) error {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && actor.ID != req.OwnerID {
		return workflow.ErrForbidden
	}
	if req.Status != workflow.StatusDraft {
		return fmt.Errorf("%w: only drafts can be deleted", workflow.ErrInvalidAction)
	}
	return s.repo.Delete(ctx, id)
}

// Submit moves a draft into the procurement queue.
func (s *GoodsService) Submit(ctx context.Context, actor workflow.Actor, id string) (*entity.GoodsRequest, error) {
	return s.apply(ctx, id, flows.ActionSubmit, actor, nil)
}

// AddInquiries attaches procurement's price inquiries.
func (s *GoodsService) AddInquiries(ctx context.Context, actor workflow.Actor, id string, payload flows.AddInquiriesPayload) (*entity.GoodsRequest, error) {
	return s.apply(ctx, id, flows.ActionAddInquiries, actor, payload)
}

// SelectInquiry records management's winning inquiry and approves purchase.
func (s *GoodsService) SelectInquiry(ctx context.Context, actor workflow.Actor, id string, payload flows.SelectInquiryPayload) (*entity.GoodsRequest, error) {
	return s.apply(ctx, id, flows.ActionApproveInquiry, actor, payload)
}

// RejectWithEdit sends the request back to procurement for new inquiries.
func (s *GoodsService) RejectWithEdit(ctx context.Context, actor workflow.Actor, id, notes string) (*entity.GoodsRequest, error) {
	return s.apply(ctx, id, flows.ActionRejectWithEdit, actor, flows.NotesPayload{Notes: notes})
}

// RejectComplete terminally rejects the request.
func (s *GoodsService) RejectComplete(ctx context.Context, actor workflow.Actor, id, notes string) (*entity.GoodsRequest, error) {
	return s.apply(ctx, id, flows.ActionRejectComplete, actor, flows.NotesPayload{Notes: notes})
}

// AddReceipt issues a receipt number and records the delivery.
func (s *GoodsService) AddReceipt(ctx context.Context, actor workflow.Actor, id string, in AddReceiptInput) (*entity.GoodsRequest, error) {
	number, err := s.sequences.ReceiptNumber(ctx)
	if err != nil {
		return nil, err
	}
	payload := flows.AddReceiptPayload{
		Number:     number,
		Quantity:   in.Quantity,
		UnitPrice:  in.UnitPrice,
		TotalPrice: in.TotalPrice,
	}
	return s.apply(ctx, id, flows.ActionAddReceipt, actor, payload)
}

// ConfirmReceiptProcurement records procurement's side of a receipt.
func (s *GoodsService) ConfirmReceiptProcurement(ctx context.Context, actor workflow.Actor, id string, payload flows.ConfirmReceiptPayload) (*entity.GoodsRequest, error) {
	return s.apply(ctx, id, flows.ActionConfirmReceiptProcurement, actor, payload)
}

// ConfirmReceiptRequester records the requester's side of a receipt.
func (s *GoodsService) ConfirmReceiptRequester(ctx context.Context, actor workflow.Actor, id string, payload flows.ConfirmReceiptPayload) (*entity.GoodsRequest, error) {
	return s.apply(ctx, id, flows.ActionConfirmReceiptRequester, actor, payload)
}

// UploadInvoice attaches the purchase invoice.
func (s *GoodsService) UploadInvoice(ctx context.Context, actor workflow.Actor, id, invoiceBase64 string) (*entity.GoodsRequest, error) {
	return s.apply(ctx, id, flows.ActionUploadInvoice, actor, flows.UploadInvoicePayload{InvoiceBase64: invoiceBase64})
}

// ApproveFinancial completes the request.
func (s *GoodsService) ApproveFinancial(ctx context.Context, actor workflow.Actor, id, notes string) (*entity.GoodsRequest, error) {
	return s.apply(ctx, id, flows.ActionApproveFinancial, actor, flows.NotesPayload{Notes: notes})
}

// Reject walks the request one stage backwards.
func (s *GoodsService) Reject(ctx context.Context, actor workflow.Actor, id, notes string) (*entity.GoodsRequest, error) {
	return s.apply(ctx, id, flows.ActionReject, actor, flows.NotesPayload{Notes: notes})
}

// History returns the audit ledger for a request the actor may see.
func (s *GoodsService) History(ctx context.Context, actor workflow.Actor, id string) ([]workflow.Entry, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.history.FindByDocument(ctx, goodsDocType, id)
}

func (s *GoodsService) apply(ctx context.Context, id string, action workflow.Action, actor workflow.Actor, payload any) (*entity.GoodsRequest, error) {
	doc, err := s.engine.ApplyAction(ctx, id, action, actor, payload)
	if err != nil {
		return nil, err
	}
	return doc.(*entity.GoodsRequest), nil
}

// canView implements the shared visibility rule: admins and reviewers see
// everything, everyone else sees their own documents.
func canView(actor workflow.Actor, ownerID string, reviewers []workflow.Role) bool {
	return actor.IsAdmin() || actor.ID == ownerID || actor.Authorized(reviewers)
}
