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

const paymentDocType = "payment_request"

var paymentReviewers = []workflow.Role{
	workflow.RoleFinancial,
	workflow.RoleDevManager,
}

// PaymentRowInput is one requested payment line.
type PaymentRowInput struct {
	Amount                float64 `json:"amount"`
	InvoiceContractNumber string  `json:"invoice_contract_number"`
	Reason                string  `json:"reason"`
	CostCenter            string  `json:"cost_center"`
	AccountNumber         string  `json:"account_number"`
	BankName              string  `json:"bank_name"`
	AccountHolderName     string  `json:"account_holder_name"`
	Notes                 string  `json:"notes"`
}

// PaymentRequestInput carries the requester-editable fields.
type PaymentRequestInput struct {
	RequestType      string            `json:"request_type"`
	RequestTypeOther string            `json:"request_type_other"`
	Rows             []PaymentRowInput `json:"payment_rows"`
	AttachmentBase64 string            `json:"attachment_base64"`
}

func (in PaymentRequestInput) validate() error {
	switch entity.RequestType(in.RequestType) {
	case entity.RequestTypePurchase, entity.RequestTypeProject,
		entity.RequestTypePettyCash, entity.RequestTypeSalary:
	case entity.RequestTypeOther:
		if in.RequestTypeOther == "" {
			return fmt.Errorf("%w: request type description is required", workflow.ErrInvalidPayload)
		}
	default:
		return fmt.Errorf("%w: unknown request type %q", workflow.ErrInvalidPayload, in.RequestType)
	}
	if len(in.Rows) == 0 {
		return fmt.Errorf("%w: at least one payment row is required", workflow.ErrInvalidPayload)
	}
	for i, row := range in.Rows {
		if row.Amount <= 0 {
			return fmt.Errorf("%w: row %d amount must be positive", workflow.ErrInvalidPayload, i+1)
		}
		switch entity.PaymentReason(row.Reason) {
		case entity.PaymentReasonPrepayment, entity.PaymentReasonSettlement:
		default:
			return fmt.Errorf("%w: row %d has unknown reason %q", workflow.ErrInvalidPayload, i+1, row.Reason)
		}
	}
	return nil
}

func (in PaymentRequestInput) rows() ([]entity.PaymentRow, float64) {
	rows := make([]entity.PaymentRow, 0, len(in.Rows))
	var total float64
	for _, r := range in.Rows {
		rows = append(rows, entity.PaymentRow{
			ID:                    uuid.NewString(),
			Amount:                r.Amount,
			InvoiceContractNumber: r.InvoiceContractNumber,
			Reason:                entity.PaymentReason(r.Reason),
			CostCenter:            r.CostCenter,
			AccountNumber:         r.AccountNumber,
			BankName:              r.BankName,
			AccountHolderName:     r.AccountHolderName,
			Notes:                 r.Notes,
		})
		total += r.Amount
	}
	return rows, total
}

// PaymentService owns the payment request lifecycle.
type PaymentService struct {
	engine    *workflow.Engine
	repo      port.PaymentRequestRepository
	history   port.HistoryRepository
	tx        port.TransactionManager
	sequences *sequence.Generator
	logger    *zap.Logger
}

// NewPaymentService wires the payment request engine and service.
func NewPaymentService(
	repo port.PaymentRequestRepository,
	history port.HistoryRepository,
	notifications port.NotificationRepository,
	users port.UserRepository,
	tx port.TransactionManager,
	sequences *sequence.Generator,
	logger *zap.Logger,
) *PaymentService {
	store := &documentStore{
		docType: paymentDocType,
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
			return repo.Update(ctx, doc.(*entity.PaymentRequest))
		},
	}
	engine := workflow.NewEngine(flows.PaymentRequestTable(), store,
		&repoNotifier{notifications: notifications}, &userDirectory{users: users}, logger)

	return &PaymentService{
		engine:    engine,
		repo:      repo,
		history:   history,
		tx:        tx,
		sequences: sequences,
		logger:    logger,
	}
}

// Create registers a new draft payment request.
func (s *PaymentService) Create(ctx context.Context, actor workflow.Actor, in PaymentRequestInput) (*entity.PaymentRequest, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	number, err := s.sequences.PaymentNumber(ctx)
	if err != nil {
		return nil, err
	}

	rows, total := in.rows()
	now := time.Now().UTC()
	p := &entity.PaymentRequest{
		WorkflowDocument: entity.NewWorkflowDocument(uuid.NewString(), number, actor.ID, actor.DisplayName, now),
		RequestType:      entity.RequestType(in.RequestType),
		RequestTypeOther: in.RequestTypeOther,
		TotalAmount:      total,
		Rows:             rows,
		AttachmentBase64: in.AttachmentBase64,
	}

	entry := workflow.Entry{
		Action:    flows.RecordCreated,
		ActorID:   actor.ID,
		ActorName: actor.DisplayName,
		Timestamp: now,
	}
	p.AppendEntry(entry)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		return s.history.Append(ctx, paymentDocType, p.ID, []workflow.Entry{entry})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment request created",
		zap.String("id", p.ID),
		zap.String("number", p.Number),
		zap.Float64("total", total),
		zap.String("owner", actor.ID))
	return p, nil
}

// Get returns one payment request if the actor may see it.
func (s *PaymentService) Get(ctx context.Context, actor workflow.Actor, id string) (*entity.PaymentRequest, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, p.OwnerID, paymentReviewers) {
		return nil, workflow.ErrForbidden
	}
	return p, nil
}

// List returns the payment requests visible to the actor.
func (s *PaymentService) List(ctx context.Context, actor workflow.Actor) ([]*entity.PaymentRequest, error) {
	if actor.IsAdmin() || actor.Authorized(paymentReviewers) {
		return s.repo.FindAll(ctx)
	}
	return s.repo.FindByOwner(ctx, actor.ID)
}

// UpdateDraft replaces the requester-editable fields of a draft.
func (s *PaymentService) UpdateDraft(ctx context.Context, actor workflow.Actor, id string, in PaymentRequestInput) (*entity.PaymentRequest, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != p.OwnerID {
		return nil, workflow.ErrForbidden
	}
	if p.Status != workflow.StatusDraft {
		return nil, fmt.Errorf("%w: only drafts can be edited", workflow.ErrInvalidAction)
	}

	rows, total := in.rows()
	p.RequestType = entity.RequestType(in.RequestType)
	p.RequestTypeOther = in.RequestTypeOther
	p.Rows = rows
	p.TotalAmount = total
	p.AttachmentBase64 = in.AttachmentBase64
	p.Touch(time.Now().UTC())

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteDraft removes a draft payment request.
func (s *PaymentService) DeleteDraft(ctx context.Context, actor workflow.Actor, id string) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && actor.ID != p.OwnerID {
		return workflow.ErrForbidden
	}
	if p.Status != workflow.StatusDraft {
		return fmt.Errorf("%w: only drafts can be deleted", workflow.ErrInvalidAction)
	}
	return s.repo.Delete(ctx, id)
}

// Submit moves a draft into the financial queue.
func (s *PaymentService) Submit(ctx context.Context, actor workflow.Actor, id string) (*entity.PaymentRequest, error) {
	return s.apply(ctx, id, flows.ActionSubmit, actor, nil)
}

// SetPaymentTypes records financial's per-row payment methods.
func (s *PaymentService) SetPaymentTypes(ctx context.Context, actor workflow.Actor, id string, payload flows.SetPaymentTypesPayload) (*entity.PaymentRequest, error) {
	return s.apply(ctx, id, flows.ActionSetPaymentTypes, actor, payload)
}

// Approve records the development manager's approval.
func (s *PaymentService) Approve(ctx context.Context, actor workflow.Actor, id, notes string) (*entity.PaymentRequest, error) {
	return s.apply(ctx, id, flows.ActionApprove, actor, flows.NotesPayload{Notes: notes})
}

// Reject terminally rejects the payment request.
func (s *PaymentService) Reject(ctx context.Context, actor workflow.Actor, id, notes string) (*entity.PaymentRequest, error) {
	return s.apply(ctx, id, flows.ActionReject, actor, flows.NotesPayload{Notes: notes})
}

// ProcessPayment records the payout and completes the request.
func (s *PaymentService) ProcessPayment(ctx context.Context, actor workflow.Actor, id string, payload flows.ProcessPaymentPayload) (*entity.PaymentRequest, error) {
	return s.apply(ctx, id, flows.ActionProcessPayment, actor, payload)
}

// History returns the audit ledger for a request the actor may see.
func (s *PaymentService) History(ctx context.Context, actor workflow.Actor, id string) ([]workflow.Entry, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.history.FindByDocument(ctx, paymentDocType, id)
}

func (s *PaymentService) apply(ctx context.Context, id string, action workflow.Action, actor workflow.Actor, payload any) (*entity.PaymentRequest, error) {
	doc, err := s.engine.ApplyAction(ctx, id, action, actor, payload)
	if err != nil {
		return nil, err
	}
	return doc.(*entity.PaymentRequest), nil
}
