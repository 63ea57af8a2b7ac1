// Package port defines the persistence interfaces the application layer
// depends on. Implementations live in internal/infrastructure/persistence.
package port

import (
	"context"

	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// TransactionManager runs a function inside a database transaction.
// Repository calls made with the returned context join that transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// GoodsRequestRepository persists goods requests.
type GoodsRequestRepository interface {
	Create(ctx context.Context, req *entity.GoodsRequest) error
	FindByID(ctx context.Context, id string) (*entity.GoodsRequest, error)
	FindAll(ctx context.Context) ([]*entity.GoodsRequest, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*entity.GoodsRequest, error)
	// Update persists the document and bumps its version. It returns
	// workflow.ErrConflict when the stored version no longer matches.
	Update(ctx context.Context, req *entity.GoodsRequest) error
	Delete(ctx context.Context, id string) error
}

// ProjectProposalRepository persists project proposals.
type ProjectProposalRepository interface {
	Create(ctx context.Context, p *entity.ProjectProposal) error
	FindByID(ctx context.Context, id string) (*entity.ProjectProposal, error)
	FindAll(ctx context.Context) ([]*entity.ProjectProposal, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*entity.ProjectProposal, error)
	Update(ctx context.Context, p *entity.ProjectProposal) error
	Delete(ctx context.Context, id string) error
}

// PaymentRequestRepository persists payment requests.
type PaymentRequestRepository interface {
	Create(ctx context.Context, p *entity.PaymentRequest) error
	FindByID(ctx context.Context, id string) (*entity.PaymentRequest, error)
	FindAll(ctx context.Context) ([]*entity.PaymentRequest, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*entity.PaymentRequest, error)
	Update(ctx context.Context, p *entity.PaymentRequest) error
	Delete(ctx context.Context, id string) error
}

// HistoryRepository is the append-only audit ledger shared by all document
// types.
type HistoryRepository interface {
	Append(ctx context.Context, docType, docID string, entries []workflow.Entry) error
	FindByDocument(ctx context.Context, docType, docID string) ([]workflow.Entry, error)
}

// CounterRepository issues strictly increasing per-(type, year) counters.
// Next must be safe under concurrent callers; no value is ever issued twice.
type CounterRepository interface {
	Next(ctx context.Context, counterType, year string) (int64, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByRole(ctx context.Context, role workflow.Role) ([]*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
}

// NotificationRepository persists in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	FindByUser(ctx context.Context, userID string) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// CostCenterRepository persists cost centers.
type CostCenterRepository interface {
	Create(ctx context.Context, c *entity.CostCenter) error
	FindByID(ctx context.Context, id string) (*entity.CostCenter, error)
	FindAll(ctx context.Context) ([]*entity.CostCenter, error)
	Update(ctx context.Context, c *entity.CostCenter) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
