// Package repository contains the SQLite implementations of the
// application ports. Documents are stored one table per type with the full
// entity as a JSON payload next to the columns the queries need; writes go
// through optimistic version checks.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alirezakafim/pardis/internal/application/port"
	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
	"github.com/alirezakafim/pardis/internal/infrastructure/persistence/sqlite"
)

// versioned is what documentRepo needs beyond json round-tripping.
type versioned interface {
	workflow.Document
	SetVersion(int64)
}

// documentRepo is the shared table access for one document type.
type documentRepo[T any] struct {
	db     *sqlite.DB
	logger *zap.Logger
	table  string
}

func (r *documentRepo[T]) insert(ctx context.Context, doc versioned) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	ownerID, _ := doc.Owner()
	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_number, owner_id, status, version, data)
		VALUES (?, ?, ?, ?, 1, ?)
	`, r.table)

	_, err = r.db.Executor(ctx).ExecContext(ctx, query,
		doc.DocumentID(), doc.DocumentNumber(), ownerID, string(doc.CurrentStatus()), string(data))
	if err != nil {
		r.logger.Error("Failed to insert document",
			zap.String("table", r.table),
			zap.String("id", doc.DocumentID()),
			zap.Error(err))
		return fmt.Errorf("failed to insert into %s: %w", r.table, err)
	}

	doc.SetVersion(1)
	return nil
}

func (r *documentRepo[T]) findByID(ctx context.Context, id string) (*T, error) {
	query := fmt.Sprintf("SELECT data, version FROM %s WHERE id = ?", r.table)
	row := r.db.Executor(ctx).QueryRowContext(ctx, query, id)
	return r.scan(row.Scan)
}

func (r *documentRepo[T]) find(ctx context.Context, where string, args ...any) ([]*T, error) {
	query := fmt.Sprintf("SELECT data, version FROM %s %s ORDER BY created_at DESC", r.table, where)
	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.table, err)
	}
	defer rows.Close()

	var out []*T
	for rows.Next() {
		doc, err := r.scan(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *documentRepo[T]) scan(scan func(...any) error) (*T, error) {
	var data []byte
	var version int64
	if err := scan(&data, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, workflow.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan %s row: %w", r.table, err)
	}

	doc := new(T)
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s row: %w", r.table, err)
	}
	any(doc).(versioned).SetVersion(version)
	return doc, nil
}

// update writes the document back, guarded by the version loaded with it.
// A zero-row update against an existing row means someone else committed
// first.
func (r *documentRepo[T]) update(ctx context.Context, doc versioned) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET status = ?, data = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND version = ?
	`, r.table)

	result, err := r.db.Executor(ctx).ExecContext(ctx, query,
		string(doc.CurrentStatus()), string(data), doc.DocumentID(), doc.DocumentVersion())
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", r.table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		var exists int
		check := fmt.Sprintf("SELECT 1 FROM %s WHERE id = ?", r.table)
		if err := r.db.Executor(ctx).QueryRowContext(ctx, check, doc.DocumentID()).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return workflow.ErrNotFound
			}
			return fmt.Errorf("failed to check %s existence: %w", r.table, err)
		}
		return workflow.ErrConflict
	}

	doc.SetVersion(doc.DocumentVersion() + 1)
	return nil
}

func (r *documentRepo[T]) delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table)
	result, err := r.db.Executor(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", r.table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return workflow.ErrNotFound
	}
	return nil
}

// GoodsRequestRepository implements port.GoodsRequestRepository
type GoodsRequestRepository struct {
	base documentRepo[entity.GoodsRequest]
}

// NewGoodsRequestRepository creates a new goods request repository
func NewGoodsRequestRepository(db *sqlite.DB, logger *zap.Logger) *GoodsRequestRepository {
	return &GoodsRequestRepository{base: documentRepo[entity.GoodsRequest]{db: db, logger: logger, table: "goods_requests"}}
}

func (r *GoodsRequestRepository) Create(ctx context.Context, req *entity.GoodsRequest) error {
	return r.base.insert(ctx, req)
}

func (r *GoodsRequestRepository) FindByID(ctx context.Context, id string) (*entity.GoodsRequest, error) {
	return r.base.findByID(ctx, id)
}

func (r *GoodsRequestRepository) FindAll(ctx context.Context) ([]*entity.GoodsRequest, error) {
	return r.base.find(ctx, "")
}

func (r *GoodsRequestRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entity.GoodsRequest, error) {
	return r.base.find(ctx, "WHERE owner_id = ?", ownerID)
}

func (r *GoodsRequestRepository) Update(ctx context.Context, req *entity.GoodsRequest) error {
	return r.base.update(ctx, req)
}

func (r *GoodsRequestRepository) Delete(ctx context.Context, id string) error {
	return r.base.delete(ctx, id)
}

// ProjectProposalRepository implements port.ProjectProposalRepository
type ProjectProposalRepository struct {
	base documentRepo[entity.ProjectProposal]
}

// NewProjectProposalRepository creates a new project proposal repository
func NewProjectProposalRepository(db *sqlite.DB, logger *zap.Logger) *ProjectProposalRepository {
	return &ProjectProposalRepository{base: documentRepo[entity.ProjectProposal]{db: db, logger: logger, table: "project_proposals"}}
}

func (r *ProjectProposalRepository) Create(ctx context.Context, p *entity.ProjectProposal) error {
	return r.base.insert(ctx, p)
}

func (r *ProjectProposalRepository) FindByID(ctx context.Context, id string) (*entity.ProjectProposal, error) {
	return r.base.findByID(ctx, id)
}

func (r *ProjectProposalRepository) FindAll(ctx context.Context) ([]*entity.ProjectProposal, error) {
	return r.base.find(ctx, "")
}

func (r *ProjectProposalRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entity.ProjectProposal, error) {
	return r.base.find(ctx, "WHERE owner_id = ?", ownerID)
}

func (r *ProjectProposalRepository) Update(ctx context.Context, p *entity.ProjectProposal) error {
	return r.base.update(ctx, p)
}

func (r *ProjectProposalRepository) Delete(ctx context.Context, id string) error {
	return r.base.delete(ctx, id)
}

// PaymentRequestRepository implements port.PaymentRequestRepository
type PaymentRequestRepository struct {
	base documentRepo[entity.PaymentRequest]
}

// NewPaymentRequestRepository creates a new payment request repository
func NewPaymentRequestRepository(db *sqlite.DB, logger *zap.Logger) *PaymentRequestRepository {
	return &PaymentRequestRepository{base: documentRepo[entity.PaymentRequest]{db: db, logger: logger, table: "payment_requests"}}
}

func (r *PaymentRequestRepository) Create(ctx context.Context, p *entity.PaymentRequest) error {
	return r.base.insert(ctx, p)
}

func (r *PaymentRequestRepository) FindByID(ctx context.Context, id string) (*entity.PaymentRequest, error) {
	return r.base.findByID(ctx, id)
}

func (r *PaymentRequestRepository) FindAll(ctx context.Context) ([]*entity.PaymentRequest, error) {
	return r.base.find(ctx, "")
}

func (r *PaymentRequestRepository) FindByOwner(ctx context.Context, ownerID string) ([]*entity.PaymentRequest, error) {
	return r.base.find(ctx, "WHERE owner_id = ?", ownerID)
}

func (r *PaymentRequestRepository) Update(ctx context.Context, p *entity.PaymentRequest) error {
	return r.base.update(ctx, p)
}

func (r *PaymentRequestRepository) Delete(ctx context.Context, id string) error {
	return r.base.delete(ctx, id)
}

// Verify interface compliance
var (
	_ port.GoodsRequestRepository    = (*GoodsRequestRepository)(nil)
	_ port.ProjectProposalRepository = (*ProjectProposalRepository)(nil)
	_ port.PaymentRequestRepository  = (*PaymentRequestRepository)(nil)
)
