package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/alirezakafim/pardis/internal/application/port"
	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
	"github.com/alirezakafim/pardis/internal/infrastructure/persistence/sqlite"
)

// CostCenterRepository implements port.CostCenterRepository
type CostCenterRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewCostCenterRepository creates a new cost center repository
func NewCostCenterRepository(db *sqlite.DB, logger *zap.Logger) *CostCenterRepository {
	return &CostCenterRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new cost center
func (r *CostCenterRepository) Create(ctx context.Context, c *entity.CostCenter) error {
	_, err := r.db.Executor(ctx).ExecContext(ctx,
		"INSERT INTO cost_centers (id, name, name_en) VALUES (?, ?, ?)",
		c.ID, c.Name, c.NameEN)
	if err != nil {
		r.logger.Error("Failed to create cost center", zap.String("name", c.Name), zap.Error(err))
		return fmt.Errorf("failed to create cost center: %w", err)
	}
	return nil
}

// FindByID retrieves a cost center by id
func (r *CostCenterRepository) FindByID(ctx context.Context, id string) (*entity.CostCenter, error) {
	var c entity.CostCenter
	err := r.db.Executor(ctx).QueryRowContext(ctx,
		"SELECT id, name, name_en FROM cost_centers WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &c.NameEN)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, workflow.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cost center: %w", err)
	}
	return &c, nil
}

// FindAll retrieves all cost centers
func (r *CostCenterRepository) FindAll(ctx context.Context) ([]*entity.CostCenter, error) {
	rows, err := r.db.Executor(ctx).QueryContext(ctx,
		"SELECT id, name, name_en FROM cost_centers ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query cost centers: %w", err)
	}
	defer rows.Close()

	var centers []*entity.CostCenter
	for rows.Next() {
		var c entity.CostCenter
		if err := rows.Scan(&c.ID, &c.Name, &c.NameEN); err != nil {
			return nil, fmt.Errorf("failed to scan cost center: %w", err)
		}
		centers = append(centers, &c)
	}
	return centers, rows.Err()
}

// Update persists changes to a cost center
func (r *CostCenterRepository) Update(ctx context.Context, c *entity.CostCenter) error {
	result, err := r.db.Executor(ctx).ExecContext(ctx,
		"UPDATE cost_centers SET name = ?, name_en = ? WHERE id = ?",
		c.Name, c.NameEN, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update cost center: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return workflow.ErrNotFound
	}
	return nil
}

// Delete removes a cost center
func (r *CostCenterRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Executor(ctx).ExecContext(ctx,
		"DELETE FROM cost_centers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete cost center: %w", err)
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

// Count returns the number of cost centers
func (r *CostCenterRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.Executor(ctx).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cost_centers").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cost centers: %w", err)
	}
	return count, nil
}

// Verify interface compliance
var _ port.CostCenterRepository = (*CostCenterRepository)(nil)
