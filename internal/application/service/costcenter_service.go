package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alirezakafim/pardis/internal/application/port"
	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// defaultCostCenters seed an empty installation.
var defaultCostCenters = []entity.CostCenter{
	{Name: "اداری", NameEN: "Administration"},
	{Name: "تولید", NameEN: "Production"},
	{Name: "پروژه", NameEN: "Project"},
	{Name: "فروش", NameEN: "Sales"},
}

// CostCenterService owns the cost center list. Reads are open to every
// authenticated user; writes are admin only.
type CostCenterService struct {
	centers port.CostCenterRepository
	logger  *zap.Logger
}

// NewCostCenterService creates a cost center service.
func NewCostCenterService(centers port.CostCenterRepository, logger *zap.Logger) *CostCenterService {
	return &CostCenterService{
		centers: centers,
		logger:  logger,
	}
}

// List returns all cost centers.
func (s *CostCenterService) List(ctx context.Context) ([]*entity.CostCenter, error) {
	return s.centers.FindAll(ctx)
}

// Create adds a cost center; admin only.
func (s *CostCenterService) Create(ctx context.Context, actor workflow.Actor, name, nameEN string) (*entity.CostCenter, error) {
	if !actor.IsAdmin() {
		return nil, workflow.ErrForbidden
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", workflow.ErrInvalidPayload)
	}

	c := &entity.CostCenter{ID: uuid.NewString(), Name: name, NameEN: nameEN}
	if err := s.centers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update renames a cost center; admin only.
func (s *CostCenterService) Update(ctx context.Context, actor workflow.Actor, id, name, nameEN string) (*entity.CostCenter, error) {
	if !actor.IsAdmin() {
		return nil, workflow.ErrForbidden
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", workflow.ErrInvalidPayload)
	}

	c, err := s.centers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.NameEN = nameEN
	if err := s.centers.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a cost center; admin only.
func (s *CostCenterService) Delete(ctx context.Context, actor workflow.Actor, id string) error {
	if !actor.IsAdmin() {
		return workflow.ErrForbidden
	}
	return s.centers.Delete(ctx, id)
}

// Seed inserts the default cost centers into an empty table.
func (s *CostCenterService) Seed(ctx context.Context) error {
	count, err := s.centers.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, c := range defaultCostCenters {
		c.ID = uuid.NewString()
		if err := s.centers.Create(ctx, &c); err != nil {
			return err
		}
	}
	s.logger.Info("seeded default cost centers", zap.Int("count", len(defaultCostCenters)))
	return nil
}
