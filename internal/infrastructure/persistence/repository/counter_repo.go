package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alirezakafim/pardis/internal/application/port"
	"github.com/alirezakafim/pardis/internal/infrastructure/persistence/sqlite"
)

// CounterRepository implements port.CounterRepository. The upsert keeps
// the read-modify-write inside one statement, so concurrent callers never
// observe the same value and sequences stay gap-free.
type CounterRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewCounterRepository creates a new counter repository
func NewCounterRepository(db *sqlite.DB, logger *zap.Logger) *CounterRepository {
	return &CounterRepository{
		db:     db,
		logger: logger,
	}
}

// Next atomically increments and returns the counter for (type, year)
func (r *CounterRepository) Next(ctx context.Context, counterType, year string) (int64, error) {
	query := `
		INSERT INTO counters (type, year, counter) VALUES (?, ?, 1)
		ON CONFLICT(type, year) DO UPDATE SET counter = counter + 1
		RETURNING counter
	`

	var value int64
	err := r.db.Executor(ctx).QueryRowContext(ctx, query, counterType, year).Scan(&value)
	if err != nil {
		r.logger.Error("Failed to advance counter",
			zap.String("type", counterType),
			zap.String("year", year),
			zap.Error(err))
		return 0, fmt.Errorf("failed to advance counter %s/%s: %w", counterType, year, err)
	}
	return value, nil
}

// Verify interface compliance
var _ port.CounterRepository = (*CounterRepository)(nil)
