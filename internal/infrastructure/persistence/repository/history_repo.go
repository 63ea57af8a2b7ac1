package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alirezakafim/pardis/internal/application/port"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
	"github.com/alirezakafim/pardis/internal/infrastructure/persistence/sqlite"
)

// HistoryRepository implements port.HistoryRepository. The table is
// append-only; nothing in the codebase updates or deletes rows.
type HistoryRepository struct {
	db     *sqlite.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sqlite.DB, logger *zap.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Append writes ledger entries for one document
func (r *HistoryRepository) Append(ctx context.Context, docType, docID string, entries []workflow.Entry) error {
	query := `
		INSERT INTO history_entries (
			doc_type, doc_id, action, actor_id, actor_name,
			notes, from_status, to_status, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, e := range entries {
		_, err := r.db.Executor(ctx).ExecContext(ctx, query,
			docType,
			docID,
			string(e.Action),
			e.ActorID,
			e.ActorName,
			e.Notes,
			string(e.FromStatus),
			string(e.ToStatus),
			e.Timestamp,
		)
		if err != nil {
			r.logger.Error("Failed to append history entry",
				zap.String("doc_id", docID),
				zap.Error(err))
			return fmt.Errorf("failed to append history: %w", err)
		}
	}
	return nil
}

// FindByDocument retrieves the ledger for one document in append order
func (r *HistoryRepository) FindByDocument(ctx context.Context, docType, docID string) ([]workflow.Entry, error) {
	query := `
		SELECT action, actor_id, actor_name, notes, from_status, to_status, timestamp
		FROM history_entries
		WHERE doc_type = ? AND doc_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, docType, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []workflow.Entry
	for rows.Next() {
		var e workflow.Entry
		var action, from, to string
		if err := rows.Scan(&action, &e.ActorID, &e.ActorName, &e.Notes, &from, &to, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Action = workflow.Action(action)
		e.FromStatus = workflow.Status(from)
		e.ToStatus = workflow.Status(to)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Verify interface compliance
var _ port.HistoryRepository = (*HistoryRepository)(nil)
