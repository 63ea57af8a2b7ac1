// Package service wires the workflow engine to persistence and exposes
// one application service per document type, plus users, notifications,
// cost centers and reports.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alirezakafim/pardis/internal/application/port"
	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// documentStore adapts a typed repository plus the history ledger to the
// engine's Store port. Save commits the document update and the new ledger
// rows in one transaction.
type documentStore struct {
	docType string
	tx      port.TransactionManager
	history port.HistoryRepository
	load    func(ctx context.Context, id string) (workflow.Document, error)
	save    func(ctx context.Context, doc workflow.Document) error
}

func (s *documentStore) Load(ctx context.Context, id string) (workflow.Document, error) {
	return s.load(ctx, id)
}

func (s *documentStore) Save(ctx context.Context, doc workflow.Document, entries []workflow.Entry) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.save(ctx, doc); err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return s.history.Append(ctx, s.docType, doc.DocumentID(), entries)
	})
}

var _ workflow.Store = (*documentStore)(nil)

// repoNotifier persists engine notifications as in-app notification rows.
type repoNotifier struct {
	notifications port.NotificationRepository
}

func (n *repoNotifier) Send(ctx context.Context, msg workflow.Notification) error {
	return n.notifications.Create(ctx, &entity.Notification{
		ID:             uuid.NewString(),
		UserID:         msg.UserID,
		DocumentID:     msg.DocumentID,
		DocumentNumber: msg.DocumentNumber,
		Message:        msg.Message,
		CreatedAt:      time.Now().UTC(),
	})
}

var _ workflow.Notifier = (*repoNotifier)(nil)

// userDirectory resolves role fan-out against the user repository.
type userDirectory struct {
	users port.UserRepository
}

func (d *userDirectory) FindByRole(ctx context.Context, role workflow.Role) ([]workflow.Recipient, error) {
	users, err := d.users.FindByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	recipients := make([]workflow.Recipient, 0, len(users))
	for _, u := range users {
		recipients = append(recipients, workflow.Recipient{ID: u.ID, Name: u.FullName})
	}
	return recipients, nil
}

var _ workflow.Directory = (*userDirectory)(nil)
