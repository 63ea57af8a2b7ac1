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

const proposalDocType = "project_proposal"

var proposalReviewers = []workflow.Role{
	workflow.RoleCOO,
	workflow.RoleDevManager,
	workflow.RoleProjectControl,
}

// ProposalInput carries the proposer-editable fields.
type ProposalInput struct {
	Title       string   `json:"title"`
	Objective   string   `json:"objective"`
	ProjectType string   `json:"project_type"`
	Description string   `json:"description"`
	Documents   []string `json:"documents"`
}

func (in ProposalInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", workflow.ErrInvalidPayload)
	}
	if in.Objective == "" {
		return fmt.Errorf("%w: objective is required", workflow.ErrInvalidPayload)
	}
	if !entity.ProjectType(in.ProjectType).IsValid() {
		return fmt.Errorf("%w: unknown project type %q", workflow.ErrInvalidPayload, in.ProjectType)
	}
	return nil
}

// ProposalService owns the project proposal lifecycle.
type ProposalService struct {
	engine    *workflow.Engine
	repo      port.ProjectProposalRepository
	history   port.HistoryRepository
	tx        port.TransactionManager
	sequences *sequence.Generator
	logger    *zap.Logger
}

// NewProposalService wires the proposal engine and service.
func NewProposalService(
	repo port.ProjectProposalRepository,
	history port.HistoryRepository,
	notifications port.NotificationRepository,
	users port.UserRepository,
	tx port.TransactionManager,
	sequences *sequence.Generator,
	logger *zap.Logger,
) *ProposalService {
	store := &documentStore{
		docType: proposalDocType,
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
			return repo.Update(ctx, doc.(*entity.ProjectProposal))
		},
	}
	engine := workflow.NewEngine(flows.ProjectProposalTable(), store,
		&repoNotifier{notifications: notifications}, &userDirectory{users: users}, logger)

	return &ProposalService{
		engine:    engine,
		repo:      repo,
		history:   history,
		tx:        tx,
		sequences: sequences,
		logger:    logger,
	}
}

// Create registers a new draft proposal.
func (s *ProposalService) Create(ctx context.Context, actor workflow.Actor, in ProposalInput) (*entity.ProjectProposal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	number, err := s.sequences.ProposalNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &entity.ProjectProposal{
		WorkflowDocument: entity.NewWorkflowDocument(uuid.NewString(), number, actor.ID, actor.DisplayName, now),
		Title:            in.Title,
		Objective:        in.Objective,
		ProjectType:      entity.ProjectType(in.ProjectType),
		Description:      in.Description,
		Documents:        in.Documents,
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
		return s.history.Append(ctx, proposalDocType, p.ID, []workflow.Entry{entry})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project proposal created",
		zap.String("id", p.ID),
		zap.String("number", p.Number),
		zap.String("owner", actor.ID))
	return p, nil
}

// Get returns one proposal if the actor may see it.
func (s *ProposalService) Get(ctx context.Context, actor workflow.Actor, id string) (*entity.ProjectProposal, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, p.OwnerID, proposalReviewers) {
		return nil, workflow.ErrForbidden
	}
	return p, nil
}

// List returns the proposals visible to the actor.
func (s *ProposalService) List(ctx context.Context, actor workflow.Actor) ([]*entity.ProjectProposal, error) {
	if actor.IsAdmin() || actor.Authorized(proposalReviewers) {
		return s.repo.FindAll(ctx)
	}
	return s.repo.FindByOwner(ctx, actor.ID)
}

// UpdateDraft replaces the proposer-editable fields of a draft.
func (s *ProposalService) UpdateDraft(ctx context.Context, actor workflow.Actor, id string, in ProposalInput) (*entity.ProjectProposal, error) {
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

	p.Title = in.Title
	p.Objective = in.Objective
	p.ProjectType = entity.ProjectType(in.ProjectType)
	p.Description = in.Description
	p.Documents = in.Documents
	p.Touch(time.Now().UTC())

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteDraft removes a draft proposal.
func (s *ProposalService) DeleteDraft(ctx context.Context, actor workflow.Actor, id string) error {
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

// Submit moves a draft into COO review.
func (s *ProposalService) Submit(ctx context.Context, actor workflow.Actor, id string) (*entity.ProjectProposal, error) {
	return s.apply(ctx, id, flows.ActionSubmit, actor, nil)
}

// COOReview records the COO's alignment verdict.
func (s *ProposalService) COOReview(ctx context.Context, actor workflow.Actor, id string, aligned bool, notes string) (*entity.ProjectProposal, error) {
	action := flows.ActionCOOApprove
	if !aligned {
		action = flows.ActionCOOReject
	}
	return s.apply(ctx, id, action, actor, flows.COOReviewPayload{Notes: notes})
}

// AssignManager records the feasibility manager assignment.
func (s *ProposalService) AssignManager(ctx context.Context, actor workflow.Actor, id string, payload flows.AssignManagerPayload) (*entity.ProjectProposal, error) {
	return s.apply(ctx, id, flows.ActionAssignManager, actor, payload)
}

// RegisterProject registers the proposal as a formal project.
func (s *ProposalService) RegisterProject(ctx context.Context, actor workflow.Actor, id string, payload flows.RegisterProjectPayload) (*entity.ProjectProposal, error) {
	return s.apply(ctx, id, flows.ActionRegisterProject, actor, payload)
}

// History returns the audit ledger for a proposal the actor may see.
func (s *ProposalService) History(ctx context.Context, actor workflow.Actor, id string) ([]workflow.Entry, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.history.FindByDocument(ctx, proposalDocType, id)
}

func (s *ProposalService) apply(ctx context.Context, id string, action workflow.Action, actor workflow.Actor, payload any) (*entity.ProjectProposal, error) {
	doc, err := s.engine.ApplyAction(ctx, id, action, actor, payload)
	if err != nil {
		return nil, err
	}
	return doc.(*entity.ProjectProposal), nil
}
