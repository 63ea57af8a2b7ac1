package workflow

import (
	"fmt"
	"time"

	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// Project proposal statuses.
const (
	ProposalStatusDraft                 = workflow.StatusDraft
	ProposalStatusPendingCOO            workflow.Status = "pending_coo"
	ProposalStatusPendingDevManager     workflow.Status = "pending_dev_manager"
	ProposalStatusPendingProjectControl workflow.Status = "pending_project_control"
	ProposalStatusCompleted             workflow.Status = "completed"
	ProposalStatusRejectedByCOO         workflow.Status = "rejected_by_coo"
)

func asProposal(doc workflow.Document) (*entity.ProjectProposal, error) {
	p, ok := doc.(*entity.ProjectProposal)
	if !ok {
		return nil, fmt.Errorf("proposal table applied to %T", doc)
	}
	return p, nil
}

// ProjectProposalTable builds the transition table for project proposals:
// draft -> COO alignment review -> feasibility-manager assignment ->
// formal registration by project control.
func ProjectProposalTable() *workflow.Table {
	t := workflow.NewTable("project_proposal")

	t.From(ProposalStatusDraft).
		Permit(ActionSubmit, workflow.Rule{
			OwnerOnly: true,
			Next:      ProposalStatusPendingCOO,
			Record:    RecordSubmitted,
			Notify: []workflow.Target{{
				Role: workflow.RoleCOO,
				Message: func(doc workflow.Document) string {
					_, owner := doc.Owner()
					return fmt.Sprintf("New project proposal %s from %s", doc.DocumentNumber(), owner)
				},
			}},
		})

	t.From(ProposalStatusPendingCOO).
		Permit(ActionCOOApprove, workflow.Rule{
			Roles:  []workflow.Role{workflow.RoleCOO},
			Next:   ProposalStatusPendingDevManager,
			Record: RecordApprovedByCOO,
			Apply:  applyCOOVerdict(true),
			Notify: []workflow.Target{{
				Role: workflow.RoleDevManager,
				Message: func(doc workflow.Document) string {
					return fmt.Sprintf("Proposal %s is aligned, please assign a feasibility manager", doc.DocumentNumber())
				},
			}},
		}).
		Permit(ActionCOOReject, workflow.Rule{
			Roles:  []workflow.Role{workflow.RoleCOO},
			Next:   ProposalStatusRejectedByCOO,
			Record: RecordRejectedByCOO,
			Apply:  applyCOOVerdict(false),
			Notify: []workflow.Target{{
				ToOwner: true,
				Message: func(doc workflow.Document) string {
					return fmt.Sprintf("Proposal %s was found not aligned with strategy", doc.DocumentNumber())
				},
			}},
		})

	t.From(ProposalStatusPendingDevManager).
		Permit(ActionAssignManager, workflow.Rule{
			Roles:    []workflow.Role{workflow.RoleDevManager},
			Next:     ProposalStatusPendingProjectControl,
			Record:   RecordManagerAssigned,
			Validate: validateManagerAssignment,
			Apply:    applyManagerAssignment,
			Notify: []workflow.Target{
				{
					Role: workflow.RoleProjectControl,
					Message: func(doc workflow.Document) string {
						return fmt.Sprintf("Proposal %s is ready for project registration", doc.DocumentNumber())
					},
				},
				{
					UserID: func(doc workflow.Document) string {
						p, err := asProposal(doc)
						if err != nil {
							return ""
						}
						return p.FeasibilityManagerID
					},
					Message: func(doc workflow.Document) string {
						return fmt.Sprintf("You were assigned as feasibility manager for proposal %s", doc.DocumentNumber())
					},
				},
			},
		})

	t.From(ProposalStatusPendingProjectControl).
		Permit(ActionRegisterProject, workflow.Rule{
			Roles:    []workflow.Role{workflow.RoleProjectControl},
			Next:     ProposalStatusCompleted,
			Record:   RecordProjectRegistered,
			Validate: validateRegistration,
			Apply:    applyRegistration,
			Notify: []workflow.Target{{
				ToOwner: true,
				Message: func(doc workflow.Document) string {
					p, err := asProposal(doc)
					if err != nil {
						return fmt.Sprintf("Proposal %s was registered", doc.DocumentNumber())
					}
					return fmt.Sprintf("Proposal %s was registered as project %s", doc.DocumentNumber(), p.ProjectCode)
				},
			}},
		})

	return t
}

func applyCOOVerdict(aligned bool) workflow.ApplyFunc {
	return func(doc workflow.Document, payload any) error {
		p, err := asProposal(doc)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		p.IsAligned = &aligned
		p.COOReviewedAt = &now
		if rp, ok := payload.(COOReviewPayload); ok {
			p.COONotes = rp.Notes
		}
		return nil
	}
}

func validateManagerAssignment(_ workflow.Document, payload any) error {
	p, ok := payload.(AssignManagerPayload)
	if !ok || p.ManagerID == "" {
		return invalidf("feasibility manager id required")
	}
	return nil
}

func applyManagerAssignment(doc workflow.Document, payload any) error {
	p, err := asProposal(doc)
	if err != nil {
		return err
	}
	in := payload.(AssignManagerPayload)
	now := time.Now().UTC()
	p.FeasibilityManagerID = in.ManagerID
	p.FeasibilityManagerName = in.ManagerName
	p.DevManagerNotes = in.Notes
	p.ManagerAssignedAt = &now
	return nil
}

func validateRegistration(_ workflow.Document, payload any) error {
	p, ok := payload.(RegisterProjectPayload)
	if !ok || p.ProjectCode == "" {
		return invalidf("project code required")
	}
	return nil
}

func applyRegistration(doc workflow.Document, payload any) error {
	p, err := asProposal(doc)
	if err != nil {
		return err
	}
	in := payload.(RegisterProjectPayload)
	now := time.Now().UTC()
	p.ProjectCode = in.ProjectCode
	p.ProjectStartDate = in.ProjectStartDate
	p.ControlNotes = in.Notes
	p.RegisteredAt = &now
	return nil
}
