package entity

import "time"

// ProjectType classifies a project proposal.
type ProjectType string

const (
	ProjectTypeCivil          ProjectType = "civil"
	ProjectTypeIndustrial     ProjectType = "industrial"
	ProjectTypeEconomic       ProjectType = "economic"
	ProjectTypeService        ProjectType = "service"
	ProjectTypeOrganizational ProjectType = "organizational"
)

// IsValid returns true for one of the known project types.
func (p ProjectType) IsValid() bool {
	switch p {
	case ProjectTypeCivil, ProjectTypeIndustrial, ProjectTypeEconomic,
		ProjectTypeService, ProjectTypeOrganizational:
		return true
	}
	return false
}

// ProjectProposal is a proposed project moving through COO review,
// feasibility-manager assignment and formal registration.
type ProjectProposal struct {
	WorkflowDocument

	Title       string      `json:"title"`
	Objective   string      `json:"objective"`
	ProjectType ProjectType `json:"project_type"`
	Description string      `json:"description,omitempty"`
	Documents   []string    `json:"documents"`

	// COO review stage.
	IsAligned     *bool      `json:"is_aligned,omitempty"`
	COONotes      string     `json:"coo_notes,omitempty"`
	COOReviewedAt *time.Time `json:"coo_reviewed_at,omitempty"`

	// Feasibility-manager assignment stage.
	FeasibilityManagerID   string     `json:"feasibility_manager_id,omitempty"`
	FeasibilityManagerName string     `json:"feasibility_manager_name,omitempty"`
	DevManagerNotes        string     `json:"dev_manager_notes,omitempty"`
	ManagerAssignedAt      *time.Time `json:"dev_manager_assigned_at,omitempty"`

	// Registration stage.
	ProjectCode      string     `json:"project_code,omitempty"`
	ProjectStartDate string     `json:"project_start_date,omitempty"`
	ControlNotes     string     `json:"control_notes,omitempty"`
	RegisteredAt     *time.Time `json:"registered_at,omitempty"`
}
