package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alirezakafim/pardis/internal/application/service"
	flows "github.com/alirezakafim/pardis/internal/application/workflow"
	"github.com/alirezakafim/pardis/internal/auth"
)

// ListProposals handles GET /api/project-proposals
func (h *Handlers) ListProposals(c *gin.Context) {
	proposals, err := h.services.Proposals.List(c.Request.Context(), auth.ActorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, proposals)
}

// CreateProposal handles POST /api/project-proposals
func (h *Handlers) CreateProposal(c *gin.Context) {
	var req service.ProposalInput
	if !h.bindJSON(c, &req) {
		return
	}

	created, err := h.services.Proposals.Create(c.Request.Context(), auth.ActorFromContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, created)
}

// GetProposal handles GET /api/project-proposals/:id
func (h *Handlers) GetProposal(c *gin.Context) {
	p, err := h.services.Proposals.Get(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

// UpdateProposal handles PUT /api/project-proposals/:id
func (h *Handlers) UpdateProposal(c *gin.Context) {
	var req service.ProposalInput
	if !h.bindJSON(c, &req) {
		return
	}

	updated, err := h.services.Proposals.UpdateDraft(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// DeleteProposal handles DELETE /api/project-proposals/:id
func (h *Handlers) DeleteProposal(c *gin.Context) {
	if err := h.services.Proposals.DeleteDraft(c.Request.Context(), auth.ActorFromContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

// ProposalHistory handles GET /api/project-proposals/:id/history
func (h *Handlers) ProposalHistory(c *gin.Context) {
	entries, err := h.services.Proposals.History(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, entries)
}

// SubmitProposal handles POST /api/project-proposals/:id/submit
func (h *Handlers) SubmitProposal(c *gin.Context) {
	p, err := h.services.Proposals.Submit(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

// COOReviewRequest is the COO's alignment verdict.
type COOReviewRequest struct {
	IsAligned bool   `json:"is_aligned"`
	Notes     string `json:"notes"`
}

// COOReview handles POST /api/project-proposals/:id/coo-review
func (h *Handlers) COOReview(c *gin.Context) {
	var req COOReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.services.Proposals.COOReview(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), req.IsAligned, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

// AssignManager handles POST /api/project-proposals/:id/assign-manager
func (h *Handlers) AssignManager(c *gin.Context) {
	var payload flows.AssignManagerPayload
	if !h.bindJSON(c, &payload) {
		return
	}

	p, err := h.services.Proposals.AssignManager(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

// RegisterProject handles POST /api/project-proposals/:id/register-project
func (h *Handlers) RegisterProject(c *gin.Context) {
	var payload flows.RegisterProjectPayload
	if !h.bindJSON(c, &payload) {
		return
	}

	p, err := h.services.Proposals.RegisterProject(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}
