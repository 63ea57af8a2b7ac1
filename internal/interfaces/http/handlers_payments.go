package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alirezakafim/pardis/internal/application/service"
	flows "github.com/alirezakafim/pardis/internal/application/workflow"
	"github.com/alirezakafim/pardis/internal/auth"
)

// ListPaymentRequests handles GET /api/payment-requests
func (h *Handlers) ListPaymentRequests(c *gin.Context) {
	requests, err := h.services.Payments.List(c.Request.Context(), auth.ActorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, requests)
}

// CreatePaymentRequest handles POST /api/payment-requests
func (h *Handlers) CreatePaymentRequest(c *gin.Context) {
	var req service.PaymentRequestInput
	if !h.bindJSON(c, &req) {
		return
	}

	created, err := h.services.Payments.Create(c.Request.Context(), auth.ActorFromContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, created)
}

// GetPaymentRequest handles GET /api/payment-requests/:id
func (h *Handlers) GetPaymentRequest(c *gin.Context) {
	p, err := h.services.Payments.Get(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

// UpdatePaymentRequest handles PUT /api/payment-requests/:id
func (h *Handlers) UpdatePaymentRequest(c *gin.Context) {
	var req service.PaymentRequestInput
	if !h.bindJSON(c, &req) {
		return
	}

	updated, err := h.services.Payments.UpdateDraft(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// DeletePaymentRequest handles DELETE /api/payment-requests/:id
func (h *Handlers) DeletePaymentRequest(c *gin.Context) {
	if err := h.services.Payments.DeleteDraft(c.Request.Context(), auth.ActorFromContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

// PaymentRequestHistory handles GET /api/payment-requests/:id/history
func (h *Handlers) PaymentRequestHistory(c *gin.Context) {
	entries, err := h.services.Payments.History(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, entries)
}

// SubmitPaymentRequest handles POST /api/payment-requests/:id/submit
func (h *Handlers) SubmitPaymentRequest(c *gin.Context) {
	p, err := h.services.Payments.Submit(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

// SetPaymentTypes handles POST /api/payment-requests/:id/payment-types
func (h *Handlers) SetPaymentTypes(c *gin.Context) {
	var payload flows.SetPaymentTypesPayload
	if !h.bindJSON(c, &payload) {
		return
	}

	p, err := h.services.Payments.SetPaymentTypes(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

// ApprovePaymentRequest handles POST /api/payment-requests/:id/approve
func (h *Handlers) ApprovePaymentRequest(c *gin.Context) {
	var req NotesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.services.Payments.Approve(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

// RejectPaymentRequest handles POST /api/payment-requests/:id/reject
func (h *Handlers) RejectPaymentRequest(c *gin.Context) {
	var req NotesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.services.Payments.Reject(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}

// ProcessPayment handles POST /api/payment-requests/:id/process-payment
func (h *Handlers) ProcessPayment(c *gin.Context) {
	var payload flows.ProcessPaymentPayload
	if !h.bindJSON(c, &payload) {
		return
	}

	p, err := h.services.Payments.ProcessPayment(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, p)
}
