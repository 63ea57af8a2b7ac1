package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alirezakafim/pardis/internal/application/service"
	flows "github.com/alirezakafim/pardis/internal/application/workflow"
	"github.com/alirezakafim/pardis/internal/auth"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// ListGoodsRequests handles GET /api/goods-requests
func (h *Handlers) ListGoodsRequests(c *gin.Context) {
	requests, err := h.services.Goods.List(c.Request.Context(), auth.ActorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, requests)
}

// CreateGoodsRequest handles POST /api/goods-requests
func (h *Handlers) CreateGoodsRequest(c *gin.Context) {
	var req service.GoodsRequestInput
	if !h.bindJSON(c, &req) {
		return
	}

	created, err := h.services.Goods.Create(c.Request.Context(), auth.ActorFromContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, created)
}

// GetGoodsRequest handles GET /api/goods-requests/:id
func (h *Handlers) GetGoodsRequest(c *gin.Context) {
	req, err := h.services.Goods.Get(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, req)
}

// UpdateGoodsRequest handles PUT /api/goods-requests/:id
func (h *Handlers) UpdateGoodsRequest(c *gin.Context) {
	var req service.GoodsRequestInput
	if !h.bindJSON(c, &req) {
		return
	}

	updated, err := h.services.Goods.UpdateDraft(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// DeleteGoodsRequest handles DELETE /api/goods-requests/:id
func (h *Handlers) DeleteGoodsRequest(c *gin.Context) {
	if err := h.services.Goods.DeleteDraft(c.Request.Context(), auth.ActorFromContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

// GoodsRequestHistory handles GET /api/goods-requests/:id/history
func (h *Handlers) GoodsRequestHistory(c *gin.Context) {
	entries, err := h.services.Goods.History(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, entries)
}

// SubmitGoodsRequest handles POST /api/goods-requests/:id/submit
func (h *Handlers) SubmitGoodsRequest(c *gin.Context) {
	req, err := h.services.Goods.Submit(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, req)
}

// AddInquiries handles POST /api/goods-requests/:id/inquiries
func (h *Handlers) AddInquiries(c *gin.Context) {
	var payload flows.AddInquiriesPayload
	if !h.bindJSON(c, &payload) {
		return
	}

	req, err := h.services.Goods.AddInquiries(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, req)
}

// InquiryDecisionRequest is management's verdict on the collected
// inquiries.
type InquiryDecisionRequest struct {
	Decision  string `json:"decision"`
	InquiryID string `json:"inquiry_id"`
	Notes     string `json:"notes"`
}

// InquiryDecision handles POST /api/goods-requests/:id/inquiry-decision
func (h *Handlers) InquiryDecision(c *gin.Context) {
	var req InquiryDecisionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	actor := auth.ActorFromContext(c)
	id := c.Param("id")

	switch req.Decision {
	case "approve":
		updated, err := h.services.Goods.SelectInquiry(ctx, actor, id, flows.SelectInquiryPayload{
			InquiryID: req.InquiryID,
			Notes:     req.Notes,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, updated)
	case "reject_with_edit":
		updated, err := h.services.Goods.RejectWithEdit(ctx, actor, id, req.Notes)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, updated)
	case "reject_complete":
		updated, err := h.services.Goods.RejectComplete(ctx, actor, id, req.Notes)
		if err != nil {
			respondError(c, err)
			return
		}
		respond(c, http.StatusOK, updated)
	default:
		respondError(c, fmt.Errorf("%w: unknown decision %q", workflow.ErrInvalidPayload, req.Decision))
	}
}

// AddReceipt handles POST /api/goods-requests/:id/receipts
func (h *Handlers) AddReceipt(c *gin.Context) {
	var req service.AddReceiptInput
	if !h.bindJSON(c, &req) {
		return
	}

	updated, err := h.services.Goods.AddReceipt(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// ConfirmReceiptProcurement handles POST /api/goods-requests/:id/receipts/confirm-procurement
func (h *Handlers) ConfirmReceiptProcurement(c *gin.Context) {
	var payload flows.ConfirmReceiptPayload
	if !h.bindJSON(c, &payload) {
		return
	}

	updated, err := h.services.Goods.ConfirmReceiptProcurement(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// ConfirmReceiptRequester handles POST /api/goods-requests/:id/receipts/confirm-requester
func (h *Handlers) ConfirmReceiptRequester(c *gin.Context) {
	var payload flows.ConfirmReceiptPayload
	if !h.bindJSON(c, &payload) {
		return
	}

	updated, err := h.services.Goods.ConfirmReceiptRequester(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), payload)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// UploadInvoice handles POST /api/goods-requests/:id/invoice
func (h *Handlers) UploadInvoice(c *gin.Context) {
	var payload flows.UploadInvoicePayload
	if !h.bindJSON(c, &payload) {
		return
	}

	updated, err := h.services.Goods.UploadInvoice(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), payload.InvoiceBase64)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// NotesRequest carries the optional notes of approve/reject endpoints.
type NotesRequest struct {
	Notes string `json:"notes"`
}

// ApproveFinancial handles POST /api/goods-requests/:id/approve-financial
func (h *Handlers) ApproveFinancial(c *gin.Context) {
	var req NotesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	updated, err := h.services.Goods.ApproveFinancial(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// RejectGoodsRequest handles POST /api/goods-requests/:id/reject
func (h *Handlers) RejectGoodsRequest(c *gin.Context) {
	var req NotesRequest
	if !h.bindJSON(c, &req) {
		return
	}

	updated, err := h.services.Goods.Reject(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, updated)
}
