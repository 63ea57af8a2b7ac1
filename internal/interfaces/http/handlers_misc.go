package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alirezakafim/pardis/internal/auth"
)

// ListNotifications handles GET /api/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	rows, err := h.services.Notifications.List(c.Request.Context(), auth.ActorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, rows)
}

// MarkNotificationRead handles POST /api/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	if err := h.services.Notifications.MarkRead(c.Request.Context(), auth.ActorFromContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

// MarkAllNotificationsRead handles POST /api/notifications/read-all
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	if err := h.services.Notifications.MarkAllRead(c.Request.Context(), auth.ActorFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

// CostCenterRequest carries a cost center's editable fields.
type CostCenterRequest struct {
	Name   string `json:"name"`
	NameEN string `json:"name_en"`
}

// ListCostCenters handles GET /api/cost-centers
func (h *Handlers) ListCostCenters(c *gin.Context) {
	centers, err := h.services.CostCenters.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, centers)
}

// CreateCostCenter handles POST /api/cost-centers
func (h *Handlers) CreateCostCenter(c *gin.Context) {
	var req CostCenterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	center, err := h.services.CostCenters.Create(c.Request.Context(), auth.ActorFromContext(c), req.Name, req.NameEN)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, center)
}

// UpdateCostCenter handles PUT /api/cost-centers/:id
func (h *Handlers) UpdateCostCenter(c *gin.Context) {
	var req CostCenterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	center, err := h.services.CostCenters.Update(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), req.Name, req.NameEN)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, center)
}

// DeleteCostCenter handles DELETE /api/cost-centers/:id
func (h *Handlers) DeleteCostCenter(c *gin.Context) {
	if err := h.services.CostCenters.Delete(c.Request.Context(), auth.ActorFromContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

// GoodsRequestsExcel handles GET /api/reports/goods-requests/excel
func (h *Handlers) GoodsRequestsExcel(c *gin.Context) {
	data, err := h.services.Reports.GoodsRequestsExcel(c.Request.Context(), auth.ActorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("goods-requests-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// GoodsRequestPDF handles GET /api/reports/goods-requests/:id/pdf
func (h *Handlers) GoodsRequestPDF(c *gin.Context) {
	data, err := h.services.Reports.GoodsRequestPDF(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "goods-request.pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}
