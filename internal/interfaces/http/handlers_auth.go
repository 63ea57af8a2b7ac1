package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alirezakafim/pardis/internal/application/service"
	"github.com/alirezakafim/pardis/internal/auth"
	"github.com/alirezakafim/pardis/internal/domain/entity"
)

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the issued token and the account it belongs to.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// Login handles POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	token, user, err := h.services.Users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, LoginResponse{Token: token, User: user})
}

// Register handles POST /api/auth/register. Anonymous callers may only
// self-register as requester; the service enforces the role gate.
func (h *Handlers) Register(c *gin.Context) {
	var req service.UserInput
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.services.Users.Register(c.Request.Context(), auth.ActorFromContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, user)
}

// Me handles GET /api/auth/me
func (h *Handlers) Me(c *gin.Context) {
	actor := auth.ActorFromContext(c)
	user, err := h.services.Users.Get(c.Request.Context(), actor, actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

// ListUsers handles GET /api/users
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.services.Users.List(c.Request.Context(), auth.ActorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, users)
}

// GetUser handles GET /api/users/:id
func (h *Handlers) GetUser(c *gin.Context) {
	user, err := h.services.Users.Get(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

// UpdateUser handles PUT /api/users/:id
func (h *Handlers) UpdateUser(c *gin.Context) {
	var req service.UserInput
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.services.Users.Update(c.Request.Context(), auth.ActorFromContext(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/:id
func (h *Handlers) DeleteUser(c *gin.Context) {
	if err := h.services.Users.Delete(c.Request.Context(), auth.ActorFromContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil)
}
