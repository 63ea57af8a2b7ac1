package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alirezakafim/pardis/internal/application/service"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// Response is the uniform JSON envelope for every endpoint.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

// respondError maps the domain error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), Response{Success: false, Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, workflow.ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrInvalidAction):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
