package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"baketrack/internal/service"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// serviceError maps a domain rule failure to its HTTP status and exposes
// the kind (and computed availability, when present) in the meta block.
// Anything without a kind is an infrastructure error.
func serviceError(c *gin.Context, err error) {
	e, ok := service.AsError(err)
	if !ok {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	meta := map[string]any{"kind": string(e.Kind)}
	if e.Available != nil {
		meta["available"] = e.Available.String()
	}
	Error(c, statusForKind(e.Kind), e.Message, meta)
}

func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConstraint:
		return http.StatusConflict
	case service.KindInsufficientStock, service.KindConservation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
