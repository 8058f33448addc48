package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"baketrack/internal/service"
)

type BalanceHandler struct {
	Service *service.BalanceService
}

func (h *BalanceHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/inventory/balances", h.balances)
}

// @Summary Current stock balances per flavor
// @Tags inventory
// @Success 200 {object} apiResponse
// @Router /api/v1/inventory/balances [get]
func (h *BalanceHandler) balances(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	sheet, err := h.Service.Balances(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, sheet, nil)
}
