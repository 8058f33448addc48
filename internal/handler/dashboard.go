package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"baketrack/internal/repository"
	"baketrack/internal/service"
)

type DashboardHandler struct {
	Repo    repository.Repository
	Balance *service.BalanceService
}

func (h *DashboardHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/dashboard", h.dashboard)
}

type dashboardResponse struct {
	Balances     service.BalanceSheet
	RecentEvents []repository.EventSummaryRow
}

func (h *DashboardHandler) dashboard(c *gin.Context) {
	if h.Repo == nil || h.Balance == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	sheet, err := h.Balance.Balances(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	events, err := h.Repo.ListEventSummaries(c.Request.Context(), repository.ListEventsParams{
		Limit: intQuery(c, "events", 10),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, dashboardResponse{Balances: sheet, RecentEvents: events}, nil)
}
