package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"baketrack/internal/repository"
)

type AuditHandler struct {
	Repo repository.Repository
}

func (h *AuditHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/audit-logs", h.list)
}

func (h *AuditHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	params := repository.ListAuditLogsParams{
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
		Entity: strQueryPtr(c, "entity"),
		Action: strQueryPtr(c, "action"),
	}
	items, err := h.Repo.ListAuditLogs(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountAuditLogs(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}
