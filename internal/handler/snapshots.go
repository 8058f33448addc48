package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"baketrack/internal/repository"
)

type SnapshotHandler struct {
	Repo repository.Repository
}

func (h *SnapshotHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/snapshots", h.list)
}

func (h *SnapshotHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	params := repository.ListSnapshotsParams{
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
	}
	if v := strings.TrimSpace(c.Query("since")); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			t := ts.UTC()
			params.Since = &t
		}
	}
	if v := strings.TrimSpace(c.Query("until")); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			t := ts.UTC()
			params.Until = &t
		}
	}
	items, err := h.Repo.ListStockSnapshots(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}
