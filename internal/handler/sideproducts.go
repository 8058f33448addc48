package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"baketrack/internal/repository"
	"baketrack/internal/service"
)

type SideProductHandler struct {
	Repo    repository.Repository
	Service *service.SideProductService
}

func (h *SideProductHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/side-products")
	group.POST("", h.create)
	group.GET("", h.list)
	group.PUT("/:id", h.update)
	group.DELETE("/:id", h.delete)
	group.GET("/totals", h.totals)
	group.GET("/weekly", h.weekly)
}

type sideProductRequest struct {
	Date          string          `json:"date"`
	RegularDozens decimal.Decimal `json:"regular_dozens"`
	GheeDozens    decimal.Decimal `json:"ghee_dozens"`
	Notes         string          `json:"notes"`
}

func (h *SideProductHandler) create(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req sideProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid date, want YYYY-MM-DD", nil)
		return
	}
	item, err := h.Service.Create(c.Request.Context(), service.SideProductInput{
		Date:          date,
		RegularDozens: req.RegularDozens,
		GheeDozens:    req.GheeDozens,
		Notes:         req.Notes,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *SideProductHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	orderBy := parseOrder(strings.TrimSpace(c.Query("order_by")), map[string]string{
		"date":       "date",
		"created_at": "created_at",
	})
	order := strings.ToLower(strings.TrimSpace(c.Query("order")))
	asc := order == "asc"
	params := repository.ListSideProductsParams{
		Limit:   intQuery(c, "limit", 50),
		Offset:  intQuery(c, "offset", 0),
		Since:   dateQueryPtr(c, "since"),
		Until:   dateQueryPtr(c, "until"),
		OrderBy: orderBy,
		Asc:     boolPtr(asc),
	}
	items, err := h.Repo.ListSideProductEntries(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountSideProductEntries(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

func (h *SideProductHandler) update(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req sideProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid date, want YYYY-MM-DD", nil)
		return
	}
	err = h.Service.Update(c.Request.Context(), id, service.SideProductInput{
		Date:          date,
		RegularDozens: req.RegularDozens,
		GheeDozens:    req.GheeDozens,
		Notes:         req.Notes,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"updated": id}, nil)
}

func (h *SideProductHandler) delete(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Service.Delete(c.Request.Context(), id); err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"deleted": id}, nil)
}

func (h *SideProductHandler) totals(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	totals, err := h.Service.Totals(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, totals, nil)
}

func (h *SideProductHandler) weekly(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	rows, err := h.Service.WeeklyTotals(c.Request.Context(), intQuery(c, "limit", 52))
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, rows, nil)
}
