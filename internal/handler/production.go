package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"baketrack/internal/repository"
	"baketrack/internal/service"
)

type ProductionHandler struct {
	Repo    repository.Repository
	Service *service.ProductionService
}

func (h *ProductionHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/production")
	group.POST("/wrapped", h.addWrapped)
	group.GET("/wrapped", h.listWrapped)
	group.POST("/bakes", h.bake)
	group.GET("/bakes", h.listBakes)
}

type ledgerEntryRequest struct {
	Date     string          `json:"date"`
	FlavorID uint64          `json:"flavor_id"`
	Dozens   decimal.Decimal `json:"dozens"`
}

// @Summary Record wrapped dozens
// @Tags production
// @Param body body ledgerEntryRequest true "entry"
// @Success 200 {object} apiResponse
// @Router /api/v1/production/wrapped [post]
func (h *ProductionHandler) addWrapped(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req ledgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid date, want YYYY-MM-DD", nil)
		return
	}
	item, err := h.Service.AddWrapped(c.Request.Context(), service.LedgerEntryInput{
		Date:     date,
		FlavorID: req.FlavorID,
		Dozens:   req.Dozens,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, item, nil)
}

// @Summary Record baked dozens
// @Tags production
// @Param body body ledgerEntryRequest true "entry"
// @Success 200 {object} apiResponse
// @Failure 422 {object} apiResponse "insufficient wrapped stock"
// @Router /api/v1/production/bakes [post]
func (h *ProductionHandler) bake(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req ledgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid date, want YYYY-MM-DD", nil)
		return
	}
	item, err := h.Service.Bake(c.Request.Context(), service.LedgerEntryInput{
		Date:     date,
		FlavorID: req.FlavorID,
		Dozens:   req.Dozens,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, item, nil)
}

// @Summary List wrapped entries
// @Tags production
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param flavor_id query int false "filter by flavor"
// @Success 200 {object} apiResponse
// @Router /api/v1/production/wrapped [get]
func (h *ProductionHandler) listWrapped(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	params := h.ledgerParams(c)
	items, err := h.Repo.ListWrappedEntries(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountWrappedEntries(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

// @Summary List bake entries
// @Tags production
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param flavor_id query int false "filter by flavor"
// @Success 200 {object} apiResponse
// @Router /api/v1/production/bakes [get]
func (h *ProductionHandler) listBakes(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	params := h.ledgerParams(c)
	items, err := h.Repo.ListBakeEntries(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountBakeEntries(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

func (h *ProductionHandler) ledgerParams(c *gin.Context) repository.ListLedgerParams {
	orderBy := parseOrder(strings.TrimSpace(c.Query("order_by")), map[string]string{
		"date":       "date",
		"created_at": "created_at",
	})
	order := strings.ToLower(strings.TrimSpace(c.Query("order")))
	asc := order == "asc"
	return repository.ListLedgerParams{
		Limit:    intQuery(c, "limit", 50),
		Offset:   intQuery(c, "offset", 0),
		FlavorID: uint64QueryPtr(c, "flavor_id"),
		Since:    dateQueryPtr(c, "since"),
		Until:    dateQueryPtr(c, "until"),
		OrderBy:  orderBy,
		Asc:      boolPtr(asc),
	}
}
