package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"baketrack/internal/repository"
	"baketrack/internal/service"
)

type EventHandler struct {
	Repo    repository.Repository
	Service *service.EventService
}

func (h *EventHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/events")
	group.POST("", h.create)
	group.GET("", h.list)
	group.GET("/:id", h.get)
	group.DELETE("/:id", h.delete)
	group.POST("/:id/allocations", h.allocate)
	group.POST("/:id/results", h.recordResults)
	group.PUT("/:id/cash", h.setCash)
}

type createEventRequest struct {
	MarketID  uint64 `json:"market_id"`
	EventDate string `json:"event_date"`
}

func (h *EventHandler) create(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	date, err := parseDate(req.EventDate)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid event_date, want YYYY-MM-DD", nil)
		return
	}
	item, err := h.Service.CreateEvent(c.Request.Context(), req.MarketID, date)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *EventHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	orderBy := parseOrder(strings.TrimSpace(c.Query("order_by")), map[string]string{
		"event_date": "e.event_date",
	})
	order := strings.ToLower(strings.TrimSpace(c.Query("order")))
	asc := order == "asc"
	params := repository.ListEventsParams{
		Limit:    intQuery(c, "limit", 50),
		Offset:   intQuery(c, "offset", 0),
		MarketID: uint64QueryPtr(c, "market_id"),
		Since:    dateQueryPtr(c, "since"),
		Until:    dateQueryPtr(c, "until"),
		OrderBy:  orderBy,
		Asc:      boolPtr(asc),
	}
	items, err := h.Repo.ListEventSummaries(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountMarketEvents(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

type eventDetailResponse struct {
	ID         uint64
	MarketID   uint64
	MarketName string
	EventDate  string
	Cash       *decimal.Decimal
	Lines      []repository.AllocationRow
}

func (h *EventHandler) get(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	event, err := h.Repo.GetMarketEventByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if event == nil {
		Error(c, http.StatusNotFound, "market event not found", nil)
		return
	}
	market, err := h.Repo.GetMarketByID(c.Request.Context(), event.MarketID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	lines, err := h.Repo.ListAllocationsByEventID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	out := eventDetailResponse{
		ID:        event.ID,
		MarketID:  event.MarketID,
		EventDate: event.EventDate.Format(dateLayout),
		Cash:      event.Cash,
		Lines:     lines,
	}
	if market != nil {
		out.MarketName = market.Name
	}
	Ok(c, out, nil)
}

func (h *EventHandler) delete(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Service.DeleteEvent(c.Request.Context(), id); err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"deleted": id}, nil)
}

type allocateRequest struct {
	FlavorID uint64          `json:"flavor_id"`
	Dozens   decimal.Decimal `json:"dozens"`
}

func (h *EventHandler) allocate(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req allocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	result, err := h.Service.Allocate(c.Request.Context(), service.AllocateInput{
		EventID:        id,
		FlavorID:       req.FlavorID,
		Dozens:         req.Dozens,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	var meta map[string]any
	if result.Replayed {
		meta = map[string]any{"replayed": true}
	}
	Ok(c, result, meta)
}

type resultsRequest struct {
	FlavorID uint64          `json:"flavor_id"`
	Brought  decimal.Decimal `json:"brought"`
	Sold     decimal.Decimal `json:"sold"`
	Leftover decimal.Decimal `json:"leftover"`
}

func (h *EventHandler) recordResults(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req resultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	err := h.Service.RecordResults(c.Request.Context(), service.ResultsInput{
		EventID:  id,
		FlavorID: req.FlavorID,
		Brought:  req.Brought,
		Sold:     req.Sold,
		Leftover: req.Leftover,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"event_id": id, "flavor_id": req.FlavorID}, nil)
}

type setCashRequest struct {
	Cash decimal.Decimal `json:"cash"`
}

func (h *EventHandler) setCash(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req setCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if err := h.Service.SetCash(c.Request.Context(), id, req.Cash); err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, gin.H{"event_id": id, "cash": req.Cash}, nil)
}
