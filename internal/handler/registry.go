package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"baketrack/internal/repository"
	"baketrack/internal/service"
)

type RegistryHandler struct {
	Repo    repository.Repository
	Service *service.RegistryService
}

func (h *RegistryHandler) Register(r *gin.Engine) {
	flavors := r.Group("/api/v1/flavors")
	flavors.POST("", h.createFlavor)
	flavors.GET("", h.listFlavors)

	markets := r.Group("/api/v1/markets")
	markets.POST("", h.createMarket)
	markets.GET("", h.listMarkets)
}

type createNameRequest struct {
	Name string `json:"name"`
}

// @Summary Register a flavor
// @Tags registry
// @Param body body createNameRequest true "flavor name"
// @Success 200 {object} apiResponse
// @Router /api/v1/flavors [post]
func (h *RegistryHandler) createFlavor(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req createNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Service.CreateFlavor(c.Request.Context(), req.Name)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, item, nil)
}

// @Summary List flavors
// @Tags registry
// @Success 200 {object} apiResponse
// @Router /api/v1/flavors [get]
func (h *RegistryHandler) listFlavors(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListFlavors(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

// @Summary Register a market
// @Tags registry
// @Param body body createNameRequest true "market name"
// @Success 200 {object} apiResponse
// @Router /api/v1/markets [post]
func (h *RegistryHandler) createMarket(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var req createNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	item, err := h.Service.CreateMarket(c.Request.Context(), req.Name)
	if err != nil {
		serviceError(c, err)
		return
	}
	Ok(c, item, nil)
}

// @Summary List markets
// @Tags registry
// @Success 200 {object} apiResponse
// @Router /api/v1/markets [get]
func (h *RegistryHandler) listMarkets(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	items, err := h.Repo.ListMarkets(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}
