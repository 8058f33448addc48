package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Baketrack Service

Production ledgers, market-day allocations, and derived inventory balances.

## Workflow

Stock moves through two gated stages:

- wrapped (frozen, ready to bake) -> baked (ready to sell) -> allocated to a market event
- recorded leftovers return to the sellable pool

## Notable Routes

- GET /healthz
- GET /readyz
- GET /swagger/index.html
- GET /api/v1/inventory/balances
- POST /api/v1/flavors
- POST /api/v1/markets
- POST /api/v1/production/wrapped
- POST /api/v1/production/bakes
- POST /api/v1/events
- POST /api/v1/events/:id/allocations
- POST /api/v1/events/:id/results
- GET /api/v1/side-products
- GET /api/v1/dashboard
- GET /api/v1/snapshots
- GET /api/v1/audit-logs

## Errors

Domain failures return a meta.kind of validation, not_found, constraint,
insufficient_stock or conservation. Insufficient-stock responses include
meta.available, the quantity computed at check time. Allocation requests
honor an optional Idempotency-Key header.
`)
	})
}
