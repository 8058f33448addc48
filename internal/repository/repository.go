package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"baketrack/internal/models"
)

// Repository is the persistence surface shared by all services. Tx-suffixed
// methods run against a caller-supplied transaction handle so guarded writes
// (bake, allocate, delete-event) read and write under one consistent view.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Registry.
	InsertFlavor(ctx context.Context, item *models.Flavor) error
	GetFlavorByID(ctx context.Context, id uint64) (*models.Flavor, error)
	GetFlavorByName(ctx context.Context, name string) (*models.Flavor, error)
	ListFlavors(ctx context.Context) ([]models.Flavor, error)
	LockFlavorTx(ctx context.Context, tx *gorm.DB, id uint64) (*models.Flavor, error)
	InsertMarket(ctx context.Context, item *models.Market) error
	GetMarketByID(ctx context.Context, id uint64) (*models.Market, error)
	GetMarketByName(ctx context.Context, name string) (*models.Market, error)
	ListMarkets(ctx context.Context) ([]models.Market, error)

	// Stage ledgers.
	InsertWrappedEntry(ctx context.Context, item *models.WrappedEntry) error
	ListWrappedEntries(ctx context.Context, params ListLedgerParams) ([]models.WrappedEntry, error)
	CountWrappedEntries(ctx context.Context, params ListLedgerParams) (int64, error)
	InsertBakeEntryTx(ctx context.Context, tx *gorm.DB, item *models.BakeEntry) error
	ListBakeEntries(ctx context.Context, params ListLedgerParams) ([]models.BakeEntry, error)
	CountBakeEntries(ctx context.Context, params ListLedgerParams) (int64, error)

	// Balance aggregates. Grouped variants cover every flavor with at least
	// one row; per-flavor Tx variants serve the write-path guards.
	SumWrappedByFlavor(ctx context.Context) ([]FlavorTotalRow, error)
	SumBakedByFlavor(ctx context.Context) ([]FlavorTotalRow, error)
	SumAllocatedByFlavor(ctx context.Context) ([]FlavorTotalRow, error)
	SumLeftoverByFlavor(ctx context.Context) ([]FlavorTotalRow, error)
	SumWrappedForFlavorTx(ctx context.Context, tx *gorm.DB, flavorID uint64) (decimal.Decimal, error)
	SumBakedForFlavorTx(ctx context.Context, tx *gorm.DB, flavorID uint64) (decimal.Decimal, error)
	SumAllocatedForFlavorTx(ctx context.Context, tx *gorm.DB, flavorID uint64) (decimal.Decimal, error)
	SumLeftoverForFlavorTx(ctx context.Context, tx *gorm.DB, flavorID uint64) (decimal.Decimal, error)

	// Market events.
	InsertMarketEvent(ctx context.Context, item *models.MarketEvent) error
	GetMarketEventByID(ctx context.Context, id uint64) (*models.MarketEvent, error)
	GetMarketEventByIDTx(ctx context.Context, tx *gorm.DB, id uint64) (*models.MarketEvent, error)
	ListEventSummaries(ctx context.Context, params ListEventsParams) ([]EventSummaryRow, error)
	CountMarketEvents(ctx context.Context, params ListEventsParams) (int64, error)
	UpdateMarketEventCash(ctx context.Context, id uint64, cash decimal.Decimal) (int64, error)
	DeleteMarketEventTx(ctx context.Context, tx *gorm.DB, id uint64) error

	// Allocations.
	UpsertAllocationAddTx(ctx context.Context, tx *gorm.DB, item *models.Allocation) error
	GetAllocationTx(ctx context.Context, tx *gorm.DB, eventID, flavorID uint64) (*models.Allocation, error)
	ListAllocationsByEventID(ctx context.Context, eventID uint64) ([]AllocationRow, error)
	UpdateAllocationResults(ctx context.Context, eventID, flavorID uint64, brought, sold, leftover decimal.Decimal) (int64, error)
	CountResultedAllocationsTx(ctx context.Context, tx *gorm.DB, eventID uint64) (int64, error)
	DeleteAllocationsByEventTx(ctx context.Context, tx *gorm.DB, eventID uint64) error

	// Side products.
	InsertSideProductEntry(ctx context.Context, item *models.SideProductEntry) error
	GetSideProductEntryByID(ctx context.Context, id uint64) (*models.SideProductEntry, error)
	UpdateSideProductEntry(ctx context.Context, item *models.SideProductEntry) (int64, error)
	DeleteSideProductEntry(ctx context.Context, id uint64) (int64, error)
	ListSideProductEntries(ctx context.Context, params ListSideProductsParams) ([]models.SideProductEntry, error)
	CountSideProductEntries(ctx context.Context, params ListSideProductsParams) (int64, error)
	SideProductTotals(ctx context.Context) (SideProductTotals, error)
	SideProductWeeklyTotals(ctx context.Context, limit int) ([]WeeklyTotalRow, error)

	// Snapshots.
	InsertStockSnapshot(ctx context.Context, item *models.StockSnapshot) error
	ListStockSnapshots(ctx context.Context, params ListSnapshotsParams) ([]models.StockSnapshot, error)

	// Idempotency keys.
	GetIdempotencyKeyTx(ctx context.Context, tx *gorm.DB, scope, key string) (*models.IdempotencyKey, error)
	InsertIdempotencyKeyTx(ctx context.Context, tx *gorm.DB, item *models.IdempotencyKey) error
	DeleteExpiredIdempotencyKeys(ctx context.Context, before time.Time) (int64, error)

	// Audit trail.
	InsertAuditLog(ctx context.Context, item *models.AuditLog) error
	ListAuditLogs(ctx context.Context, params ListAuditLogsParams) ([]models.AuditLog, error)
	CountAuditLogs(ctx context.Context, params ListAuditLogsParams) (int64, error)
}

type FlavorTotalRow struct {
	FlavorID uint64
	Total    decimal.Decimal
}

type EventSummaryRow struct {
	ID             uint64
	MarketID       uint64
	MarketName     string
	EventDate      time.Time
	Cash           *decimal.Decimal
	TotalAllocated decimal.Decimal
	TotalSold      decimal.Decimal
	TotalLeftover  decimal.Decimal
}

type AllocationRow struct {
	FlavorID   uint64
	FlavorName string
	Allocated  decimal.Decimal
	Brought    *decimal.Decimal
	Sold       *decimal.Decimal
	Leftover   *decimal.Decimal
}

type SideProductTotals struct {
	Regular decimal.Decimal
	Ghee    decimal.Decimal
	Total   decimal.Decimal
}

type WeeklyTotalRow struct {
	YearWeek string
	Regular  decimal.Decimal
	Ghee     decimal.Decimal
	Total    decimal.Decimal
}

type ListLedgerParams struct {
	Limit    int
	Offset   int
	FlavorID *uint64
	Since    *time.Time
	Until    *time.Time
	OrderBy  string
	Asc      *bool
}

type ListEventsParams struct {
	Limit    int
	Offset   int
	MarketID *uint64
	Since    *time.Time
	Until    *time.Time
	OrderBy  string
	Asc      *bool
}

type ListSideProductsParams struct {
	Limit   int
	Offset  int
	Since   *time.Time
	Until   *time.Time
	OrderBy string
	Asc     *bool
}

type ListSnapshotsParams struct {
	Limit  int
	Offset int
	Since  *time.Time
	Until  *time.Time
}

type ListAuditLogsParams struct {
	Limit  int
	Offset int
	Entity *string
	Action *string
}
