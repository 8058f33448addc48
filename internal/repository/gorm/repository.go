package gormrepository

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"baketrack/internal/models"
	"baketrack/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- registry ---------------------------------------------------------------

func (s *Store) InsertFlavor(ctx context.Context, item *models.Flavor) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetFlavorByID(ctx context.Context, id uint64) (*models.Flavor, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Flavor
	err := s.db.WithContext(ctx).Model(&models.Flavor{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetFlavorByName(ctx context.Context, name string) (*models.Flavor, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var item models.Flavor
	err := s.db.WithContext(ctx).Model(&models.Flavor{}).Where("name = ?", name).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListFlavors(ctx context.Context) ([]models.Flavor, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Flavor
	if err := s.db.WithContext(ctx).
		Model(&models.Flavor{}).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// LockFlavorTx takes a row lock on the flavor so concurrent guarded writes
// for the same flavor serialize for the rest of the transaction.
func (s *Store) LockFlavorTx(ctx context.Context, tx *gorm.DB, id uint64) (*models.Flavor, error) {
	if tx == nil || id == 0 {
		return nil, nil
	}
	var item models.Flavor
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) InsertMarket(ctx context.Context, item *models.Market) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetMarketByID(ctx context.Context, id uint64) (*models.Market, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Market
	err := s.db.WithContext(ctx).Model(&models.Market{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetMarketByName(ctx context.Context, name string) (*models.Market, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var item models.Market
	err := s.db.WithContext(ctx).Model(&models.Market{}).Where("name = ?", name).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListMarkets(ctx context.Context) ([]models.Market, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Market
	if err := s.db.WithContext(ctx).
		Model(&models.Market{}).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- stage ledgers ----------------------------------------------------------

func (s *Store) InsertWrappedEntry(ctx context.Context, item *models.WrappedEntry) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListWrappedEntries(ctx context.Context, params repository.ListLedgerParams) ([]models.WrappedEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyLedgerFilters(s.db.WithContext(ctx).Model(&models.WrappedEntry{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "date")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.WrappedEntry
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountWrappedEntries(ctx context.Context, params repository.ListLedgerParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	query := applyLedgerFilters(s.db.WithContext(ctx).Model(&models.WrappedEntry{}), params)
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) InsertBakeEntryTx(ctx context.Context, tx *gorm.DB, item *models.BakeEntry) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) ListBakeEntries(ctx context.Context, params repository.ListLedgerParams) ([]models.BakeEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyLedgerFilters(s.db.WithContext(ctx).Model(&models.BakeEntry{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "date")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.BakeEntry
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountBakeEntries(ctx context.Context, params repository.ListLedgerParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	query := applyLedgerFilters(s.db.WithContext(ctx).Model(&models.BakeEntry{}), params)
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// --- balance aggregates -----------------------------------------------------
//
// Sums are scanned straight into decimals so guard comparisons stay exact;
// clamping to zero is the caller's job.

func (s *Store) SumWrappedByFlavor(ctx context.Context) ([]repository.FlavorTotalRow, error) {
	return s.sumGrouped(ctx, "wrapped_entries", "dozens")
}

func (s *Store) SumBakedByFlavor(ctx context.Context) ([]repository.FlavorTotalRow, error) {
	return s.sumGrouped(ctx, "bake_entries", "dozens")
}

func (s *Store) SumAllocatedByFlavor(ctx context.Context) ([]repository.FlavorTotalRow, error) {
	return s.sumGrouped(ctx, "allocations", "allocated")
}

func (s *Store) SumLeftoverByFlavor(ctx context.Context) ([]repository.FlavorTotalRow, error) {
	return s.sumGrouped(ctx, "allocations", "COALESCE(leftover,0)")
}

func (s *Store) sumGrouped(ctx context.Context, table, column string) ([]repository.FlavorTotalRow, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var rows []repository.FlavorTotalRow
	err := s.db.WithContext(ctx).
		Table(table).
		Select("flavor_id AS flavor_id, COALESCE(SUM(" + column + "),0) AS total").
		Group("flavor_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) SumWrappedForFlavorTx(ctx context.Context, tx *gorm.DB, flavorID uint64) (decimal.Decimal, error) {
	return sumForFlavor(ctx, tx, "wrapped_entries", "dozens", flavorID)
}

func (s *Store) SumBakedForFlavorTx(ctx context.Context, tx *gorm.DB, flavorID uint64) (decimal.Decimal, error) {
	return sumForFlavor(ctx, tx, "bake_entries", "dozens", flavorID)
}

func (s *Store) SumAllocatedForFlavorTx(ctx context.Context, tx *gorm.DB, flavorID uint64) (decimal.Decimal, error) {
	return sumForFlavor(ctx, tx, "allocations", "allocated", flavorID)
}

func (s *Store) SumLeftoverForFlavorTx(ctx context.Context, tx *gorm.DB, flavorID uint64) (decimal.Decimal, error) {
	return sumForFlavor(ctx, tx, "allocations", "COALESCE(leftover,0)", flavorID)
}

func sumForFlavor(ctx context.Context, tx *gorm.DB, table, column string, flavorID uint64) (decimal.Decimal, error) {
	if tx == nil || flavorID == 0 {
		return decimal.Zero, nil
	}
	var out decimal.Decimal
	err := tx.WithContext(ctx).
		Table(table).
		Select("COALESCE(SUM("+column+"),0)").
		Where("flavor_id = ?", flavorID).
		Scan(&out).Error
	if err != nil {
		return decimal.Zero, err
	}
	return out, nil
}

// --- market events ----------------------------------------------------------

func (s *Store) InsertMarketEvent(ctx context.Context, item *models.MarketEvent) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetMarketEventByID(ctx context.Context, id uint64) (*models.MarketEvent, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.MarketEvent
	err := s.db.WithContext(ctx).Model(&models.MarketEvent{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetMarketEventByIDTx(ctx context.Context, tx *gorm.DB, id uint64) (*models.MarketEvent, error) {
	if tx == nil || id == 0 {
		return nil, nil
	}
	var item models.MarketEvent
	err := tx.WithContext(ctx).Model(&models.MarketEvent{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListEventSummaries(ctx context.Context, params repository.ListEventsParams) ([]repository.EventSummaryRow, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Table("market_events AS e").
		Select(`
			e.id AS id,
			e.market_id AS market_id,
			m.name AS market_name,
			e.event_date AS event_date,
			e.cash AS cash,
			COALESCE(SUM(a.allocated),0) AS total_allocated,
			COALESCE(SUM(a.sold),0) AS total_sold,
			COALESCE(SUM(a.leftover),0) AS total_leftover
		`).
		Joins("JOIN markets AS m ON m.id = e.market_id").
		Joins("LEFT JOIN allocations AS a ON a.market_event_id = e.id").
		Group("e.id, e.market_id, m.name, e.event_date, e.cash")
	query = applyEventFilters(query, params)
	orderBy := strings.TrimSpace(params.OrderBy)
	if orderBy == "" {
		orderBy = "e.event_date"
	}
	direction := "desc"
	if params.Asc != nil && *params.Asc {
		direction = "asc"
	}
	query = query.Order(orderBy + " " + direction + ", e.id " + direction)
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var rows []repository.EventSummaryRow
	if err := query.Limit(limit).Offset(offset).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) CountMarketEvents(ctx context.Context, params repository.ListEventsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := s.db.WithContext(ctx).Table("market_events AS e")
	query = applyEventFilters(query, params)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) UpdateMarketEventCash(ctx context.Context, id uint64, cash decimal.Decimal) (int64, error) {
	if s == nil || s.db == nil || id == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.MarketEvent{}).
		Where("id = ?", id).
		Update("cash", cash)
	return res.RowsAffected, res.Error
}

func (s *Store) DeleteMarketEventTx(ctx context.Context, tx *gorm.DB, id uint64) error {
	if tx == nil || id == 0 {
		return nil
	}
	return tx.WithContext(ctx).Where("id = ?", id).Delete(&models.MarketEvent{}).Error
}

// --- allocations ------------------------------------------------------------

// UpsertAllocationAddTx inserts the allocation line or, when the
// (event, flavor) line already exists, adds the new dozens onto it.
func (s *Store) UpsertAllocationAddTx(ctx context.Context, tx *gorm.DB, item *models.Allocation) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "market_event_id"}, {Name: "flavor_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"allocated":  gorm.Expr("allocations.allocated + EXCLUDED.allocated"),
			"updated_at": gorm.Expr("now()"),
		}),
	}).Create(item).Error
}

func (s *Store) GetAllocationTx(ctx context.Context, tx *gorm.DB, eventID, flavorID uint64) (*models.Allocation, error) {
	if tx == nil || eventID == 0 || flavorID == 0 {
		return nil, nil
	}
	var item models.Allocation
	err := tx.WithContext(ctx).
		Model(&models.Allocation{}).
		Where("market_event_id = ?", eventID).
		Where("flavor_id = ?", flavorID).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListAllocationsByEventID(ctx context.Context, eventID uint64) ([]repository.AllocationRow, error) {
	if s == nil || s.db == nil || eventID == 0 {
		return nil, nil
	}
	var rows []repository.AllocationRow
	err := s.db.WithContext(ctx).
		Table("allocations AS a").
		Select(`
			a.flavor_id AS flavor_id,
			f.name AS flavor_name,
			a.allocated AS allocated,
			a.brought AS brought,
			a.sold AS sold,
			a.leftover AS leftover
		`).
		Joins("JOIN flavors AS f ON f.id = a.flavor_id").
		Where("a.market_event_id = ?", eventID).
		Order("f.name asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) UpdateAllocationResults(ctx context.Context, eventID, flavorID uint64, brought, sold, leftover decimal.Decimal) (int64, error) {
	if s == nil || s.db == nil || eventID == 0 || flavorID == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Allocation{}).
		Where("market_event_id = ?", eventID).
		Where("flavor_id = ?", flavorID).
		Updates(map[string]any{
			"brought":  brought,
			"sold":     sold,
			"leftover": leftover,
		})
	return res.RowsAffected, res.Error
}

func (s *Store) CountResultedAllocationsTx(ctx context.Context, tx *gorm.DB, eventID uint64) (int64, error) {
	if tx == nil || eventID == 0 {
		return 0, nil
	}
	var total int64
	err := tx.WithContext(ctx).
		Model(&models.Allocation{}).
		Where("market_event_id = ?", eventID).
		Where("sold IS NOT NULL OR leftover IS NOT NULL").
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) DeleteAllocationsByEventTx(ctx context.Context, tx *gorm.DB, eventID uint64) error {
	if tx == nil || eventID == 0 {
		return nil
	}
	return tx.WithContext(ctx).Where("market_event_id = ?", eventID).Delete(&models.Allocation{}).Error
}

// --- side products ----------------------------------------------------------

func (s *Store) InsertSideProductEntry(ctx context.Context, item *models.SideProductEntry) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetSideProductEntryByID(ctx context.Context, id uint64) (*models.SideProductEntry, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.SideProductEntry
	err := s.db.WithContext(ctx).Model(&models.SideProductEntry{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) UpdateSideProductEntry(ctx context.Context, item *models.SideProductEntry) (int64, error) {
	if s == nil || s.db == nil || item == nil || item.ID == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.SideProductEntry{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"date":           item.Date,
			"regular_dozens": item.RegularDozens,
			"ghee_dozens":    item.GheeDozens,
			"notes":          item.Notes,
		})
	return res.RowsAffected, res.Error
}

func (s *Store) DeleteSideProductEntry(ctx context.Context, id uint64) (int64, error) {
	if s == nil || s.db == nil || id == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SideProductEntry{})
	return res.RowsAffected, res.Error
}

func (s *Store) ListSideProductEntries(ctx context.Context, params repository.ListSideProductsParams) ([]models.SideProductEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.SideProductEntry{})
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("date >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("date <= ?", *params.Until)
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "date")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.SideProductEntry
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSideProductEntries(ctx context.Context, params repository.ListSideProductsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := s.db.WithContext(ctx).Model(&models.SideProductEntry{})
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("date >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("date <= ?", *params.Until)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) SideProductTotals(ctx context.Context) (repository.SideProductTotals, error) {
	if s == nil || s.db == nil {
		return repository.SideProductTotals{}, nil
	}
	var row struct {
		Regular decimal.Decimal
		Ghee    decimal.Decimal
	}
	err := s.db.WithContext(ctx).
		Table("side_product_entries").
		Select(`
			COALESCE(SUM(regular_dozens),0) AS regular,
			COALESCE(SUM(ghee_dozens),0) AS ghee
		`).
		Scan(&row).Error
	if err != nil {
		return repository.SideProductTotals{}, err
	}
	return repository.SideProductTotals{
		Regular: row.Regular,
		Ghee:    row.Ghee,
		Total:   row.Regular.Add(row.Ghee),
	}, nil
}

// SideProductWeeklyTotals groups by ISO year-week so late-December days fall
// into week 01 of the next ISO year when the calendar says so.
func (s *Store) SideProductWeeklyTotals(ctx context.Context, limit int) ([]repository.WeeklyTotalRow, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 200)
	var rows []struct {
		YearWeek string
		Regular  decimal.Decimal
		Ghee     decimal.Decimal
	}
	err := s.db.WithContext(ctx).
		Table("side_product_entries").
		Select(`
			to_char(date, 'IYYY-IW') AS year_week,
			COALESCE(SUM(regular_dozens),0) AS regular,
			COALESCE(SUM(ghee_dozens),0) AS ghee
		`).
		Group("to_char(date, 'IYYY-IW')").
		Order("year_week desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]repository.WeeklyTotalRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, repository.WeeklyTotalRow{
			YearWeek: row.YearWeek,
			Regular:  row.Regular,
			Ghee:     row.Ghee,
			Total:    row.Regular.Add(row.Ghee),
		})
	}
	return out, nil
}

// --- snapshots --------------------------------------------------------------

func (s *Store) InsertStockSnapshot(ctx context.Context, item *models.StockSnapshot) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "snapshot_at"}},
		DoUpdates: clause.AssignmentColumns([]string{"wrapped_unbaked", "baked_available"}),
	}).Create(item).Error
}

func (s *Store) ListStockSnapshots(ctx context.Context, params repository.ListSnapshotsParams) ([]models.StockSnapshot, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.StockSnapshot{})
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("snapshot_at >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("snapshot_at <= ?", *params.Until)
	}
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.StockSnapshot
	if err := query.Order("snapshot_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- idempotency keys -------------------------------------------------------

func (s *Store) GetIdempotencyKeyTx(ctx context.Context, tx *gorm.DB, scope, key string) (*models.IdempotencyKey, error) {
	if tx == nil {
		return nil, nil
	}
	scope = strings.TrimSpace(scope)
	key = strings.TrimSpace(key)
	if scope == "" || key == "" {
		return nil, nil
	}
	var item models.IdempotencyKey
	err := tx.WithContext(ctx).
		Model(&models.IdempotencyKey{}).
		Where("scope = ?", scope).
		Where("key = ?", key).
		Where("expires_at > ?", time.Now().UTC()).
		First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) InsertIdempotencyKeyTx(ctx context.Context, tx *gorm.DB, item *models.IdempotencyKey) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) DeleteExpiredIdempotencyKeys(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	if before.IsZero() {
		before = time.Now().UTC()
	}
	res := s.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&models.IdempotencyKey{})
	return res.RowsAffected, res.Error
}

// --- audit trail ------------------------------------------------------------

func (s *Store) InsertAuditLog(ctx context.Context, item *models.AuditLog) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListAuditLogs(ctx context.Context, params repository.ListAuditLogsParams) ([]models.AuditLog, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyAuditFilters(s.db.WithContext(ctx).Model(&models.AuditLog{}), params)
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.AuditLog
	if err := query.Order("created_at desc, id desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountAuditLogs(ctx context.Context, params repository.ListAuditLogsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var total int64
	query := applyAuditFilters(s.db.WithContext(ctx).Model(&models.AuditLog{}), params)
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// --- helpers ----------------------------------------------------------------

func applyLedgerFilters(query *gorm.DB, params repository.ListLedgerParams) *gorm.DB {
	if params.FlavorID != nil && *params.FlavorID > 0 {
		query = query.Where("flavor_id = ?", *params.FlavorID)
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("date >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("date <= ?", *params.Until)
	}
	return query
}

func applyEventFilters(query *gorm.DB, params repository.ListEventsParams) *gorm.DB {
	if params.MarketID != nil && *params.MarketID > 0 {
		query = query.Where("e.market_id = ?", *params.MarketID)
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("e.event_date >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("e.event_date <= ?", *params.Until)
	}
	return query
}

func applyAuditFilters(query *gorm.DB, params repository.ListAuditLogsParams) *gorm.DB {
	if params.Entity != nil && strings.TrimSpace(*params.Entity) != "" {
		query = query.Where("entity = ?", strings.TrimSpace(*params.Entity))
	}
	if params.Action != nil && strings.TrimSpace(*params.Action) != "" {
		query = query.Where("action = ?", strings.TrimSpace(*params.Action))
	}
	return query
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction + ", id " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
