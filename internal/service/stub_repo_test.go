package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"baketrack/internal/models"
	"baketrack/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// Transactions are a pass-through: service tests exercise the guard logic,
// not the SQL isolation underneath it.
type stubRepo struct {
	seq          uint64
	flavors      map[uint64]models.Flavor
	markets      map[uint64]models.Market
	wrapped      []models.WrappedEntry
	bakes        []models.BakeEntry
	events       map[uint64]models.MarketEvent
	allocations  map[allocKey]models.Allocation
	sideProducts map[uint64]models.SideProductEntry
	snapshots    []models.StockSnapshot
	idemKeys     map[string]models.IdempotencyKey
	audits       []models.AuditLog
}

type allocKey struct {
	eventID  uint64
	flavorID uint64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		flavors:      map[uint64]models.Flavor{},
		markets:      map[uint64]models.Market{},
		events:       map[uint64]models.MarketEvent{},
		allocations:  map[allocKey]models.Allocation{},
		sideProducts: map[uint64]models.SideProductEntry{},
		idemKeys:     map[string]models.IdempotencyKey{},
	}
}

func (s *stubRepo) nextID() uint64 {
	s.seq++
	return s.seq
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func (s *stubRepo) InsertFlavor(ctx context.Context, item *models.Flavor) error {
	for _, f := range s.flavors {
		if f.Name == item.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	item.ID = s.nextID()
	s.flavors[item.ID] = *item
	return nil
}

func (s *stubRepo) GetFlavorByID(ctx context.Context, id uint64) (*models.Flavor, error) {
	if f, ok := s.flavors[id]; ok {
		return &f, nil
	}
	return nil, nil
}

func (s *stubRepo) GetFlavorByName(ctx context.Context, name string) (*models.Flavor, error) {
	for _, f := range s.flavors {
		if f.Name == name {
			return &f, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ListFlavors(ctx context.Context) ([]models.Flavor, error) {
	out := make([]models.Flavor, 0, len(s.flavors))
	for _, f := range s.flavors {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *stubRepo) LockFlavorTx(ctx context.Context, tx *gorm.DB, id uint64) (*models.Flavor, error) {
	return s.GetFlavorByID(ctx, id)
}

func (s *stubRepo) InsertMarket(ctx context.Context, item *models.Market) error {
	for _, m := range s.markets {
		if m.Name == item.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	item.ID = s.nextID()
	s.markets[item.ID] = *item
	return nil
}

func (s *stubRepo) GetMarketByID(ctx context.Context, id uint64) (*models.Market, error) {
	if m, ok := s.markets[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (s *stubRepo) GetMarketByName(ctx context.Context, name string) (*models.Market, error) {
	for _, m := range s.markets {
		if m.Name == name {
			return &m, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ListMarkets(ctx context.Context) ([]models.Market, error) {
	out := make([]models.Market, 0, len(s.markets))
	for _, m := range s.markets {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *stubRepo) InsertWrappedEntry(ctx context.Context, item *models.WrappedEntry) error {
	item.ID = s.nextID()
	s.wrapped = append(s.wrapped, *item)
	return nil
}

func (s *stubRepo) ListWrappedEntries(ctx context.Context, params repository.ListLedgerParams) ([]models.WrappedEntry, error) {
	var out []models.WrappedEntry
	for _, e := range s.wrapped {
		if params.FlavorID != nil && e.FlavorID != *params.FlavorID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *stubRepo) CountWrappedEntries(ctx context.Context, params repository.ListLedgerParams) (int64, error) {
	items, _ := s.ListWrappedEntries(ctx, params)
	return int64(len(items)), nil
}

func (s *stubRepo) InsertBakeEntryTx(ctx context.Context, tx *gorm.DB, item *models.BakeEntry) error {
	item.ID = s.nextID()
	s.bakes = append(s.bakes, *item)
	return nil
}

func (s *stubRepo) ListBakeEntries(ctx context.Context, params repository.ListLedgerParams) ([]models.BakeEntry, error) {
	var out []models.BakeEntry
	for _, e := range s.bakes {
		if params.FlavorID != nil && e.FlavorID != *params.FlavorID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *stubRepo) CountBakeEntries(ctx context.Context, params repository.ListLedgerParams) (int64, error) {
	items, _ := s.ListBakeEntries(ctx, params)
	return int64(len(items)), nil
}

func (s *stubRepo) SumWrappedByFlavor(ctx context.Context) ([]repository.FlavorTotalRow, error) {
	totals := map[uint64]decimal.Decimal{}
	for _, e := range s.wrapped {
		totals[e.FlavorID] = totals[e.FlavorID].Add(e.Dozens)
	}
	return totalRows(totals), nil
}

func (s *stubRepo) SumBakedByFlavor(ctx context.Context) ([]repository.FlavorTotalRow, error) {
	totals := map[uint64]decimal.Decimal{}
	for _, e := range s.bakes {
		totals[e.FlavorID] = totals[e.FlavorID].Add(e.Dozens)
	}
	return totalRows(totals), nil
}

func (s *stubRepo) SumAllocatedByFlavor(ctx context.Context) ([]repository.FlavorTotalRow, error) {
	totals := map[uint64]decimal.Decimal{}
	for _, line := range s.allocations {
		totals[line.FlavorID] = totals[line.FlavorID].Add(line.Allocated)
	}
	return totalRows(totals), nil
}

func (s *stubRepo) SumLeftoverByFlavor(ctx context.Context) ([]repository.FlavorTotalRow, error) {
	totals := map[uint64]decimal.Decimal{}
	for _, line := range s.allocations {
		if line.Leftover == nil {
			continue
		}
		totals[line.FlavorID] = totals[line.FlavorID].Add(*line.Leftover)
	}
	return totalRows(totals), nil
}

func totalRows(totals map[uint64]decimal.Decimal) []repository.FlavorTotalRow {
	out := make([]repository.FlavorTotalRow, 0, len(totals))
	for id, total := range totals {
		out = append(out, repository.FlavorTotalRow{FlavorID: id, Total: total})
	}
	return out
}

func (s *stubRepo) SumWrappedForFlavorTx(ctx context.Context, tx *gorm.DB, flavorID uint64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range s.wrapped {
		if e.FlavorID == flavorID {
			total = total.Add(e.Dozens)
		}
	}
	return total, nil
}

func (s *stubRepo) SumBakedForFlavorTx(ctx context.Context, tx *gorm.DB, flavorID uint64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range s.bakes {
		if e.FlavorID == flavorID {
			total = total.Add(e.Dozens)
		}
	}
	return total, nil
}

func (s *stubRepo) SumAllocatedForFlavorTx(ctx context.Context, tx *gorm.DB, flavorID uint64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range s.allocations {
		if line.FlavorID == flavorID {
			total = total.Add(line.Allocated)
		}
	}
	return total, nil
}

func (s *stubRepo) SumLeftoverForFlavorTx(ctx context.Context, tx *gorm.DB, flavorID uint64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range s.allocations {
		if line.FlavorID == flavorID && line.Leftover != nil {
			total = total.Add(*line.Leftover)
		}
	}
	return total, nil
}

func (s *stubRepo) InsertMarketEvent(ctx context.Context, item *models.MarketEvent) error {
	item.ID = s.nextID()
	s.events[item.ID] = *item
	return nil
}

func (s *stubRepo) GetMarketEventByID(ctx context.Context, id uint64) (*models.MarketEvent, error) {
	if e, ok := s.events[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *stubRepo) GetMarketEventByIDTx(ctx context.Context, tx *gorm.DB, id uint64) (*models.MarketEvent, error) {
	return s.GetMarketEventByID(ctx, id)
}

func (s *stubRepo) ListEventSummaries(ctx context.Context, params repository.ListEventsParams) ([]repository.EventSummaryRow, error) {
	return nil, nil
}

func (s *stubRepo) CountMarketEvents(ctx context.Context, params repository.ListEventsParams) (int64, error) {
	return int64(len(s.events)), nil
}

func (s *stubRepo) UpdateMarketEventCash(ctx context.Context, id uint64, cash decimal.Decimal) (int64, error) {
	e, ok := s.events[id]
	if !ok {
		return 0, nil
	}
	c := cash
	e.Cash = &c
	s.events[id] = e
	return 1, nil
}

func (s *stubRepo) DeleteMarketEventTx(ctx context.Context, tx *gorm.DB, id uint64) error {
	delete(s.events, id)
	return nil
}

func (s *stubRepo) UpsertAllocationAddTx(ctx context.Context, tx *gorm.DB, item *models.Allocation) error {
	k := allocKey{item.MarketEventID, item.FlavorID}
	if line, ok := s.allocations[k]; ok {
		line.Allocated = line.Allocated.Add(item.Allocated)
		s.allocations[k] = line
		return nil
	}
	item.ID = s.nextID()
	s.allocations[k] = *item
	return nil
}

func (s *stubRepo) GetAllocationTx(ctx context.Context, tx *gorm.DB, eventID, flavorID uint64) (*models.Allocation, error) {
	if line, ok := s.allocations[allocKey{eventID, flavorID}]; ok {
		return &line, nil
	}
	return nil, nil
}

func (s *stubRepo) ListAllocationsByEventID(ctx context.Context, eventID uint64) ([]repository.AllocationRow, error) {
	var out []repository.AllocationRow
	for k, line := range s.allocations {
		if k.eventID != eventID {
			continue
		}
		out = append(out, repository.AllocationRow{
			FlavorID:   line.FlavorID,
			FlavorName: s.flavors[line.FlavorID].Name,
			Allocated:  line.Allocated,
			Brought:    line.Brought,
			Sold:       line.Sold,
			Leftover:   line.Leftover,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FlavorName < out[j].FlavorName })
	return out, nil
}

func (s *stubRepo) UpdateAllocationResults(ctx context.Context, eventID, flavorID uint64, brought, sold, leftover decimal.Decimal) (int64, error) {
	k := allocKey{eventID, flavorID}
	line, ok := s.allocations[k]
	if !ok {
		return 0, nil
	}
	b, so, l := brought, sold, leftover
	line.Brought, line.Sold, line.Leftover = &b, &so, &l
	s.allocations[k] = line
	return 1, nil
}

func (s *stubRepo) CountResultedAllocationsTx(ctx context.Context, tx *gorm.DB, eventID uint64) (int64, error) {
	var total int64
	for k, line := range s.allocations {
		if k.eventID == eventID && (line.Sold != nil || line.Leftover != nil) {
			total++
		}
	}
	return total, nil
}

func (s *stubRepo) DeleteAllocationsByEventTx(ctx context.Context, tx *gorm.DB, eventID uint64) error {
	for k := range s.allocations {
		if k.eventID == eventID {
			delete(s.allocations, k)
		}
	}
	return nil
}

func (s *stubRepo) InsertSideProductEntry(ctx context.Context, item *models.SideProductEntry) error {
	item.ID = s.nextID()
	s.sideProducts[item.ID] = *item
	return nil
}

func (s *stubRepo) GetSideProductEntryByID(ctx context.Context, id uint64) (*models.SideProductEntry, error) {
	if e, ok := s.sideProducts[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *stubRepo) UpdateSideProductEntry(ctx context.Context, item *models.SideProductEntry) (int64, error) {
	if _, ok := s.sideProducts[item.ID]; !ok {
		return 0, nil
	}
	s.sideProducts[item.ID] = *item
	return 1, nil
}

func (s *stubRepo) DeleteSideProductEntry(ctx context.Context, id uint64) (int64, error) {
	if _, ok := s.sideProducts[id]; !ok {
		return 0, nil
	}
	delete(s.sideProducts, id)
	return 1, nil
}

func (s *stubRepo) ListSideProductEntries(ctx context.Context, params repository.ListSideProductsParams) ([]models.SideProductEntry, error) {
	out := make([]models.SideProductEntry, 0, len(s.sideProducts))
	for _, e := range s.sideProducts {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) CountSideProductEntries(ctx context.Context, params repository.ListSideProductsParams) (int64, error) {
	return int64(len(s.sideProducts)), nil
}

func (s *stubRepo) SideProductTotals(ctx context.Context) (repository.SideProductTotals, error) {
	var totals repository.SideProductTotals
	for _, e := range s.sideProducts {
		totals.Regular = totals.Regular.Add(e.RegularDozens)
		totals.Ghee = totals.Ghee.Add(e.GheeDozens)
	}
	totals.Total = totals.Regular.Add(totals.Ghee)
	return totals, nil
}

func (s *stubRepo) SideProductWeeklyTotals(ctx context.Context, limit int) ([]repository.WeeklyTotalRow, error) {
	totals := map[string]repository.WeeklyTotalRow{}
	for _, e := range s.sideProducts {
		year, week := e.Date.ISOWeek()
		key := fmt.Sprintf("%04d-%02d", year, week)
		row := totals[key]
		row.YearWeek = key
		row.Regular = row.Regular.Add(e.RegularDozens)
		row.Ghee = row.Ghee.Add(e.GheeDozens)
		row.Total = row.Total.Add(e.RegularDozens).Add(e.GheeDozens)
		totals[key] = row
	}
	out := make([]repository.WeeklyTotalRow, 0, len(totals))
	for _, row := range totals {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].YearWeek > out[j].YearWeek })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubRepo) InsertStockSnapshot(ctx context.Context, item *models.StockSnapshot) error {
	for i, snap := range s.snapshots {
		if snap.SnapshotAt.Equal(item.SnapshotAt) {
			item.ID = snap.ID
			s.snapshots[i] = *item
			return nil
		}
	}
	item.ID = s.nextID()
	s.snapshots = append(s.snapshots, *item)
	return nil
}

func (s *stubRepo) ListStockSnapshots(ctx context.Context, params repository.ListSnapshotsParams) ([]models.StockSnapshot, error) {
	return s.snapshots, nil
}

func (s *stubRepo) GetIdempotencyKeyTx(ctx context.Context, tx *gorm.DB, scope, key string) (*models.IdempotencyKey, error) {
	item, ok := s.idemKeys[scope+"/"+key]
	if !ok || !item.ExpiresAt.After(time.Now().UTC()) {
		return nil, nil
	}
	return &item, nil
}

func (s *stubRepo) InsertIdempotencyKeyTx(ctx context.Context, tx *gorm.DB, item *models.IdempotencyKey) error {
	k := item.Scope + "/" + item.Key
	if _, ok := s.idemKeys[k]; ok {
		return gorm.ErrDuplicatedKey
	}
	item.ID = s.nextID()
	s.idemKeys[k] = *item
	return nil
}

func (s *stubRepo) DeleteExpiredIdempotencyKeys(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	for k, item := range s.idemKeys {
		if item.ExpiresAt.Before(before) {
			delete(s.idemKeys, k)
			n++
		}
	}
	return n, nil
}

func (s *stubRepo) InsertAuditLog(ctx context.Context, item *models.AuditLog) error {
	item.ID = s.nextID()
	s.audits = append(s.audits, *item)
	return nil
}

func (s *stubRepo) ListAuditLogs(ctx context.Context, params repository.ListAuditLogsParams) ([]models.AuditLog, error) {
	return s.audits, nil
}

func (s *stubRepo) CountAuditLogs(ctx context.Context, params repository.ListAuditLogsParams) (int64, error) {
	return int64(len(s.audits)), nil
}
