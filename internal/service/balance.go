package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"baketrack/internal/repository"
)

// BalanceService derives stock levels from the ledgers on every call.
// Nothing is cached: the ledgers are the single source of truth and the
// sums are cheap at this scale.
type BalanceService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// BalanceSheet holds both derived balances keyed by flavor name. Every
// registered flavor appears, zero-valued when it has no ledger rows.
type BalanceSheet struct {
	WrappedUnbaked map[string]decimal.Decimal
	BakedAvailable map[string]decimal.Decimal
}

// WrappedUnbakedTx computes max(0, wrapped - baked) for one flavor inside
// the caller's transaction.
func (s *BalanceService) WrappedUnbakedTx(ctx context.Context, tx *gorm.DB, flavorID uint64) (decimal.Decimal, error) {
	wrapped, err := s.Repo.SumWrappedForFlavorTx(ctx, tx, flavorID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum wrapped: %w", err)
	}
	baked, err := s.Repo.SumBakedForFlavorTx(ctx, tx, flavorID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum baked: %w", err)
	}
	return clampZero(wrapped.Sub(baked)), nil
}

// BakedAvailableTx computes max(0, baked - allocated + leftover) for one
// flavor inside the caller's transaction. Recorded leftovers flow back in
// because unsold dozens return to the sellable pool.
func (s *BalanceService) BakedAvailableTx(ctx context.Context, tx *gorm.DB, flavorID uint64) (decimal.Decimal, error) {
	baked, err := s.Repo.SumBakedForFlavorTx(ctx, tx, flavorID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum baked: %w", err)
	}
	allocated, err := s.Repo.SumAllocatedForFlavorTx(ctx, tx, flavorID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum allocated: %w", err)
	}
	leftover, err := s.Repo.SumLeftoverForFlavorTx(ctx, tx, flavorID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum leftover: %w", err)
	}
	return clampZero(baked.Sub(allocated).Add(leftover)), nil
}

// Balances computes both balances for every registered flavor. An empty
// registry yields empty maps, never an error.
func (s *BalanceService) Balances(ctx context.Context) (BalanceSheet, error) {
	flavors, err := s.Repo.ListFlavors(ctx)
	if err != nil {
		return BalanceSheet{}, fmt.Errorf("list flavors: %w", err)
	}
	wrapped, err := totalsByFlavor(s.Repo.SumWrappedByFlavor(ctx))
	if err != nil {
		return BalanceSheet{}, fmt.Errorf("sum wrapped: %w", err)
	}
	baked, err := totalsByFlavor(s.Repo.SumBakedByFlavor(ctx))
	if err != nil {
		return BalanceSheet{}, fmt.Errorf("sum baked: %w", err)
	}
	allocated, err := totalsByFlavor(s.Repo.SumAllocatedByFlavor(ctx))
	if err != nil {
		return BalanceSheet{}, fmt.Errorf("sum allocated: %w", err)
	}
	leftover, err := totalsByFlavor(s.Repo.SumLeftoverByFlavor(ctx))
	if err != nil {
		return BalanceSheet{}, fmt.Errorf("sum leftover: %w", err)
	}

	sheet := BalanceSheet{
		WrappedUnbaked: make(map[string]decimal.Decimal, len(flavors)),
		BakedAvailable: make(map[string]decimal.Decimal, len(flavors)),
	}
	for _, flavor := range flavors {
		w := wrapped[flavor.ID]
		b := baked[flavor.ID]
		a := allocated[flavor.ID]
		l := leftover[flavor.ID]
		sheet.WrappedUnbaked[flavor.Name] = clampZero(w.Sub(b))
		sheet.BakedAvailable[flavor.Name] = clampZero(b.Sub(a).Add(l))
	}
	return sheet, nil
}

func totalsByFlavor(rows []repository.FlavorTotalRow, err error) (map[uint64]decimal.Decimal, error) {
	if err != nil {
		return nil, err
	}
	out := make(map[uint64]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.FlavorID] = row.Total
	}
	return out, nil
}

// clampZero floors a derived balance at zero so inconsistent history (old
// results recorded before their ledgers were backfilled) reads as empty
// stock instead of negative stock.
func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
