package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"baketrack/internal/models"
	"baketrack/internal/repository"
)

// SnapshotService captures the derived balances on a schedule so history
// can be charted without replaying the ledgers. Snapshots are a read-side
// convenience; live balances are always recomputed.
type SnapshotService struct {
	Repo    repository.Repository
	Balance *BalanceService
	Logger  *zap.Logger
}

func (s *SnapshotService) Capture(ctx context.Context) error {
	sheet, err := s.Balance.Balances(ctx)
	if err != nil {
		return fmt.Errorf("compute balances: %w", err)
	}
	wrapped, err := json.Marshal(sheet.WrappedUnbaked)
	if err != nil {
		return fmt.Errorf("encode wrapped balances: %w", err)
	}
	baked, err := json.Marshal(sheet.BakedAvailable)
	if err != nil {
		return fmt.Errorf("encode baked balances: %w", err)
	}
	item := &models.StockSnapshot{
		SnapshotAt:     time.Now().UTC().Truncate(time.Hour),
		WrappedUnbaked: datatypes.JSON(wrapped),
		BakedAvailable: datatypes.JSON(baked),
	}
	if err := s.Repo.InsertStockSnapshot(ctx, item); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info("stock snapshot captured", zap.Int("flavors", len(sheet.WrappedUnbaked)))
	}
	return nil
}

func (s *SnapshotService) History(ctx context.Context, params repository.ListSnapshotsParams) ([]models.StockSnapshot, error) {
	items, err := s.Repo.ListStockSnapshots(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return items, nil
}
