package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"baketrack/internal/models"
	"baketrack/internal/repository"
)

// SideProductService manages the standalone side-product ledger. It is the
// only editable ledger: entries track finished daily output with no stage
// flow or balance behind them.
type SideProductService struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Audit  *AuditService
}

type SideProductInput struct {
	Date          time.Time
	RegularDozens decimal.Decimal
	GheeDozens    decimal.Decimal
	Notes         string
}

func (in SideProductInput) validate() error {
	if in.Date.IsZero() {
		return validationErr("date is required")
	}
	if in.RegularDozens.IsNegative() || in.GheeDozens.IsNegative() {
		return validationErr("dozens must not be negative")
	}
	return nil
}

func (s *SideProductService) Create(ctx context.Context, input SideProductInput) (*models.SideProductEntry, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	item := &models.SideProductEntry{
		Date:          input.Date,
		RegularDozens: input.RegularDozens,
		GheeDozens:    input.GheeDozens,
		Notes:         input.Notes,
	}
	if err := s.Repo.InsertSideProductEntry(ctx, item); err != nil {
		return nil, fmt.Errorf("insert side product entry: %w", err)
	}
	s.Audit.Record(ctx, "create", "side_product_entry", item.ID, map[string]any{
		"date":    input.Date.Format("2006-01-02"),
		"regular": input.RegularDozens.String(),
		"ghee":    input.GheeDozens.String(),
	})
	return item, nil
}

// Update overwrites an entry in full. Validation failures leave the stored
// row untouched.
func (s *SideProductService) Update(ctx context.Context, id uint64, input SideProductInput) error {
	if id == 0 {
		return validationErr("entry id is required")
	}
	if err := input.validate(); err != nil {
		return err
	}
	affected, err := s.Repo.UpdateSideProductEntry(ctx, &models.SideProductEntry{
		ID:            id,
		Date:          input.Date,
		RegularDozens: input.RegularDozens,
		GheeDozens:    input.GheeDozens,
		Notes:         input.Notes,
	})
	if err != nil {
		return fmt.Errorf("update side product entry: %w", err)
	}
	if affected == 0 {
		return notFoundErr("side product entry %d not found", id)
	}
	s.Audit.Record(ctx, "update", "side_product_entry", id, map[string]any{
		"date":    input.Date.Format("2006-01-02"),
		"regular": input.RegularDozens.String(),
		"ghee":    input.GheeDozens.String(),
	})
	return nil
}

func (s *SideProductService) Delete(ctx context.Context, id uint64) error {
	if id == 0 {
		return validationErr("entry id is required")
	}
	affected, err := s.Repo.DeleteSideProductEntry(ctx, id)
	if err != nil {
		return fmt.Errorf("delete side product entry: %w", err)
	}
	if affected == 0 {
		return notFoundErr("side product entry %d not found", id)
	}
	s.Audit.Record(ctx, "delete", "side_product_entry", id, nil)
	return nil
}

func (s *SideProductService) Totals(ctx context.Context) (repository.SideProductTotals, error) {
	totals, err := s.Repo.SideProductTotals(ctx)
	if err != nil {
		return repository.SideProductTotals{}, fmt.Errorf("side product totals: %w", err)
	}
	return totals, nil
}

// WeeklyTotals groups by ISO year-week, newest week first.
func (s *SideProductService) WeeklyTotals(ctx context.Context, limit int) ([]repository.WeeklyTotalRow, error) {
	rows, err := s.Repo.SideProductWeeklyTotals(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("side product weekly totals: %w", err)
	}
	return rows, nil
}
