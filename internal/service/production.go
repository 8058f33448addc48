package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"baketrack/internal/models"
	"baketrack/internal/repository"
)

// ProductionService writes the two stage ledgers. Wrapping is unguarded;
// baking must fit inside the wrapped-unbaked balance, checked and written
// under one transaction with the flavor row locked so concurrent bakes of
// the same flavor cannot both pass the check.
type ProductionService struct {
	Repo    repository.Repository
	Balance *BalanceService
	Logger  *zap.Logger
	Audit   *AuditService
}

type LedgerEntryInput struct {
	Date     time.Time
	FlavorID uint64
	Dozens   decimal.Decimal
}

func (in LedgerEntryInput) validate() error {
	if in.FlavorID == 0 {
		return validationErr("flavor id is required")
	}
	if in.Date.IsZero() {
		return validationErr("date is required")
	}
	if !in.Dozens.IsPositive() {
		return validationErr("dozens must be a positive quantity")
	}
	return nil
}

func (s *ProductionService) AddWrapped(ctx context.Context, input LedgerEntryInput) (*models.WrappedEntry, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	flavor, err := s.Repo.GetFlavorByID(ctx, input.FlavorID)
	if err != nil {
		return nil, fmt.Errorf("lookup flavor: %w", err)
	}
	if flavor == nil {
		return nil, notFoundErr("flavor %d not found", input.FlavorID)
	}
	item := &models.WrappedEntry{
		Date:     input.Date,
		FlavorID: input.FlavorID,
		Dozens:   input.Dozens,
	}
	if err := s.Repo.InsertWrappedEntry(ctx, item); err != nil {
		return nil, fmt.Errorf("insert wrapped entry: %w", err)
	}
	s.Audit.Record(ctx, "add_wrapped", "wrapped_entry", item.ID, map[string]any{
		"flavor": flavor.Name,
		"dozens": input.Dozens.String(),
		"date":   input.Date.Format("2006-01-02"),
	})
	return item, nil
}

func (s *ProductionService) Bake(ctx context.Context, input LedgerEntryInput) (*models.BakeEntry, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	var item *models.BakeEntry
	var flavorName string
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		flavor, err := s.Repo.LockFlavorTx(ctx, tx, input.FlavorID)
		if err != nil {
			return fmt.Errorf("lock flavor: %w", err)
		}
		if flavor == nil {
			return notFoundErr("flavor %d not found", input.FlavorID)
		}
		flavorName = flavor.Name
		available, err := s.Balance.WrappedUnbakedTx(ctx, tx, input.FlavorID)
		if err != nil {
			return err
		}
		if input.Dozens.GreaterThan(available) {
			return insufficientErr(available, "only %s dozen %s wrapped and unbaked available", available, flavor.Name)
		}
		entry := &models.BakeEntry{
			Date:     input.Date,
			FlavorID: input.FlavorID,
			Dozens:   input.Dozens,
		}
		if err := s.Repo.InsertBakeEntryTx(ctx, tx, entry); err != nil {
			return fmt.Errorf("insert bake entry: %w", err)
		}
		item = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Audit.Record(ctx, "bake", "bake_entry", item.ID, map[string]any{
		"flavor": flavorName,
		"dozens": input.Dozens.String(),
		"date":   input.Date.Format("2006-01-02"),
	})
	return item, nil
}
