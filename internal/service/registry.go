package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"baketrack/internal/models"
	"baketrack/internal/repository"
)

// RegistryService owns the flavor and market catalogs. Names are unique;
// neither catalog supports update or delete so ledger rows never dangle.
type RegistryService struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Audit  *AuditService
}

func (s *RegistryService) CreateFlavor(ctx context.Context, name string) (*models.Flavor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("flavor name is required")
	}
	existing, err := s.Repo.GetFlavorByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup flavor: %w", err)
	}
	if existing != nil {
		return nil, constraintErr("flavor %q already exists", name)
	}
	item := &models.Flavor{Name: name}
	if err := s.Repo.InsertFlavor(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, constraintErr("flavor %q already exists", name)
		}
		return nil, fmt.Errorf("insert flavor: %w", err)
	}
	s.Audit.Record(ctx, "create", "flavor", item.ID, map[string]any{"name": name})
	return item, nil
}

func (s *RegistryService) CreateMarket(ctx context.Context, name string) (*models.Market, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("market name is required")
	}
	existing, err := s.Repo.GetMarketByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup market: %w", err)
	}
	if existing != nil {
		return nil, constraintErr("market %q already exists", name)
	}
	item := &models.Market{Name: name}
	if err := s.Repo.InsertMarket(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, constraintErr("market %q already exists", name)
		}
		return nil, fmt.Errorf("insert market: %w", err)
	}
	s.Audit.Record(ctx, "create", "market", item.ID, map[string]any{"name": name})
	return item, nil
}
