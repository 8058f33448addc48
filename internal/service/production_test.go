package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"baketrack/internal/models"
)

var testDay = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func seedFlavor(t *testing.T, repo *stubRepo, name string) uint64 {
	t.Helper()
	item := &models.Flavor{Name: name}
	if err := repo.InsertFlavor(context.Background(), item); err != nil {
		t.Fatalf("seed flavor: %v", err)
	}
	return item.ID
}

func seedMarket(t *testing.T, repo *stubRepo, name string) uint64 {
	t.Helper()
	item := &models.Market{Name: name}
	if err := repo.InsertMarket(context.Background(), item); err != nil {
		t.Fatalf("seed market: %v", err)
	}
	return item.ID
}

func newProductionService(repo *stubRepo) *ProductionService {
	return &ProductionService{
		Repo:    repo,
		Balance: &BalanceService{Repo: repo},
		Audit:   &AuditService{Repo: repo},
	}
}

func TestProductionService_AddWrapped(t *testing.T) {
	repo := newStubRepo()
	flavorID := seedFlavor(t, repo, "beef")
	svc := newProductionService(repo)

	entry, err := svc.AddWrapped(context.Background(), LedgerEntryInput{
		Date:     testDay,
		FlavorID: flavorID,
		Dozens:   decimal.NewFromInt(12),
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if entry.ID == 0 {
		t.Fatalf("entry id not assigned")
	}
	if len(repo.wrapped) != 1 {
		t.Fatalf("wrapped=%d want=1", len(repo.wrapped))
	}
	if len(repo.audits) != 1 {
		t.Fatalf("audits=%d want=1", len(repo.audits))
	}
}

func TestProductionService_AddWrapped_UnknownFlavor(t *testing.T) {
	repo := newStubRepo()
	svc := newProductionService(repo)

	_, err := svc.AddWrapped(context.Background(), LedgerEntryInput{
		Date:     testDay,
		FlavorID: 99,
		Dozens:   decimal.NewFromInt(1),
	})
	if KindOf(err) != KindNotFound {
		t.Fatalf("kind=%q want=%q", KindOf(err), KindNotFound)
	}
}

func TestProductionService_AddWrapped_RejectsNonPositiveDozens(t *testing.T) {
	repo := newStubRepo()
	flavorID := seedFlavor(t, repo, "beef")
	svc := newProductionService(repo)

	_, err := svc.AddWrapped(context.Background(), LedgerEntryInput{
		Date:     testDay,
		FlavorID: flavorID,
		Dozens:   decimal.Zero,
	})
	if KindOf(err) != KindValidation {
		t.Fatalf("kind=%q want=%q", KindOf(err), KindValidation)
	}
	_, err = svc.AddWrapped(context.Background(), LedgerEntryInput{
		Date:     testDay,
		FlavorID: flavorID,
		Dozens:   decimal.NewFromInt(-2),
	})
	if KindOf(err) != KindValidation {
		t.Fatalf("kind=%q want=%q", KindOf(err), KindValidation)
	}
	if len(repo.wrapped) != 0 {
		t.Fatalf("wrapped=%d want=0", len(repo.wrapped))
	}
}

func TestProductionService_Bake_UpToWrappedBalance(t *testing.T) {
	repo := newStubRepo()
	flavorID := seedFlavor(t, repo, "beef")
	svc := newProductionService(repo)

	if _, err := svc.AddWrapped(context.Background(), LedgerEntryInput{
		Date:     testDay,
		FlavorID: flavorID,
		Dozens:   decimal.NewFromInt(10),
	}); err != nil {
		t.Fatalf("err=%v", err)
	}

	// Baking the full wrapped balance is allowed.
	if _, err := svc.Bake(context.Background(), LedgerEntryInput{
		Date:     testDay,
		FlavorID: flavorID,
		Dozens:   decimal.NewFromInt(10),
	}); err != nil {
		t.Fatalf("err=%v", err)
	}

	// Nothing is left to bake afterwards.
	_, err := svc.Bake(context.Background(), LedgerEntryInput{
		Date:     testDay,
		FlavorID: flavorID,
		Dozens:   decimal.NewFromFloat(0.5),
	})
	e, ok := AsError(err)
	if !ok || e.Kind != KindInsufficientStock {
		t.Fatalf("err=%v want insufficient stock", err)
	}
	if e.Available == nil || !e.Available.IsZero() {
		t.Fatalf("available=%v want=0", e.Available)
	}
}

func TestProductionService_Bake_ExceedsWrappedBalance(t *testing.T) {
	repo := newStubRepo()
	flavorID := seedFlavor(t, repo, "beef")
	svc := newProductionService(repo)

	if _, err := svc.AddWrapped(context.Background(), LedgerEntryInput{
		Date:     testDay,
		FlavorID: flavorID,
		Dozens:   decimal.NewFromInt(10),
	}); err != nil {
		t.Fatalf("err=%v", err)
	}

	_, err := svc.Bake(context.Background(), LedgerEntryInput{
		Date:     testDay,
		FlavorID: flavorID,
		Dozens:   decimal.NewFromFloat(10.01),
	})
	e, ok := AsError(err)
	if !ok || e.Kind != KindInsufficientStock {
		t.Fatalf("err=%v want insufficient stock", err)
	}
	if e.Available == nil || !e.Available.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("available=%v want=10", e.Available)
	}
	if len(repo.bakes) != 0 {
		t.Fatalf("bakes=%d want=0", len(repo.bakes))
	}
}

func TestProductionService_Bake_UnknownFlavor(t *testing.T) {
	repo := newStubRepo()
	svc := newProductionService(repo)

	_, err := svc.Bake(context.Background(), LedgerEntryInput{
		Date:     testDay,
		FlavorID: 99,
		Dozens:   decimal.NewFromInt(1),
	})
	if KindOf(err) != KindNotFound {
		t.Fatalf("kind=%q want=%q", KindOf(err), KindNotFound)
	}
}
