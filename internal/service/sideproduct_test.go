package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newSideProductService(repo *stubRepo) *SideProductService {
	return &SideProductService{Repo: repo, Audit: &AuditService{Repo: repo}}
}

func TestSideProductService_CreateAndTotals(t *testing.T) {
	repo := newStubRepo()
	svc := newSideProductService(repo)

	entry, err := svc.Create(context.Background(), SideProductInput{
		Date:          testDay,
		RegularDozens: decimal.NewFromInt(3),
		GheeDozens:    decimal.NewFromFloat(1.5),
		Notes:         "morning batch",
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if entry.ID == 0 {
		t.Fatalf("entry id not assigned")
	}
	if _, err := svc.Create(context.Background(), SideProductInput{
		Date:          testDay.AddDate(0, 0, 1),
		RegularDozens: decimal.NewFromInt(2),
	}); err != nil {
		t.Fatalf("err=%v", err)
	}

	totals, err := svc.Totals(context.Background())
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !totals.Regular.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("regular=%s want=5", totals.Regular)
	}
	if !totals.Ghee.Equal(decimal.NewFromFloat(1.5)) {
		t.Fatalf("ghee=%s want=1.5", totals.Ghee)
	}
	if !totals.Total.Equal(decimal.NewFromFloat(6.5)) {
		t.Fatalf("total=%s want=6.5", totals.Total)
	}
}

func TestSideProductService_Create_RejectsNegativeDozens(t *testing.T) {
	repo := newStubRepo()
	svc := newSideProductService(repo)

	_, err := svc.Create(context.Background(), SideProductInput{
		Date:          testDay,
		RegularDozens: decimal.NewFromInt(-1),
	})
	if KindOf(err) != KindValidation {
		t.Fatalf("kind=%q want=%q", KindOf(err), KindValidation)
	}
	if len(repo.sideProducts) != 0 {
		t.Fatalf("entries=%d want=0", len(repo.sideProducts))
	}
}

func TestSideProductService_Update(t *testing.T) {
	repo := newStubRepo()
	svc := newSideProductService(repo)

	entry, err := svc.Create(context.Background(), SideProductInput{
		Date:          testDay,
		RegularDozens: decimal.NewFromInt(3),
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}

	if err := svc.Update(context.Background(), entry.ID, SideProductInput{
		Date:          testDay,
		RegularDozens: decimal.NewFromInt(4),
		GheeDozens:    decimal.NewFromInt(1),
		Notes:         "recount",
	}); err != nil {
		t.Fatalf("err=%v", err)
	}
	stored := repo.sideProducts[entry.ID]
	if !stored.RegularDozens.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("regular=%s want=4", stored.RegularDozens)
	}
	if stored.Notes != "recount" {
		t.Fatalf("notes=%q want=recount", stored.Notes)
	}
}

func TestSideProductService_Update_MissingEntry(t *testing.T) {
	repo := newStubRepo()
	svc := newSideProductService(repo)

	err := svc.Update(context.Background(), 99, SideProductInput{
		Date:          testDay,
		RegularDozens: decimal.NewFromInt(1),
	})
	if KindOf(err) != KindNotFound {
		t.Fatalf("kind=%q want=%q", KindOf(err), KindNotFound)
	}
}

func TestSideProductService_Delete(t *testing.T) {
	repo := newStubRepo()
	svc := newSideProductService(repo)

	entry, err := svc.Create(context.Background(), SideProductInput{
		Date:          testDay,
		RegularDozens: decimal.NewFromInt(3),
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}

	if err := svc.Delete(context.Background(), entry.ID); err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(repo.sideProducts) != 0 {
		t.Fatalf("entries=%d want=0", len(repo.sideProducts))
	}
	err = svc.Delete(context.Background(), entry.ID)
	if KindOf(err) != KindNotFound {
		t.Fatalf("kind=%q want=%q", KindOf(err), KindNotFound)
	}
}

func TestSideProductService_WeeklyTotals(t *testing.T) {
	repo := newStubRepo()
	svc := newSideProductService(repo)

	// Two entries in ISO week 11 of 2026, one in week 12.
	for _, e := range []SideProductInput{
		{Date: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), RegularDozens: decimal.NewFromInt(3)},
		{Date: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), RegularDozens: decimal.NewFromInt(2)},
		{Date: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), GheeDozens: decimal.NewFromInt(1)},
	} {
		if _, err := svc.Create(context.Background(), e); err != nil {
			t.Fatalf("err=%v", err)
		}
	}

	rows, err := svc.WeeklyTotals(context.Background(), 10)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d want=2", len(rows))
	}
	if rows[0].YearWeek != "2026-12" {
		t.Fatalf("week=%q want=2026-12", rows[0].YearWeek)
	}
	if !rows[0].Total.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("week total=%s want=1", rows[0].Total)
	}
	if rows[1].YearWeek != "2026-11" {
		t.Fatalf("week=%q want=2026-11", rows[1].YearWeek)
	}
	if !rows[1].Regular.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("week regular=%s want=5", rows[1].Regular)
	}
}
