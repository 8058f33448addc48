package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"baketrack/internal/models"
	"baketrack/internal/repository"
)

const allocateScope = "allocate"

const defaultIdempotencyTTL = 24 * time.Hour

// EventService drives the market-day workflow: create an event, allocate
// baked stock onto it, record what came back, and settle up. Allocations
// are additive per (event, flavor); results are a strict conservation
// check; deleting an event is refused once any line has results.
type EventService struct {
	Repo           repository.Repository
	Balance        *BalanceService
	Logger         *zap.Logger
	Audit          *AuditService
	IdempotencyTTL time.Duration
}

func (s *EventService) CreateEvent(ctx context.Context, marketID uint64, eventDate time.Time) (*models.MarketEvent, error) {
	if marketID == 0 {
		return nil, validationErr("market id is required")
	}
	if eventDate.IsZero() {
		return nil, validationErr("event date is required")
	}
	market, err := s.Repo.GetMarketByID(ctx, marketID)
	if err != nil {
		return nil, fmt.Errorf("lookup market: %w", err)
	}
	if market == nil {
		return nil, notFoundErr("market %d not found", marketID)
	}
	item := &models.MarketEvent{
		MarketID:  marketID,
		EventDate: eventDate,
	}
	if err := s.Repo.InsertMarketEvent(ctx, item); err != nil {
		return nil, fmt.Errorf("insert market event: %w", err)
	}
	s.Audit.Record(ctx, "create", "market_event", item.ID, map[string]any{
		"market": market.Name,
		"date":   eventDate.Format("2006-01-02"),
	})
	return item, nil
}

type AllocateInput struct {
	EventID        uint64
	FlavorID       uint64
	Dozens         decimal.Decimal
	IdempotencyKey string
}

type AllocateResult struct {
	EventID   uint64
	FlavorID  uint64
	Added     decimal.Decimal
	Allocated decimal.Decimal
	Replayed  bool
}

// Allocate adds dozens onto the event's line for the flavor, creating the
// line on first use. The availability check, the additive upsert, and the
// optional idempotency-key bookkeeping all commit together; a retry that
// presents a known key replays the stored outcome instead of allocating
// twice.
func (s *EventService) Allocate(ctx context.Context, input AllocateInput) (AllocateResult, error) {
	if input.EventID == 0 {
		return AllocateResult{}, validationErr("event id is required")
	}
	if input.FlavorID == 0 {
		return AllocateResult{}, validationErr("flavor id is required")
	}
	if !input.Dozens.IsPositive() {
		return AllocateResult{}, validationErr("dozens must be a positive quantity")
	}
	key := strings.TrimSpace(input.IdempotencyKey)

	var out AllocateResult
	var flavorName string
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if key != "" {
			stored, err := s.Repo.GetIdempotencyKeyTx(ctx, tx, allocateScope, key)
			if err != nil {
				return fmt.Errorf("idempotency lookup: %w", err)
			}
			if stored != nil {
				prev := AllocateResult{EventID: input.EventID, FlavorID: input.FlavorID}
				if len(stored.Response) > 0 {
					_ = json.Unmarshal(stored.Response, &prev)
				}
				prev.Replayed = true
				out = prev
				return nil
			}
		}
		event, err := s.Repo.GetMarketEventByIDTx(ctx, tx, input.EventID)
		if err != nil {
			return fmt.Errorf("lookup event: %w", err)
		}
		if event == nil {
			return notFoundErr("market event %d not found", input.EventID)
		}
		flavor, err := s.Repo.LockFlavorTx(ctx, tx, input.FlavorID)
		if err != nil {
			return fmt.Errorf("lock flavor: %w", err)
		}
		if flavor == nil {
			return notFoundErr("flavor %d not found", input.FlavorID)
		}
		flavorName = flavor.Name
		available, err := s.Balance.BakedAvailableTx(ctx, tx, input.FlavorID)
		if err != nil {
			return err
		}
		if input.Dozens.GreaterThan(available) {
			return insufficientErr(available, "only %s dozen %s baked and available", available, flavor.Name)
		}
		if err := s.Repo.UpsertAllocationAddTx(ctx, tx, &models.Allocation{
			MarketEventID: input.EventID,
			FlavorID:      input.FlavorID,
			Allocated:     input.Dozens,
		}); err != nil {
			return fmt.Errorf("upsert allocation: %w", err)
		}
		line, err := s.Repo.GetAllocationTx(ctx, tx, input.EventID, input.FlavorID)
		if err != nil {
			return fmt.Errorf("reload allocation: %w", err)
		}
		out = AllocateResult{
			EventID:  input.EventID,
			FlavorID: input.FlavorID,
			Added:    input.Dozens,
		}
		if line != nil {
			out.Allocated = line.Allocated
		}
		if key != "" {
			raw, err := json.Marshal(out)
			if err != nil {
				return fmt.Errorf("encode idempotency response: %w", err)
			}
			ttl := s.IdempotencyTTL
			if ttl <= 0 {
				ttl = defaultIdempotencyTTL
			}
			if err := s.Repo.InsertIdempotencyKeyTx(ctx, tx, &models.IdempotencyKey{
				Scope:     allocateScope,
				Key:       key,
				Response:  datatypes.JSON(raw),
				ExpiresAt: time.Now().UTC().Add(ttl),
			}); err != nil {
				return fmt.Errorf("store idempotency key: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return AllocateResult{}, err
	}
	if !out.Replayed {
		s.Audit.Record(ctx, "allocate", "allocation", input.EventID, map[string]any{
			"flavor": flavorName,
			"dozens": input.Dozens.String(),
		})
	}
	return out, nil
}

type ResultsInput struct {
	EventID  uint64
	FlavorID uint64
	Brought  decimal.Decimal
	Sold     decimal.Decimal
	Leftover decimal.Decimal
}

// RecordResults writes the day's outcome for one allocation line. The
// conservation law sold + leftover == brought must hold exactly; a
// repeated call overwrites the previous figures.
func (s *EventService) RecordResults(ctx context.Context, input ResultsInput) error {
	if input.EventID == 0 {
		return validationErr("event id is required")
	}
	if input.FlavorID == 0 {
		return validationErr("flavor id is required")
	}
	if input.Brought.IsNegative() || input.Sold.IsNegative() || input.Leftover.IsNegative() {
		return validationErr("brought, sold and leftover must not be negative")
	}
	if !input.Sold.Add(input.Leftover).Equal(input.Brought) {
		return conservationErr("sold %s + leftover %s must equal brought %s",
			input.Sold, input.Leftover, input.Brought)
	}
	affected, err := s.Repo.UpdateAllocationResults(ctx, input.EventID, input.FlavorID,
		input.Brought, input.Sold, input.Leftover)
	if err != nil {
		return fmt.Errorf("update results: %w", err)
	}
	if affected == 0 {
		return notFoundErr("no allocation for flavor %d on event %d", input.FlavorID, input.EventID)
	}
	s.Audit.Record(ctx, "record_results", "allocation", input.EventID, map[string]any{
		"flavor_id": input.FlavorID,
		"brought":   input.Brought.String(),
		"sold":      input.Sold.String(),
		"leftover":  input.Leftover.String(),
	})
	return nil
}

// DeleteEvent removes an event and its allocation lines. Events with any
// recorded results are kept: their leftovers already feed the balance
// engine and silently dropping them would corrupt history.
func (s *EventService) DeleteEvent(ctx context.Context, eventID uint64) error {
	if eventID == 0 {
		return validationErr("event id is required")
	}
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		event, err := s.Repo.GetMarketEventByIDTx(ctx, tx, eventID)
		if err != nil {
			return fmt.Errorf("lookup event: %w", err)
		}
		if event == nil {
			return notFoundErr("market event %d not found", eventID)
		}
		resulted, err := s.Repo.CountResultedAllocationsTx(ctx, tx, eventID)
		if err != nil {
			return fmt.Errorf("count resulted lines: %w", err)
		}
		if resulted > 0 {
			return constraintErr("market event %d has recorded results and cannot be deleted", eventID)
		}
		if err := s.Repo.DeleteAllocationsByEventTx(ctx, tx, eventID); err != nil {
			return fmt.Errorf("delete allocations: %w", err)
		}
		if err := s.Repo.DeleteMarketEventTx(ctx, tx, eventID); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Audit.Record(ctx, "delete", "market_event", eventID, nil)
	return nil
}

// SetCash records the cash counted after the market day.
func (s *EventService) SetCash(ctx context.Context, eventID uint64, cash decimal.Decimal) error {
	if eventID == 0 {
		return validationErr("event id is required")
	}
	if cash.IsNegative() {
		return validationErr("cash must not be negative")
	}
	affected, err := s.Repo.UpdateMarketEventCash(ctx, eventID, cash)
	if err != nil {
		return fmt.Errorf("update cash: %w", err)
	}
	if affected == 0 {
		return notFoundErr("market event %d not found", eventID)
	}
	s.Audit.Record(ctx, "set_cash", "market_event", eventID, map[string]any{
		"cash": cash.String(),
	})
	return nil
}
