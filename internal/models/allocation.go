package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Allocation is one flavor's line on a market event. Allocated accumulates
// across repeated allocate calls; Brought/Sold/Leftover stay NULL until
// results are recorded for the line.
type Allocation struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	MarketEventID uint64 `gorm:"not null;uniqueIndex:idx_allocation_event_flavor"`
	FlavorID      uint64 `gorm:"not null;uniqueIndex:idx_allocation_event_flavor;index"`

	Allocated decimal.Decimal  `gorm:"type:numeric(20,10);not null;default:0"`
	Brought   *decimal.Decimal `gorm:"type:numeric(20,10)"`
	Sold      *decimal.Decimal `gorm:"type:numeric(20,10)"`
	Leftover  *decimal.Decimal `gorm:"type:numeric(20,10)"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Allocation) TableName() string {
	return "allocations"
}
