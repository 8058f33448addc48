package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WrappedEntry records dozens wrapped and frozen on a given day.
// Entries are append-only; balances are always derived from their sum.
type WrappedEntry struct {
	ID       uint64          `gorm:"primaryKey;autoIncrement"`
	Date     time.Time       `gorm:"type:date;not null;index"`
	FlavorID uint64          `gorm:"not null;index"`
	Dozens   decimal.Decimal `gorm:"type:numeric(20,10);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (WrappedEntry) TableName() string {
	return "wrapped_entries"
}
