package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BakeEntry records dozens baked from frozen stock. Inserts are gated on
// the wrapped-unbaked balance at write time; the table itself is append-only.
type BakeEntry struct {
	ID       uint64          `gorm:"primaryKey;autoIncrement"`
	Date     time.Time       `gorm:"type:date;not null;index"`
	FlavorID uint64          `gorm:"not null;index"`
	Dozens   decimal.Decimal `gorm:"type:numeric(20,10);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (BakeEntry) TableName() string {
	return "bake_entries"
}
