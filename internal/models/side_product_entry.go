package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SideProductEntry is a standalone daily production record. Unlike the
// stage ledgers it is editable: rows can be updated or deleted.
type SideProductEntry struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement"`
	Date          time.Time       `gorm:"type:date;not null;index"`
	RegularDozens decimal.Decimal `gorm:"type:numeric(20,10);not null;default:0"`
	GheeDozens    decimal.Decimal `gorm:"type:numeric(20,10);not null;default:0"`
	Notes         string          `gorm:"type:text"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (SideProductEntry) TableName() string {
	return "side_product_entries"
}
