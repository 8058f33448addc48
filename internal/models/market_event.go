package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MarketEvent struct {
	ID        uint64           `gorm:"primaryKey;autoIncrement"`
	MarketID  uint64           `gorm:"not null;index"`
	EventDate time.Time        `gorm:"type:date;not null;index"`
	Cash      *decimal.Decimal `gorm:"type:numeric(20,10)"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (MarketEvent) TableName() string {
	return "market_events"
}
