package models

import (
	"time"

	"gorm.io/datatypes"
)

// StockSnapshot is a periodic capture of the derived balances, kept for
// history charts. Live balances are always recomputed from the ledgers.
type StockSnapshot struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	SnapshotAt time.Time `gorm:"type:timestamptz;not null;uniqueIndex"`

	WrappedUnbaked datatypes.JSON `gorm:"type:jsonb;not null"`
	BakedAvailable datatypes.JSON `gorm:"type:jsonb;not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (StockSnapshot) TableName() string {
	return "stock_snapshots"
}
