package models

import (
	"time"

	"gorm.io/datatypes"
)

// IdempotencyKey stores the outcome of a completed mutating request so a
// retry with the same key replays the stored response instead of running
// the operation again. Rows expire and are swept by cron.
type IdempotencyKey struct {
	ID       uint64         `gorm:"primaryKey;autoIncrement"`
	Scope    string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_idempotency_scope_key"`
	Key      string         `gorm:"type:varchar(100);not null;uniqueIndex:idx_idempotency_scope_key"`
	Response datatypes.JSON `gorm:"type:jsonb"`

	ExpiresAt time.Time `gorm:"type:timestamptz;not null;index"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}
