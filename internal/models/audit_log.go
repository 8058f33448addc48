package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLog struct {
	ID       uint64         `gorm:"primaryKey;autoIncrement"`
	Action   string         `gorm:"type:varchar(50);not null;index"`
	Entity   string         `gorm:"type:varchar(50);not null;index"`
	EntityID uint64         `gorm:"index"`
	Detail   datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
