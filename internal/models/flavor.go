package models

import (
	"time"
)

type Flavor struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Flavor) TableName() string {
	return "flavors"
}
