package db

import (
	"baketrack/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Flavor{},
		&models.Market{},
		&models.WrappedEntry{},
		&models.BakeEntry{},
		&models.MarketEvent{},
		&models.Allocation{},
		&models.SideProductEntry{},
		&models.StockSnapshot{},
		&models.IdempotencyKey{},
		&models.AuditLog{},
	)
}
