package repo

import (
	"github.com/marketwatch-ai/alert-engine/internal/entity"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Alert{},
		&entity.Profile{},
		&entity.Reminder{},
		&entity.Delivery{},
	)
}
