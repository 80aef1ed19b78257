package db

import (
	types "github.com/yungbote/pearl-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.MissionScore{},
		&types.VocabProgress{},
	)
}
