package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/pearl-backend/internal/data/repos/evaluation"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

type MissionScoreRepo = evaluation.MissionScoreRepo
type VocabProgressRepo = evaluation.VocabProgressRepo

func NewMissionScoreRepo(db *gorm.DB, baseLog *logger.Logger) MissionScoreRepo {
	return evaluation.NewMissionScoreRepo(db, baseLog)
}

func NewVocabProgressRepo(db *gorm.DB, baseLog *logger.Logger) VocabProgressRepo {
	return evaluation.NewVocabProgressRepo(db, baseLog)
}
