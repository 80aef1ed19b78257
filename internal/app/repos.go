package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/pearl-backend/internal/data/repos"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

type Repos struct {
	MissionScore  repos.MissionScoreRepo
	VocabProgress repos.VocabProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		MissionScore:  repos.NewMissionScoreRepo(db, log),
		VocabProgress: repos.NewVocabProgressRepo(db, log),
	}
}
