package app

import (
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/annotate"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/remark"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/rubric"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/transcribe"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

type Services struct {
	GrammarCheck  *annotate.Service
	Rubric        *rubric.Evaluator
	Remark        *remark.Service
	Transcription *transcribe.Service
}

func wireServices(log *logger.Logger, clients Clients, reposet Repos) Services {
	log.Info("Wiring services...")
	return Services{
		GrammarCheck:  annotate.NewService(clients.Gateway, log),
		Rubric:        rubric.NewEvaluator(clients.Gateway, reposet.MissionScore, reposet.VocabProgress, log),
		Remark:        remark.NewService(clients.Gateway, log),
		Transcription: transcribe.NewService(clients.Gateway, log),
	}
}
