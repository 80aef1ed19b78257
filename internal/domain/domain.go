package domain

import (
	"github.com/yungbote/pearl-backend/internal/domain/evaluation"
)

type (
	MissionScore  = evaluation.MissionScore
	VocabProgress = evaluation.VocabProgress
)

const (
	MasteryStep = evaluation.MasteryStep
	MasteryMax  = evaluation.MasteryMax
)
