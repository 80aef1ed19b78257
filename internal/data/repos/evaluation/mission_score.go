package evaluation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/pearl-backend/internal/domain"
	"github.com/yungbote/pearl-backend/internal/platform/dbctx"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

type MissionScoreRepo interface {
	Upsert(dbc dbctx.Context, learnerID, missionID uuid.UUID, score float64, degraded bool, detail datatypes.JSON) error
	Get(dbc dbctx.Context, learnerID, missionID uuid.UUID) (*types.MissionScore, error)
}

type missionScoreRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMissionScoreRepo(db *gorm.DB, baseLog *logger.Logger) MissionScoreRepo {
	return &missionScoreRepo{
		db:  db,
		log: baseLog.With("repo", "MissionScoreRepo"),
	}
}

// Upsert stores the latest score for (learner, mission). Last write wins.
func (r *missionScoreRepo) Upsert(dbc dbctx.Context, learnerID, missionID uuid.UUID, score float64, degraded bool, detail datatypes.JSON) error {
	if learnerID == uuid.Nil || missionID == uuid.Nil {
		return nil
	}
	now := time.Now().UTC()
	row := &types.MissionScore{
		ID:        uuid.New(),
		LearnerID: learnerID,
		MissionID: missionID,
		Score:     score,
		Degraded:  degraded,
		Detail:    detail,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "learner_id"}, {Name: "mission_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "degraded", "detail", "updated_at"}),
		}).
		Create(row).Error
}

func (r *missionScoreRepo) Get(dbc dbctx.Context, learnerID, missionID uuid.UUID) (*types.MissionScore, error) {
	if learnerID == uuid.Nil || missionID == uuid.Nil {
		return nil, nil
	}
	var row types.MissionScore
	err := dbc.Conn(r.db).
		Where("learner_id = ? AND mission_id = ?", learnerID, missionID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}
