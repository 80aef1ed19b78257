package evaluation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MissionScore is the latest rubric outcome for a learner on a mission.
// One row per (learner, mission); re-submissions overwrite it.
type MissionScore struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LearnerID uuid.UUID `gorm:"type:uuid;not null;index:idx_mission_score_learner_mission,unique,priority:1" json:"learner_id"`
	MissionID uuid.UUID `gorm:"type:uuid;not null;index:idx_mission_score_learner_mission,unique,priority:2" json:"mission_id"`

	Score    float64 `gorm:"column:score;not null;default:0" json:"score"`
	Degraded bool    `gorm:"column:degraded;not null;default:false" json:"degraded"`

	// Per-criterion scores, notes and vocabulary coverage.
	Detail datatypes.JSON `gorm:"type:jsonb;column:detail" json:"detail"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (MissionScore) TableName() string { return "mission_score" }

func (m *MissionScore) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
