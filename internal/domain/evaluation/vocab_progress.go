package evaluation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VocabProgress counts how often a learner has used a target word in an
// evaluated submission. WordID is the lower-cased word.
type VocabProgress struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LearnerID uuid.UUID `gorm:"type:uuid;not null;index:idx_vocab_progress_learner_word,unique,priority:1" json:"learner_id"`
	WordID    string    `gorm:"column:word_id;not null;index:idx_vocab_progress_learner_word,unique,priority:2" json:"word_id"`

	Encounters int     `gorm:"column:encounters;not null;default:0" json:"encounters"`
	Mastery    float64 `gorm:"column:mastery;not null;default:0" json:"mastery"`

	LastSeenAt time.Time `gorm:"column:last_seen_at;not null" json:"last_seen_at"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (VocabProgress) TableName() string { return "vocab_progress" }

func (v *VocabProgress) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

const (
	// MasteryStep is added on every encounter.
	MasteryStep = 0.1
	MasteryMax  = 1.0
)
