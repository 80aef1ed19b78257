package evaluation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/pearl-backend/internal/domain"
	"github.com/yungbote/pearl-backend/internal/platform/dbctx"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

type VocabProgressRepo interface {
	// RecordEncounter bumps the encounter counter and mastery for one word in a
	// single statement.
	RecordEncounter(dbc dbctx.Context, learnerID uuid.UUID, word string) error
	Get(dbc dbctx.Context, learnerID uuid.UUID, word string) (*types.VocabProgress, error)
}

type vocabProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

// masteryEpsilon absorbs float drift from repeated MasteryStep additions so
// the tenth encounter lands exactly on MasteryMax.
const masteryEpsilon = 1e-9

func NewVocabProgressRepo(db *gorm.DB, baseLog *logger.Logger) VocabProgressRepo {
	return &vocabProgressRepo{
		db:  db,
		log: baseLog.With("repo", "VocabProgressRepo"),
	}
}

// WordID normalizes a vocabulary word into its progress key.
func WordID(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

func (r *vocabProgressRepo) RecordEncounter(dbc dbctx.Context, learnerID uuid.UUID, word string) error {
	wordID := WordID(word)
	if learnerID == uuid.Nil || wordID == "" {
		return nil
	}
	now := time.Now().UTC()
	row := &types.VocabProgress{
		ID:         uuid.New(),
		LearnerID:  learnerID,
		WordID:     wordID,
		Encounters: 1,
		Mastery:    types.MasteryStep,
		LastSeenAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	conn := dbc.Conn(r.db)
	// Postgres treats bare column names in DO UPDATE as ambiguous with EXCLUDED.
	col := func(name string) string { return name }
	if conn.Dialector.Name() == "postgres" {
		col = func(name string) string { return row.TableName() + "." + name }
	}
	return conn.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "learner_id"}, {Name: "word_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"encounters": gorm.Expr(col("encounters") + " + 1"),
				"mastery": gorm.Expr(
					"CASE WHEN "+col("mastery")+" + ? >= ? THEN ? ELSE "+col("mastery")+" + ? END",
					types.MasteryStep, types.MasteryMax-masteryEpsilon, types.MasteryMax, types.MasteryStep,
				),
				"last_seen_at": now,
				"updated_at":   now,
			}),
		}).
		Create(row).Error
}

func (r *vocabProgressRepo) Get(dbc dbctx.Context, learnerID uuid.UUID, word string) (*types.VocabProgress, error) {
	wordID := WordID(word)
	if learnerID == uuid.Nil || wordID == "" {
		return nil, nil
	}
	var row types.VocabProgress
	err := dbc.Conn(r.db).
		Where("learner_id = ? AND word_id = ?", learnerID, wordID).
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
