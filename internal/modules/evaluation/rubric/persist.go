package rubric

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/pearl-backend/internal/platform/dbctx"
)

// missionDetail is the per-criterion breakdown stored with a mission score.
type missionDetail struct {
	GrammarScore float64  `json:"grammarScore"`
	GrammarNotes []string `json:"grammarNotes"`
	VocabScore   float64  `json:"vocabScore"`
	VocabUsed    []string `json:"vocabUsed"`
	VocabMissed  []string `json:"vocabMissed"`
	TaskScore    float64  `json:"taskScore"`
	TaskNotes    string   `json:"taskNotes"`
	IsDegraded   bool     `json:"isDegraded"`
	WeekNumber   int      `json:"weekNumber"`
	PhaseID      string   `json:"phaseId,omitempty"`
	ActivityType string   `json:"activityType,omitempty"`
}

// persist records the mission score and vocabulary encounters. Failures are
// logged and never change the outcome.
func (e *Evaluator) persist(ctx context.Context, req Request, out Outcome) {
	if req.LearnerID == uuid.Nil {
		return
	}
	// Finish writes even if the client hangs up.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.persistTimeout)
	defer cancel()
	dbc := dbctx.Context{Ctx: ctx}
	log := e.log.With("learner_id", req.LearnerID.String())

	if e.missions != nil {
		missionID, err := uuid.Parse(strings.TrimSpace(req.MissionID))
		switch {
		case strings.TrimSpace(req.MissionID) == "":
			log.Debug("mission score skipped: no mission id")
		case err != nil:
			log.Debug("mission score skipped: mission id is not a uuid", "error", err.Error())
		default:
			detail, err := json.Marshal(missionDetail{
				GrammarScore: out.Score.GrammarScore,
				GrammarNotes: out.Score.GrammarNotes,
				VocabScore:   out.Score.VocabScore,
				VocabUsed:    out.VocabUsed,
				VocabMissed:  out.VocabMissed,
				TaskScore:    out.Score.TaskScore,
				TaskNotes:    out.Score.TaskNotes,
				IsDegraded:   out.IsDegraded,
				WeekNumber:   req.WeekNumber,
				PhaseID:      strings.TrimSpace(req.PhaseID),
				ActivityType: strings.TrimSpace(req.ActivityType),
			})
			if err != nil {
				log.Error("mission score detail marshal failed", "error", err.Error())
				break
			}
			if err := e.missions.Upsert(dbc, req.LearnerID, missionID, out.Score.Average(), out.IsDegraded, datatypes.JSON(detail)); err != nil {
				log.Error("mission score upsert failed", "mission_id", missionID.String(), "error", err.Error())
			}
		}
	}

	if e.vocab != nil {
		for _, word := range out.VocabUsed {
			if err := e.vocab.RecordEncounter(dbc, req.LearnerID, word); err != nil {
				log.Error("vocab progress upsert failed", "word", word, "error", err.Error())
			}
		}
	}
}
