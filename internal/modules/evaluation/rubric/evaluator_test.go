package rubric

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/pearl-backend/internal/data/repos"
	"github.com/yungbote/pearl-backend/internal/data/repos/testutil"
	types "github.com/yungbote/pearl-backend/internal/domain"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/gateway"
	"github.com/yungbote/pearl-backend/internal/platform/dbctx"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

type completerFunc func(ctx context.Context, req gateway.Request) (string, error)

func (f completerFunc) Complete(ctx context.Context, req gateway.Request) (string, error) {
	return f(ctx, req)
}

func reply(s string) completerFunc {
	return func(context.Context, gateway.Request) (string, error) { return s, nil }
}

func failing(reason gateway.Reason) completerFunc {
	return func(context.Context, gateway.Request) (string, error) {
		return "", &gateway.Error{Reason: reason, Site: gateway.SiteRubric}
	}
}

type fixture struct {
	db       *gorm.DB
	missions repos.MissionScoreRepo
	vocab    repos.VocabProgressRepo
	dbc      dbctx.Context
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return fixture{
		db:       db,
		missions: repos.NewMissionScoreRepo(db, log),
		vocab:    repos.NewVocabProgressRepo(db, log),
		dbc:      dbctx.Context{Ctx: context.Background()},
	}
}

func (f fixture) evaluator(t *testing.T, gw Completer) *Evaluator {
	return NewEvaluator(gw, f.missions, f.vocab, testutil.Logger(t))
}

const passingReport = "Our team received the new directive on Monday morning. We reviewed every rule together, " +
	"fixed the two open issues in the archive, and confirmed full compliance before the Friday deadline. " +
	"The process was clear and everyone helped."

func passingRequest(learner, mission uuid.UUID) Request {
	return Request{
		LearnerID:     learner,
		WeekNumber:    2,
		PhaseID:       "debrief",
		ActivityType:  "mission_report",
		Content:       passingReport,
		GrammarTarget: "past simple",
		TargetVocab:   []string{"compliance", "directive", "ministry"},
		MissionID:     mission.String(),
	}
}

func TestEvaluateScoresAndPersists(t *testing.T) {
	f := newFixture(t)
	var seen gateway.Request
	gw := completerFunc(func(_ context.Context, req gateway.Request) (string, error) {
		seen = req
		return `{"grammarScore":0.9,"grammarNotes":["  ","check article use"],"vocabScore":1.4,"taskScore":-0.2,"taskNotes":"ok","feedback":"Well done."}`, nil
	})
	learner, mission := uuid.New(), uuid.New()

	out := f.evaluator(t, gw).Evaluate(context.Background(), passingRequest(learner, mission))
	if !out.Passed || out.IsDegraded {
		t.Fatalf("outcome=%+v", out)
	}
	if seen.Site != gateway.SiteRubric || seen.Schema == nil || seen.Schema.Name != "rubric_score" {
		t.Fatalf("unexpected gateway request: %+v", seen)
	}
	if !strings.Contains(seen.User, "GRAMMAR_TARGET: past simple") || !strings.Contains(seen.User, "VOCABULARY_MISSED: ministry") {
		t.Fatalf("prompt missing lesson context:\n%s", seen.User)
	}
	s := out.Score
	if s.GrammarScore != 0.9 || s.VocabScore != 1 || s.TaskScore != 0 {
		t.Fatalf("scores not clamped: %+v", s)
	}
	if len(s.GrammarNotes) != 1 || s.GrammarNotes[0] != "check article use" {
		t.Fatalf("notes=%v", s.GrammarNotes)
	}
	if out.PearlFeedback != "Well done." {
		t.Fatalf("feedback=%q", out.PearlFeedback)
	}

	row, err := f.missions.Get(f.dbc, learner, mission)
	if err != nil || row == nil {
		t.Fatalf("mission score not stored: row=%v err=%v", row, err)
	}
	if math.Abs(row.Score-(0.9+1+0)/3) > 1e-9 || row.Degraded {
		t.Fatalf("row=%+v", row)
	}
	var detail map[string]any
	if err := json.Unmarshal(row.Detail, &detail); err != nil {
		t.Fatalf("detail: %v", err)
	}
	if detail["phaseId"] != "debrief" || detail["isDegraded"] != false {
		t.Fatalf("detail=%v", detail)
	}

	for _, w := range []string{"compliance", "directive"} {
		vp, err := f.vocab.Get(f.dbc, learner, w)
		if err != nil || vp == nil || vp.Encounters != 1 {
			t.Fatalf("vocab %s: row=%+v err=%v", w, vp, err)
		}
	}
	if vp, _ := f.vocab.Get(f.dbc, learner, "ministry"); vp != nil {
		t.Fatalf("missed word must not be recorded")
	}
}

func TestEvaluateFallsBack(t *testing.T) {
	cases := []struct {
		name   string
		gw     Completer
		reason gateway.Reason
	}{
		{name: "no credentials", gw: failing(gateway.ReasonNoCredentials), reason: gateway.ReasonNoCredentials},
		{name: "timeout", gw: failing(gateway.ReasonTimeout), reason: gateway.ReasonTimeout},
		{name: "prose", gw: reply("Great job!"), reason: gateway.ReasonMalformed},
		{name: "missing score", gw: reply(`{"grammarScore":1,"vocabScore":1,"feedback":"x"}`), reason: gateway.ReasonMalformed},
		{name: "unknown field", gw: reply(`{"grammarScore":1,"vocabScore":1,"taskScore":1,"feedback":"x","bonus":true}`), reason: gateway.ReasonMalformed},
		{
			name: "panic",
			gw: completerFunc(func(context.Context, gateway.Request) (string, error) {
				panic("boom")
			}),
			reason: gateway.ReasonMalformed,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			learner, mission := uuid.New(), uuid.New()
			out := f.evaluator(t, tc.gw).Evaluate(context.Background(), passingRequest(learner, mission))
			if !out.Passed || !out.IsDegraded || out.DegradeReason != tc.reason {
				t.Fatalf("outcome=%+v", out)
			}
			s := out.Score
			if s.GrammarScore != 0.5 || s.TaskScore != 0.5 {
				t.Fatalf("fallback scores=%+v", s)
			}
			if math.Abs(s.VocabScore-2.0/3.0) > 1e-9 {
				t.Fatalf("vocab score=%v want 2/3", s.VocabScore)
			}
			if !strings.Contains(out.PearlFeedback, "You used 2 of 3 target words") {
				t.Fatalf("feedback=%q", out.PearlFeedback)
			}

			row, err := f.missions.Get(f.dbc, learner, mission)
			if err != nil || row == nil || !row.Degraded {
				t.Fatalf("fallback must still persist: row=%+v err=%v", row, err)
			}
		})
	}
}

func TestEvaluateFallbackWithoutVocabulary(t *testing.T) {
	f := newFixture(t)
	req := passingRequest(uuid.Nil, uuid.New())
	req.TargetVocab = nil
	out := f.evaluator(t, failing(gateway.ReasonTimeout)).Evaluate(context.Background(), req)
	if out.Score.VocabScore != 0.5 || !out.IsDegraded {
		t.Fatalf("outcome=%+v", out)
	}
	if strings.Contains(out.PearlFeedback, "target words") {
		t.Fatalf("feedback should not mention vocabulary: %q", out.PearlFeedback)
	}
}

func TestEvaluateBlockedNeverCallsModelOrPersists(t *testing.T) {
	f := newFixture(t)
	called := false
	gw := completerFunc(func(context.Context, gateway.Request) (string, error) {
		called = true
		return "", nil
	})
	learner, mission := uuid.New(), uuid.New()
	req := passingRequest(learner, mission)
	req.Content = "I go"
	req.TargetVocab = []string{"compliance", "directive"}

	out := f.evaluator(t, gw).Evaluate(context.Background(), req)
	if out.Passed || called {
		t.Fatalf("outcome=%+v called=%v", out, called)
	}
	if !strings.Contains(out.Reason, "30") || out.PearlFeedback == "" {
		t.Fatalf("outcome=%+v", out)
	}
	if len(out.VocabUsed) != 0 || len(out.VocabMissed) != 2 {
		t.Fatalf("vocab used=%v missed=%v", out.VocabUsed, out.VocabMissed)
	}
	if row, _ := f.missions.Get(f.dbc, learner, mission); row != nil {
		t.Fatalf("blocked submission must not persist")
	}
}

func TestEvaluateAnonymousAndBadMissionSkipPersistence(t *testing.T) {
	f := newFixture(t)
	ev := f.evaluator(t, reply(`{"grammarScore":1,"grammarNotes":[],"vocabScore":1,"taskScore":1,"taskNotes":"","feedback":"x"}`))

	mission := uuid.New()
	out := ev.Evaluate(context.Background(), passingRequest(uuid.Nil, mission))
	if !out.Passed || out.IsDegraded {
		t.Fatalf("outcome=%+v", out)
	}

	learner := uuid.New()
	req := passingRequest(learner, mission)
	req.MissionID = "mission-7"
	ev.Evaluate(context.Background(), req)
	if row, _ := f.missions.Get(f.dbc, learner, mission); row != nil {
		t.Fatalf("invalid mission id must not persist a score")
	}
	if vp, _ := f.vocab.Get(f.dbc, learner, "compliance"); vp == nil || vp.Encounters != 1 {
		t.Fatalf("vocab progress should still be recorded: %+v", vp)
	}
}

func TestEvaluateRepeatedSubmissionsOverwrite(t *testing.T) {
	f := newFixture(t)
	learner, mission := uuid.New(), uuid.New()
	ev := f.evaluator(t, failing(gateway.ReasonTimeout))
	for i := 0; i < 3; i++ {
		ev.Evaluate(context.Background(), passingRequest(learner, mission))
	}
	if n := testutil.CountRows(t, context.Background(), f.db, &types.MissionScore{}); n != 1 {
		t.Fatalf("rows=%d want 1", n)
	}
	vp, err := f.vocab.Get(f.dbc, learner, "directive")
	if err != nil || vp == nil || vp.Encounters != 3 {
		t.Fatalf("vocab=%+v err=%v", vp, err)
	}
	if math.Abs(vp.Mastery-0.3) > 1e-9 {
		t.Fatalf("mastery=%v", vp.Mastery)
	}
}

var errStoreDown = errors.New("database is closed")

type brokenMissions struct{ upserts int }

func (b *brokenMissions) Upsert(dbctx.Context, uuid.UUID, uuid.UUID, float64, bool, datatypes.JSON) error {
	b.upserts++
	return errStoreDown
}

func (b *brokenMissions) Get(dbctx.Context, uuid.UUID, uuid.UUID) (*types.MissionScore, error) {
	return nil, errStoreDown
}

type brokenVocab struct{ encounters int }

func (b *brokenVocab) RecordEncounter(dbctx.Context, uuid.UUID, string) error {
	b.encounters++
	return errStoreDown
}

func (b *brokenVocab) Get(dbctx.Context, uuid.UUID, string) (*types.VocabProgress, error) {
	return nil, errStoreDown
}

func TestEvaluatePersistenceFailureKeepsResult(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	missions, vocab := &brokenMissions{}, &brokenVocab{}
	gw := reply(`{"grammarScore":0.9,"grammarNotes":[],"vocabScore":0.8,"taskScore":0.7,"taskNotes":"","feedback":"Good work."}`)
	ev := NewEvaluator(gw, missions, vocab, logger.FromZap(zap.New(core)))

	out := ev.Evaluate(context.Background(), passingRequest(uuid.New(), uuid.New()))
	if !out.Passed || out.IsDegraded {
		t.Fatalf("outcome=%+v", out)
	}
	if out.Score.GrammarScore != 0.9 || out.Score.VocabScore != 0.8 || out.Score.TaskScore != 0.7 {
		t.Fatalf("scores changed by persistence failure: %+v", out.Score)
	}
	if out.PearlFeedback != "Good work." {
		t.Fatalf("feedback=%q", out.PearlFeedback)
	}
	if missions.upserts != 1 || vocab.encounters != 2 {
		t.Fatalf("upserts=%d encounters=%d", missions.upserts, vocab.encounters)
	}
	if n := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); n != 3 {
		t.Fatalf("error logs=%d want 3", n)
	}
}
