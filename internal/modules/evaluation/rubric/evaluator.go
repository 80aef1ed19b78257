package rubric

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/pearl-backend/internal/data/repos"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/gateway"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/prompts"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

// Completer is the slice of the model gateway the evaluator needs.
type Completer interface {
	Complete(ctx context.Context, req gateway.Request) (string, error)
}

type Request struct {
	// LearnerID is uuid.Nil for anonymous requests; nothing is persisted then.
	LearnerID     uuid.UUID
	WeekNumber    int
	PhaseID       string
	ActivityType  string
	Content       string
	GrammarTarget string
	TargetVocab   []string
	MissionID     string
	Lane          string
	RubricWeights map[string]float64
}

type Score struct {
	GrammarScore float64
	GrammarNotes []string
	VocabScore   float64
	TaskScore    float64
	TaskNotes    string
	Feedback     string
}

// Average is the single mission score stored for the learner.
func (s Score) Average() float64 {
	return (s.GrammarScore + s.VocabScore + s.TaskScore) / 3
}

// Outcome is either Blocked (Passed=false) or Evaluated. An evaluated outcome
// with IsDegraded carries fallback scores.
type Outcome struct {
	Passed        bool
	Reason        string
	PearlFeedback string
	VocabUsed     []string
	VocabMissed   []string
	Score         Score
	IsDegraded    bool
	DegradeReason gateway.Reason
}

type Evaluator struct {
	gw       Completer
	missions repos.MissionScoreRepo
	vocab    repos.VocabProgressRepo
	log      *logger.Logger

	persistTimeout time.Duration
}

// NewEvaluator wires the evaluator. The repos may be nil, which disables
// persistence.
func NewEvaluator(gw Completer, missions repos.MissionScoreRepo, vocab repos.VocabProgressRepo, baseLog *logger.Logger) *Evaluator {
	return &Evaluator{
		gw:             gw,
		missions:       missions,
		vocab:          vocab,
		log:            baseLog.With("service", "RubricEvaluator"),
		persistTimeout: 5 * time.Second,
	}
}

// Evaluate runs the deterministic gate and, if it passes, model scoring.
// Model problems never surface as errors; they produce fallback scores.
func (e *Evaluator) Evaluate(ctx context.Context, req Request) Outcome {
	gate := Gate(req.Content, req.ActivityType, req.TargetVocab)
	if !gate.Passed {
		e.log.Debug("submission blocked",
			"activity_type", req.ActivityType,
			"word_count", gate.WordCount,
			"min_words", gate.MinWords,
			"vocab_used", len(gate.VocabUsed),
			"vocab_required", gate.Required,
		)
		return Outcome{
			Passed:        false,
			Reason:        gate.Reason,
			PearlFeedback: BlockedFeedback(gate),
			VocabUsed:     gate.VocabUsed,
			VocabMissed:   gate.VocabMissed,
		}
	}

	score, reason := e.score(ctx, req, gate)
	out := Outcome{
		Passed:        true,
		PearlFeedback: score.Feedback,
		VocabUsed:     gate.VocabUsed,
		VocabMissed:   gate.VocabMissed,
		Score:         score,
		IsDegraded:    reason != "",
		DegradeReason: reason,
	}
	e.persist(ctx, req, out)
	return out
}

func (e *Evaluator) score(ctx context.Context, req Request, gate GateResult) (s Score, reason gateway.Reason) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s, reason = fallbackScore(gate), gateway.ReasonMalformed
			e.log.Error("rubric scoring panicked", "panic", fmt.Sprint(r))
		}
	}()

	var grammarTargets []string
	if t := strings.TrimSpace(req.GrammarTarget); t != "" {
		grammarTargets = []string{t}
	}
	prompt, err := prompts.Build(prompts.PromptRubricScore, prompts.Input{
		Text:           req.Content,
		WeekNumber:     req.WeekNumber,
		ActivityType:   req.ActivityType,
		Lane:           req.Lane,
		GrammarTargets: grammarTargets,
		TargetVocab:    req.TargetVocab,
		VocabUsed:      gate.VocabUsed,
		VocabMissed:    gate.VocabMissed,
		RubricWeights:  req.RubricWeights,
	})
	if err != nil {
		return e.fallback(gate, gateway.ReasonMalformed, err, start)
	}

	raw, err := e.gw.Complete(ctx, gateway.Request{
		Site:   gateway.SiteRubric,
		System: prompt.System,
		User:   prompt.User,
		Schema: prompt.JSONSchema(),
	})
	if err != nil {
		return e.fallback(gate, gateway.ReasonOf(err), err, start)
	}

	s, err = decodeScore(raw)
	if err != nil {
		return e.fallback(gate, gateway.ReasonMalformed, err, start)
	}
	e.log.Debug("rubric scored",
		"prompt", prompt.Fingerprint(),
		"average", s.Average(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return s, ""
}

func (e *Evaluator) fallback(gate GateResult, reason gateway.Reason, err error, start time.Time) (Score, gateway.Reason) {
	e.log.Warn("rubric scoring degraded",
		"call_site", string(gateway.SiteRubric),
		"reason", string(reason),
		"error", err.Error(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return fallbackScore(gate), reason
}

// fallbackScore reuses the gate's vocabulary signal as a best-effort score.
func fallbackScore(gate GateResult) Score {
	used := len(gate.VocabUsed)
	target := used + len(gate.VocabMissed)
	vocab := 0.5
	if target > 0 {
		vocab = float64(used) / float64(target)
	}
	return Score{
		GrammarScore: 0.5,
		GrammarNotes: []string{},
		VocabScore:   vocab,
		TaskScore:    0.5,
		Feedback:     FallbackFeedback(used, target),
	}
}
