package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pearl-backend/internal/http/response"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/rubric"
	"github.com/yungbote/pearl-backend/internal/observability"
	"github.com/yungbote/pearl-backend/internal/platform/ctxutil"
)

type SubmissionEvaluator interface {
	Evaluate(ctx context.Context, req rubric.Request) rubric.Outcome
}

type SubmissionHandler struct {
	svc          SubmissionEvaluator
	maxTextBytes int
}

func NewSubmissionHandler(svc SubmissionEvaluator, maxTextBytes int) *SubmissionHandler {
	if maxTextBytes <= 0 {
		maxTextBytes = DefaultMaxTextBytes
	}
	return &SubmissionHandler{svc: svc, maxTextBytes: maxTextBytes}
}

type submissionMetadata struct {
	GrammarTarget string             `json:"grammarTarget"`
	TargetVocab   []string           `json:"targetVocab"`
	MissionID     string             `json:"missionId"`
	Lane          string             `json:"lane"`
	RubricWeights map[string]float64 `json:"rubricWeights"`
}

type submissionRequest struct {
	WeekNumber   int                `json:"weekNumber" binding:"gte=0"`
	PhaseID      string             `json:"phaseId"`
	ActivityType string             `json:"activityType"`
	Content      string             `json:"content"`
	Metadata     submissionMetadata `json:"metadata"`
}

type blockedResponse struct {
	Passed        bool     `json:"passed"`
	Reason        string   `json:"reason"`
	PearlFeedback string   `json:"pearlFeedback"`
	VocabUsed     []string `json:"vocabUsed"`
	VocabMissed   []string `json:"vocabMissed"`
}

type evaluatedResponse struct {
	Passed        bool     `json:"passed"`
	GrammarScore  float64  `json:"grammarScore"`
	GrammarNotes  []string `json:"grammarNotes"`
	VocabScore    float64  `json:"vocabScore"`
	VocabUsed     []string `json:"vocabUsed"`
	VocabMissed   []string `json:"vocabMissed"`
	TaskScore     float64  `json:"taskScore"`
	TaskNotes     string   `json:"taskNotes"`
	PearlFeedback string   `json:"pearlFeedback"`
	IsDegraded    bool     `json:"isDegraded"`
}

// POST /submissions/evaluate
func (h *SubmissionHandler) Evaluate(c *gin.Context) {
	var req submissionRequest
	if err := bindJSON(c, bodyLimit(h.maxTextBytes), &req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if err := requireText("content", req.Content, h.maxTextBytes); err != nil {
		response.RespondAPIError(c, err)
		return
	}

	out := h.svc.Evaluate(c.Request.Context(), rubric.Request{
		LearnerID:     ctxutil.LearnerID(c.Request.Context()),
		WeekNumber:    req.WeekNumber,
		PhaseID:       req.PhaseID,
		ActivityType:  req.ActivityType,
		Content:       req.Content,
		GrammarTarget: req.Metadata.GrammarTarget,
		TargetVocab:   req.Metadata.TargetVocab,
		MissionID:     req.Metadata.MissionID,
		Lane:          req.Metadata.Lane,
		RubricWeights: req.Metadata.RubricWeights,
	})

	if !out.Passed {
		observability.Current().IncEvaluation("submission", "blocked")
		response.RespondOK(c, blockedResponse{
			Passed:        false,
			Reason:        out.Reason,
			PearlFeedback: out.PearlFeedback,
			VocabUsed:     nonNil(out.VocabUsed),
			VocabMissed:   nonNil(out.VocabMissed),
		})
		return
	}

	result := "scored"
	if out.IsDegraded {
		result = "degraded"
	}
	observability.Current().IncEvaluation("submission", result)
	response.RespondOK(c, evaluatedResponse{
		Passed:        true,
		GrammarScore:  out.Score.GrammarScore,
		GrammarNotes:  nonNil(out.Score.GrammarNotes),
		VocabScore:    out.Score.VocabScore,
		VocabUsed:     nonNil(out.VocabUsed),
		VocabMissed:   nonNil(out.VocabMissed),
		TaskScore:     out.Score.TaskScore,
		TaskNotes:     out.Score.TaskNotes,
		PearlFeedback: out.PearlFeedback,
		IsDegraded:    out.IsDegraded,
	})
}
