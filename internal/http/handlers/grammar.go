package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pearl-backend/internal/http/response"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/annotate"
	"github.com/yungbote/pearl-backend/internal/observability"
)

type GrammarChecker interface {
	Check(ctx context.Context, req annotate.Request) annotate.Result
}

type GrammarHandler struct {
	svc          GrammarChecker
	maxTextBytes int
}

func NewGrammarHandler(svc GrammarChecker, maxTextBytes int) *GrammarHandler {
	if maxTextBytes <= 0 {
		maxTextBytes = DefaultMaxTextBytes
	}
	return &GrammarHandler{svc: svc, maxTextBytes: maxTextBytes}
}

type grammarCheckRequest struct {
	Text           string   `json:"text"`
	WeekNumber     int      `json:"weekNumber" binding:"gte=0"`
	GrammarTargets []string `json:"grammarTargets"`
	KnownWords     []string `json:"knownWords"`
	NewWords       []string `json:"newWords"`
}

type grammarError struct {
	Word        string `json:"word"`
	StartIndex  int    `json:"startIndex"`
	EndIndex    int    `json:"endIndex"`
	Rule        string `json:"rule"`
	Suggestion  string `json:"suggestion"`
	Explanation string `json:"explanation"`
}

type grammarCheckResponse struct {
	Errors     []grammarError `json:"errors"`
	ErrorCount int            `json:"errorCount"`
	IsClean    bool           `json:"isClean"`
	IsDegraded bool           `json:"isDegraded"`
}

// POST /grammar-check
func (h *GrammarHandler) Check(c *gin.Context) {
	var req grammarCheckRequest
	if err := bindJSON(c, bodyLimit(h.maxTextBytes), &req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if err := requireText("text", req.Text, h.maxTextBytes); err != nil {
		response.RespondAPIError(c, err)
		return
	}

	res := h.svc.Check(c.Request.Context(), annotate.Request{
		Text:           req.Text,
		WeekNumber:     req.WeekNumber,
		GrammarTargets: req.GrammarTargets,
		KnownWords:     req.KnownWords,
		NewWords:       req.NewWords,
	})

	out := grammarCheckResponse{
		Errors:     make([]grammarError, 0, len(res.Findings)),
		IsClean:    res.IsClean,
		IsDegraded: res.IsDegraded,
	}
	for _, f := range res.Findings {
		out.Errors = append(out.Errors, grammarError{
			Word:        f.Word,
			StartIndex:  f.Start,
			EndIndex:    f.End,
			Rule:        f.Rule,
			Suggestion:  f.Suggestion,
			Explanation: f.Explanation,
		})
	}
	out.ErrorCount = len(out.Errors)

	result := "clean"
	switch {
	case res.IsDegraded:
		result = "degraded"
	case out.ErrorCount > 0:
		result = "errors"
	}
	observability.Current().IncEvaluation("grammar", result)
	response.RespondOK(c, out)
}
