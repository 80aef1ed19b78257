package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pearl-backend/internal/http/response"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/remark"
)

type Remarker interface {
	Remark(ctx context.Context, req remark.Request) remark.Result
}

type RemarkHandler struct {
	svc          Remarker
	maxTextBytes int
}

func NewRemarkHandler(svc Remarker, maxTextBytes int) *RemarkHandler {
	if maxTextBytes <= 0 {
		maxTextBytes = DefaultMaxTextBytes
	}
	return &RemarkHandler{svc: svc, maxTextBytes: maxTextBytes}
}

type remarkRequest struct {
	Context      string `json:"context"`
	WeekNumber   int    `json:"weekNumber" binding:"gte=0"`
	ActivityType string `json:"activityType"`
}

type remarkResponse struct {
	Remark     string `json:"remark"`
	IsDegraded bool   `json:"isDegraded"`
}

// POST /pearl/remark
func (h *RemarkHandler) Remark(c *gin.Context) {
	var req remarkRequest
	if err := bindJSON(c, bodyLimit(h.maxTextBytes), &req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if err := requireText("context", req.Context, h.maxTextBytes); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	res := h.svc.Remark(c.Request.Context(), remark.Request{
		Context:      req.Context,
		WeekNumber:   req.WeekNumber,
		ActivityType: req.ActivityType,
	})
	response.RespondOK(c, remarkResponse{Remark: res.Remark, IsDegraded: res.IsDegraded})
}
