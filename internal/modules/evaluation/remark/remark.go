package remark

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yungbote/pearl-backend/internal/modules/evaluation/gateway"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/prompts"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/strictjson"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

const maxRemarkRunes = 280

var stockRemarks = []string{
	"Noted, cadet. Keep going.",
	"Good work. Pearl is watching your progress.",
	"Logged. On to the next task.",
	"Steady progress, cadet. Carry on.",
}

type Completer interface {
	Complete(ctx context.Context, req gateway.Request) (string, error)
}

type Request struct {
	Context      string
	WeekNumber   int
	ActivityType string
}

type Result struct {
	Remark     string
	IsDegraded bool
}

type Service struct {
	gw  Completer
	log *logger.Logger
}

func NewService(gw Completer, baseLog *logger.Logger) *Service {
	return &Service{gw: gw, log: baseLog.With("service", "ContextualRemark")}
}

type remarkReply struct {
	Remark *string `json:"remark"`
}

var errBlankRemark = errors.New("blank remark")

// Remark asks for a short in-character reaction. On any failure it returns a
// stock remark chosen deterministically from the context.
func (s *Service) Remark(ctx context.Context, req Request) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("remark panicked", "panic", fmt.Sprint(r))
			res = Result{Remark: StockRemark(req.Context), IsDegraded: true}
		}
	}()

	prompt, err := prompts.Build(prompts.PromptContextualRemark, prompts.Input{
		Context:      req.Context,
		WeekNumber:   req.WeekNumber,
		ActivityType: req.ActivityType,
	})
	if err != nil {
		return s.degrade(req, gateway.ReasonMalformed, err, start)
	}
	raw, err := s.gw.Complete(ctx, gateway.Request{
		Site:   gateway.SiteRemark,
		System: prompt.System,
		User:   prompt.User,
		Schema: prompt.JSONSchema(),
	})
	if err != nil {
		return s.degrade(req, gateway.ReasonOf(err), err, start)
	}
	var reply remarkReply
	if err := strictjson.Decode(raw, &reply); err != nil {
		return s.degrade(req, gateway.ReasonMalformed, err, start)
	}
	if reply.Remark == nil || strings.TrimSpace(*reply.Remark) == "" {
		return s.degrade(req, gateway.ReasonMalformed, errBlankRemark, start)
	}
	return Result{Remark: truncateRunes(strings.TrimSpace(*reply.Remark), maxRemarkRunes)}
}

func (s *Service) degrade(req Request, reason gateway.Reason, err error, start time.Time) Result {
	s.log.Warn("remark degraded",
		"call_site", string(gateway.SiteRemark),
		"reason", string(reason),
		"error", err.Error(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{Remark: StockRemark(req.Context), IsDegraded: true}
}

// StockRemark picks a fallback remark; the same context always gets the same one.
func StockRemark(seed string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.TrimSpace(seed)))
	return stockRemarks[h.Sum32()%uint32(len(stockRemarks))]
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}
