package annotate

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/yungbote/pearl-backend/internal/modules/evaluation/gateway"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/prompts"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/spans"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

// Completer is the slice of the model gateway the pipeline needs.
type Completer interface {
	Complete(ctx context.Context, req gateway.Request) (string, error)
}

type Request struct {
	Text           string
	WeekNumber     int
	GrammarTargets []string
	KnownWords     []string
	NewWords       []string
}

type Result struct {
	Findings   []spans.MergedFinding
	IsClean    bool
	IsDegraded bool
	// Reason is set when IsDegraded. It is for logs only.
	Reason gateway.Reason
}

func degraded(reason gateway.Reason) Result {
	return Result{Findings: []spans.MergedFinding{}, IsClean: true, IsDegraded: true, Reason: reason}
}

type Service struct {
	gw  Completer
	log *logger.Logger
}

func NewService(gw Completer, baseLog *logger.Logger) *Service {
	return &Service{gw: gw, log: baseLog.With("service", "GrammarCheck")}
}

// Check runs prompt, model call, strict decode, span resolution and merging.
// It never fails: any problem along the way yields a clean, degraded result.
func (s *Service) Check(ctx context.Context, req Request) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("grammar check panicked", "panic", fmt.Sprint(r), "text_len", len(req.Text))
			res = degraded(gateway.ReasonMalformed)
		}
	}()

	prompt, err := prompts.Build(prompts.PromptGrammarCheck, prompts.Input{
		Text:           req.Text,
		WeekNumber:     req.WeekNumber,
		GrammarTargets: req.GrammarTargets,
		KnownWords:     req.KnownWords,
		NewWords:       req.NewWords,
	})
	if err != nil {
		return s.degrade(gateway.ReasonMalformed, err, req, start)
	}

	raw, err := s.gw.Complete(ctx, gateway.Request{
		Site:   gateway.SiteAnnotation,
		System: prompt.System,
		User:   prompt.User,
		Schema: prompt.JSONSchema(),
	})
	if err != nil {
		return s.degrade(gateway.ReasonOf(err), err, req, start)
	}

	found, err := decodeReply(raw)
	if err != nil {
		return s.degrade(gateway.ReasonMalformed, err, req, start)
	}

	merged := spans.Merge(spans.Resolve(req.Text, found))
	s.log.Debug("grammar check done",
		"reported", len(found),
		"kept", len(merged),
		"rules", strings.Join(ruleIDs(merged), ","),
		"layout", spans.RenderMarked(redact(req.Text), merged),
		"prompt", prompt.Fingerprint(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{Findings: merged, IsClean: len(merged) == 0}
}

func (s *Service) degrade(reason gateway.Reason, err error, req Request, start time.Time) Result {
	s.log.Warn("grammar check degraded",
		"call_site", string(gateway.SiteAnnotation),
		"reason", string(reason),
		"error", err.Error(),
		"text_len", len(req.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return degraded(reason)
}

func ruleIDs(merged []spans.MergedFinding) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, m := range merged {
		for _, r := range m.Rules {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	return out
}

// redact replaces every non-space byte with 'x' so finding offsets still line
// up but no learner text reaches the logs.
func redact(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			b.WriteString(text[i : i+size])
		} else {
			b.WriteString(strings.Repeat("x", size))
		}
		i += size
	}
	return b.String()
}
