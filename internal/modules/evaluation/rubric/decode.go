package rubric

import (
	"errors"
	"math"
	"strings"

	"github.com/yungbote/pearl-backend/internal/modules/evaluation/strictjson"
)

type scoreReply struct {
	GrammarScore *float64  `json:"grammarScore"`
	GrammarNotes *[]string `json:"grammarNotes"`
	VocabScore   *float64  `json:"vocabScore"`
	TaskScore    *float64  `json:"taskScore"`
	TaskNotes    *string   `json:"taskNotes"`
	Feedback     *string   `json:"feedback"`
}

var errMissingScores = errors.New("reply is missing a required score")

// decodeScore strictly parses a rubric_score reply. The three scores are
// required; notes and feedback may be absent.
func decodeScore(raw string) (Score, error) {
	var reply scoreReply
	if err := strictjson.Decode(raw, &reply); err != nil {
		return Score{}, err
	}
	if reply.GrammarScore == nil || reply.VocabScore == nil || reply.TaskScore == nil {
		return Score{}, errMissingScores
	}
	s := Score{
		GrammarScore: clamp01(*reply.GrammarScore),
		VocabScore:   clamp01(*reply.VocabScore),
		TaskScore:    clamp01(*reply.TaskScore),
		GrammarNotes: []string{},
	}
	if reply.GrammarNotes != nil {
		for _, n := range *reply.GrammarNotes {
			if n = strings.TrimSpace(n); n != "" {
				s.GrammarNotes = append(s.GrammarNotes, n)
			}
		}
	}
	if reply.TaskNotes != nil {
		s.TaskNotes = strings.TrimSpace(*reply.TaskNotes)
	}
	if reply.Feedback != nil {
		s.Feedback = strings.TrimSpace(*reply.Feedback)
	}
	if s.Feedback == "" {
		s.Feedback = defaultFeedback
	}
	return s, nil
}

func clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
