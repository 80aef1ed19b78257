package prompts

import (
	"sort"
	"strings"
)

// Input is a superset of all fields any prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	// Learner text. Always rendered as untrusted data.
	Text string

	WeekNumber   int
	ActivityType string
	// Difficulty lane, e.g. "support", "core", "stretch".
	Lane string

	GrammarTargets []string
	KnownWords     []string
	NewWords       []string

	// Rubric
	TargetVocab   []string
	VocabUsed     []string
	VocabMissed   []string
	RubricWeights map[string]float64

	// Contextual remark
	Context string
}

type Weight struct {
	Criterion string
	Value     float64
}

// normalize trims list entries, drops blanks and case-insensitive duplicates
// (first spelling wins) and keeps caller order.
func normalize(in Input) Input {
	out := in
	out.Text = strings.TrimSpace(in.Text)
	out.ActivityType = strings.TrimSpace(in.ActivityType)
	out.Lane = strings.TrimSpace(in.Lane)
	out.Context = strings.TrimSpace(in.Context)
	out.GrammarTargets = dedupe(in.GrammarTargets)
	out.KnownWords = dedupe(in.KnownWords)
	out.NewWords = dedupe(in.NewWords)
	out.TargetVocab = dedupe(in.TargetVocab)
	out.VocabUsed = dedupe(in.VocabUsed)
	out.VocabMissed = dedupe(in.VocabMissed)
	return out
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// sortedWeights renders the weight map in criterion order.
func sortedWeights(m map[string]float64) []Weight {
	if len(m) == 0 {
		return nil
	}
	out := make([]Weight, 0, len(m))
	for k, v := range m {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out = append(out, Weight{Criterion: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Criterion < out[j].Criterion })
	return out
}
