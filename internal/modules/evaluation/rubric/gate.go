package rubric

import (
	"fmt"
	"strings"
)

const (
	MinWordsSpoken  = 15
	MinWordsWritten = 30

	// A submission must use vocabShareNum/vocabShareDen of the target words.
	vocabShareNum = 3
	vocabShareDen = 10
)

var spokenActivities = map[string]bool{
	"spoken_log": true,
	"voice_log":  true,
	"audio_log":  true,
}

// GateResult is the deterministic pre-check verdict.
type GateResult struct {
	Passed      bool
	Reason      string
	WordCount   int
	MinWords    int
	Required    int
	VocabUsed   []string
	VocabMissed []string
}

// MinWordsFor returns the minimum word count for an activity type.
func MinWordsFor(activityType string) int {
	if spokenActivities[strings.ToLower(strings.TrimSpace(activityType))] {
		return MinWordsSpoken
	}
	return MinWordsWritten
}

// RequiredVocab is max(1, ceil(0.3*n)) for n > 0 target words, else 0.
func RequiredVocab(n int) int {
	if n <= 0 {
		return 0
	}
	req := (vocabShareNum*n + vocabShareDen - 1) / vocabShareDen
	if req < 1 {
		req = 1
	}
	return req
}

// Gate checks word count first, then vocabulary coverage. Coverage is plain
// case-insensitive containment, so "direct" is counted inside "directive".
func Gate(content, activityType string, targetVocab []string) GateResult {
	res := GateResult{
		WordCount: len(strings.Fields(content)),
		MinWords:  MinWordsFor(activityType),
	}
	target := normalizeVocab(targetVocab)
	res.Required = RequiredVocab(len(target))
	res.VocabUsed, res.VocabMissed = coverage(content, target)

	if res.WordCount < res.MinWords {
		res.Reason = fmt.Sprintf("Your response has %d words; at least %d are required.", res.WordCount, res.MinWords)
		return res
	}
	if len(target) > 0 && len(res.VocabUsed) < res.Required {
		res.Reason = fmt.Sprintf("Use at least %d of the target words (you used %d). Missing: %s.",
			res.Required, len(res.VocabUsed), strings.Join(res.VocabMissed, ", "))
		return res
	}
	res.Passed = true
	return res
}

func coverage(content string, target []string) (used, missed []string) {
	used = []string{}
	missed = []string{}
	lower := strings.ToLower(content)
	for _, v := range target {
		if strings.Contains(lower, strings.ToLower(v)) {
			used = append(used, v)
		} else {
			missed = append(missed, v)
		}
	}
	return used, missed
}

func normalizeVocab(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
