package spans

import (
	"sort"
)

const joinSep = "; "

// Merge folds overlapping or touching findings into non-overlapping spans
// sorted by start. Explanations and suggestions of merged findings are joined
// with "; ".
func Merge(findings []Finding) []MergedFinding {
	if len(findings) == 0 {
		return []MergedFinding{}
	}
	sorted := make([]Finding, len(findings))
	copy(sorted, findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	out := make([]MergedFinding, 0, len(sorted))
	cur := fromFinding(sorted[0])
	for _, next := range sorted[1:] {
		if next.Start <= cur.End {
			if next.End > cur.End {
				cur.End = next.End
			}
			cur.Explanation = joinPart(cur.Explanation, next.Explanation)
			cur.Suggestion = joinPart(cur.Suggestion, next.Suggestion)
			cur.Rules = append(cur.Rules, next.Rule)
			continue
		}
		out = append(out, cur)
		cur = fromFinding(next)
	}
	return append(out, cur)
}

func fromFinding(f Finding) MergedFinding {
	return MergedFinding{
		Word:        f.Word,
		Start:       f.Start,
		End:         f.End,
		Rule:        f.Rule,
		Rules:       []string{f.Rule},
		Suggestion:  f.Suggestion,
		Explanation: f.Explanation,
	}
}

func joinPart(a, b string) string {
	switch {
	case b == "":
		return a
	case a == "":
		return b
	default:
		return a + joinSep + b
	}
}
