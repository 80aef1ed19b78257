package spans

import (
	"strings"
	"unicode/utf8"
)

// Resolve locates each raw finding in source. Findings with a blank word or
// rule, or whose word cannot be found, are dropped. The leftmost occurrence
// wins, exact matches before case-insensitive ones, and a finding that lands
// on an already claimed start offset is dropped. Output keeps input order.
func Resolve(source string, raw []RawFinding) []Finding {
	out := make([]Finding, 0, len(raw))
	claimed := make(map[int]bool, len(raw))
	for _, r := range raw {
		word := strings.TrimSpace(r.Word)
		rule := strings.TrimSpace(r.Rule)
		if word == "" || rule == "" {
			continue
		}
		start, end, ok := locate(source, word)
		if !ok || claimed[start] {
			continue
		}
		claimed[start] = true
		out = append(out, Finding{
			Word:        source[start:end],
			Start:       start,
			End:         end,
			Rule:        rule,
			Suggestion:  strings.TrimSpace(r.Suggestion),
			Explanation: strings.TrimSpace(r.Explanation),
		})
	}
	return out
}

func locate(source, word string) (start, end int, ok bool) {
	if i := strings.Index(source, word); i >= 0 {
		return i, i + len(word), true
	}
	return indexFold(source, word)
}

// indexFold finds the leftmost window of source that equals needle under
// Unicode simple case folding. Windows start and end on rune boundaries.
func indexFold(source, needle string) (start, end int, ok bool) {
	n := utf8.RuneCountInString(needle)
	if n == 0 {
		return 0, 0, false
	}
	for i := 0; i < len(source); {
		j := i
		for k := 0; k < n && j < len(source); k++ {
			_, size := utf8.DecodeRuneInString(source[j:])
			j += size
		}
		if utf8.RuneCountInString(source[i:j]) < n {
			break
		}
		if strings.EqualFold(source[i:j], needle) {
			return i, j, true
		}
		_, size := utf8.DecodeRuneInString(source[i:])
		i += size
	}
	return 0, 0, false
}
