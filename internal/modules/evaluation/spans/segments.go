package spans

import "strings"

// BuildSegments splits source into plain and highlighted runs. Concatenating
// every Segment.Text yields source. Findings that start behind the cursor or
// fall outside source are skipped.
func BuildSegments(source string, merged []MergedFinding) []Segment {
	segments := make([]Segment, 0, 2*len(merged)+1)
	cursor := 0
	for i := range merged {
		f := &merged[i]
		if f.Start < cursor || f.End > len(source) || f.Start >= f.End {
			continue
		}
		if f.Start > cursor {
			segments = append(segments, Segment{Text: source[cursor:f.Start]})
		}
		segments = append(segments, Segment{Text: source[f.Start:f.End], Finding: f})
		cursor = f.End
	}
	if cursor < len(source) {
		segments = append(segments, Segment{Text: source[cursor:]})
	}
	return segments
}

// RenderMarked returns source with every highlighted run wrapped in [[...]].
func RenderMarked(source string, merged []MergedFinding) string {
	var b strings.Builder
	b.Grow(len(source) + 4*len(merged))
	for _, seg := range BuildSegments(source, merged) {
		if seg.Finding != nil {
			b.WriteString("[[")
			b.WriteString(seg.Text)
			b.WriteString("]]")
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
