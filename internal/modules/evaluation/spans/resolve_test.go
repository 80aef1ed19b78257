package spans

import (
	"testing"
)

func TestResolveSubjectVerbAgreement(t *testing.T) {
	src := "The citizens submits their reports"
	got := Resolve(src, []RawFinding{{Word: "submits", Rule: "subject-verb-agreement", Suggestion: "submit"}})
	if len(got) != 1 {
		t.Fatalf("len=%d want 1", len(got))
	}
	f := got[0]
	if f.Start != 13 || f.End != 20 || f.Word != "submits" {
		t.Fatalf("got %+v want submits [13,20)", f)
	}
	if f.Suggestion != "submit" {
		t.Fatalf("suggestion=%q", f.Suggestion)
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		name   string
		source string
		raw    []RawFinding
		want   []Finding
	}{
		{
			name:   "leftmost occurrence wins",
			source: "go home and go now",
			raw:    []RawFinding{{Word: "go", Rule: "tense"}},
			want:   []Finding{{Word: "go", Start: 0, End: 2, Rule: "tense"}},
		},
		{
			name:   "case insensitive fallback reslices source",
			source: "Yesterday I Go there",
			raw:    []RawFinding{{Word: "go", Rule: "tense", Suggestion: "went"}},
			want:   []Finding{{Word: "Go", Start: 12, End: 14, Rule: "tense", Suggestion: "went"}},
		},
		{
			name:   "exact match preferred over earlier folded match",
			source: "Report the report",
			raw:    []RawFinding{{Word: "report", Rule: "r"}},
			want:   []Finding{{Word: "report", Start: 11, End: 17, Rule: "r"}},
		},
		{
			name:   "unlocatable finding dropped",
			source: "The citizens submit",
			raw:    []RawFinding{{Word: "submits", Rule: "sva"}, {Word: "citizens", Rule: "plural"}},
			want:   []Finding{{Word: "citizens", Start: 4, End: 12, Rule: "plural"}},
		},
		{
			name:   "blank word or rule dropped",
			source: "abc def",
			raw:    []RawFinding{{Word: "  ", Rule: "x"}, {Word: "abc", Rule: " "}, {Word: "def", Rule: "y"}},
			want:   []Finding{{Word: "def", Start: 4, End: 7, Rule: "y"}},
		},
		{
			name:   "duplicate start dropped",
			source: "the cat sat",
			raw:    []RawFinding{{Word: "cat", Rule: "a"}, {Word: "cat", Rule: "b"}, {Word: "ca", Rule: "c"}},
			want:   []Finding{{Word: "cat", Start: 4, End: 7, Rule: "a"}},
		},
		{
			name:   "multibyte offsets are byte offsets",
			source: "café Über alles",
			raw:    []RawFinding{{Word: "über", Rule: "case"}},
			want:   []Finding{{Word: "Über", Start: 6, End: 11, Rule: "case"}},
		},
		{
			name:   "output keeps discovery order",
			source: "one two three",
			raw:    []RawFinding{{Word: "three", Rule: "a"}, {Word: "one", Rule: "b"}},
			want: []Finding{
				{Word: "three", Start: 8, End: 13, Rule: "a"},
				{Word: "one", Start: 0, End: 3, Rule: "b"},
			},
		},
		{
			name:   "empty source",
			source: "",
			raw:    []RawFinding{{Word: "x", Rule: "a"}},
			want:   []Finding{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.source, tc.raw)
			if len(got) != len(tc.want) {
				t.Fatalf("len=%d want %d: %+v", len(got), len(tc.want), got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("finding %d = %+v want %+v", i, got[i], tc.want[i])
				}
				if tc.source[got[i].Start:got[i].End] != got[i].Word {
					t.Fatalf("finding %d word does not match source slice", i)
				}
			}
		})
	}
}

func TestIndexFoldRespectsRuneBoundaries(t *testing.T) {
	// U+212A KELVIN SIGN folds to 'k' but is three bytes wide.
	src := "ok \u212Aey"
	start, end, ok := indexFold(src, "key")
	if !ok {
		t.Fatalf("expected folded match")
	}
	if start != 3 || end != len(src) || src[start:end] != "\u212Aey" {
		t.Fatalf("slice=[%d,%d) %q", start, end, src[start:end])
	}
	if _, _, ok := indexFold("ab", "abc"); ok {
		t.Fatalf("needle longer than source must not match")
	}
}
