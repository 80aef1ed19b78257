package spans

import (
	"math/rand"
	"strings"
	"testing"
)

func joinSegments(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

func TestBuildSegments(t *testing.T) {
	src := "The citizens submits their reports"
	merged := Merge(Resolve(src, []RawFinding{{Word: "submits", Rule: "sva"}}))
	segs := BuildSegments(src, merged)
	if len(segs) != 3 {
		t.Fatalf("len=%d want 3: %+v", len(segs), segs)
	}
	if segs[0].Text != "The citizens " || segs[0].Finding != nil {
		t.Fatalf("seg0=%+v", segs[0])
	}
	if segs[1].Text != "submits" || segs[1].Finding == nil || segs[1].Finding.Rule != "sva" {
		t.Fatalf("seg1=%+v", segs[1])
	}
	if segs[2].Text != " their reports" {
		t.Fatalf("seg2=%+v", segs[2])
	}
	if joinSegments(segs) != src {
		t.Fatalf("round trip failed")
	}
}

func TestBuildSegmentsSkipsBadSpans(t *testing.T) {
	src := "abcdef"
	merged := []MergedFinding{
		{Start: 1, End: 3},
		{Start: 2, End: 4},  // behind cursor
		{Start: 4, End: 99}, // out of range
		{Start: 5, End: 5},  // empty
	}
	segs := BuildSegments(src, merged)
	if joinSegments(segs) != src {
		t.Fatalf("round trip failed: %+v", segs)
	}
	highlighted := 0
	for _, s := range segs {
		if s.Finding != nil {
			highlighted++
		}
	}
	if highlighted != 1 {
		t.Fatalf("highlighted=%d want 1", highlighted)
	}
}

func TestRenderMarked(t *testing.T) {
	src := "Yesterday I go to the archive"
	merged := Merge(Resolve(src, []RawFinding{{Word: "go", Rule: "tense"}}))
	if got := RenderMarked(src, merged); got != "Yesterday I [[go]] to the archive" {
		t.Fatalf("got %q", got)
	}
	if got := RenderMarked("", nil); got != "" {
		t.Fatalf("got %q", got)
	}
}

// Random findings drawn from the source itself, plus noise, must always
// satisfy the resolver, merger and segment invariants.
func TestPipelineInvariantsRandomized(t *testing.T) {
	sources := []string{
		"The citizens submits their reports to the Ministry before Friday.",
		"Yesterday I go to the archive and read the new directive twice.",
		"Compliance is mandatory; the DIRECTIVE says so, über alles.",
	}
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 300; iter++ {
		src := sources[iter%len(sources)]
		var raw []RawFinding
		for k := 0; k < 1+rng.Intn(6); k++ {
			if rng.Intn(5) == 0 {
				raw = append(raw, RawFinding{Word: "zzz-not-there", Rule: "noise"})
				continue
			}
			a := rng.Intn(len(src))
			b := a + 1 + rng.Intn(8)
			if b > len(src) {
				b = len(src)
			}
			word := src[a:b]
			if rng.Intn(2) == 0 {
				word = strings.ToUpper(word)
			}
			raw = append(raw, RawFinding{Word: word, Rule: "r", Explanation: "e"})
		}

		resolved := Resolve(src, raw)
		starts := map[int]bool{}
		for _, f := range resolved {
			if src[f.Start:f.End] != f.Word {
				t.Fatalf("iter %d: fabricated offsets %+v", iter, f)
			}
			if starts[f.Start] {
				t.Fatalf("iter %d: duplicate start %d", iter, f.Start)
			}
			starts[f.Start] = true
		}

		merged := Merge(resolved)
		for i := 1; i < len(merged); i++ {
			if merged[i].Start <= merged[i-1].End {
				t.Fatalf("iter %d: overlap or disorder %+v %+v", iter, merged[i-1], merged[i])
			}
		}

		if got := joinSegments(BuildSegments(src, merged)); got != src {
			t.Fatalf("iter %d: round trip %q != %q", iter, got, src)
		}
	}
}
