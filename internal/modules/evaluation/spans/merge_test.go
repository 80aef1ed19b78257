package spans

import (
	"reflect"
	"testing"
)

func TestMergeOverlapping(t *testing.T) {
	got := Merge([]Finding{
		{Word: "submits", Start: 13, End: 20, Rule: "sva", Suggestion: "submit", Explanation: "plural subject"},
		{Word: "s their", Start: 18, End: 25, Rule: "det", Suggestion: "", Explanation: "wrong determiner"},
	})
	if len(got) != 1 {
		t.Fatalf("len=%d want 1: %+v", len(got), got)
	}
	m := got[0]
	if m.Start != 13 || m.End != 25 {
		t.Fatalf("span=[%d,%d) want [13,25)", m.Start, m.End)
	}
	if m.Word != "submits" {
		t.Fatalf("label text should keep first finding, got %q", m.Word)
	}
	if m.Explanation != "plural subject; wrong determiner" {
		t.Fatalf("explanation=%q", m.Explanation)
	}
	if m.Suggestion != "submit" {
		t.Fatalf("suggestion=%q", m.Suggestion)
	}
	if !reflect.DeepEqual(m.Rules, []string{"sva", "det"}) || m.Rule != "sva" {
		t.Fatalf("rules=%v rule=%q", m.Rules, m.Rule)
	}
}

func TestMergeTouchingAndDisjoint(t *testing.T) {
	got := Merge([]Finding{
		{Start: 20, End: 24, Rule: "c", Explanation: "z"},
		{Start: 0, End: 3, Rule: "a", Explanation: "x"},
		{Start: 3, End: 6, Rule: "b", Explanation: "y"},
	})
	if len(got) != 2 {
		t.Fatalf("len=%d want 2: %+v", len(got), got)
	}
	if got[0].Start != 0 || got[0].End != 6 || got[0].Explanation != "x; y" {
		t.Fatalf("first=%+v", got[0])
	}
	if got[1].Start != 20 || got[1].End != 24 {
		t.Fatalf("second=%+v", got[1])
	}
}

func TestMergeContained(t *testing.T) {
	got := Merge([]Finding{
		{Start: 0, End: 10, Rule: "a"},
		{Start: 2, End: 4, Rule: "b"},
	})
	if len(got) != 1 || got[0].End != 10 {
		t.Fatalf("got %+v", got)
	}
}

func TestMergeEmpty(t *testing.T) {
	got := Merge(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	in := []Finding{{Start: 5, End: 6, Rule: "b"}, {Start: 0, End: 1, Rule: "a"}}
	_ = Merge(in)
	if in[0].Start != 5 {
		t.Fatalf("input reordered")
	}
}
