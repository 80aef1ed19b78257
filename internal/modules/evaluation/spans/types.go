package spans

// RawFinding is one error report as the model produced it. It is untrusted.
// Reported offsets are accepted so the reply still decodes, but Resolve never
// reads them.
type RawFinding struct {
	Word        string `json:"word"`
	Rule        string `json:"rule"`
	Suggestion  string `json:"suggestion"`
	Explanation string `json:"explanation"`
	StartIndex  *int   `json:"startIndex,omitempty"`
	EndIndex    *int   `json:"endIndex,omitempty"`
}

// Finding is a RawFinding located in the source text. Start and End are byte
// offsets and Word is always source[Start:End].
type Finding struct {
	Word        string `json:"word"`
	Start       int    `json:"startIndex"`
	End         int    `json:"endIndex"`
	Rule        string `json:"rule"`
	Suggestion  string `json:"suggestion"`
	Explanation string `json:"explanation"`
}

// MergedFinding is the union of overlapping or touching findings.
// Word keeps the first finding's text and is not re-sliced when the span grows.
type MergedFinding struct {
	Word        string   `json:"word"`
	Start       int      `json:"startIndex"`
	End         int      `json:"endIndex"`
	Rule        string   `json:"rule"`
	Rules       []string `json:"rules,omitempty"`
	Suggestion  string   `json:"suggestion"`
	Explanation string   `json:"explanation"`
}

// Segment is a run of source text, highlighted when Finding is set.
type Segment struct {
	Text    string
	Finding *MergedFinding
}
