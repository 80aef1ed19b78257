package strictjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrEmpty = errors.New("empty document")

// Decode parses a single JSON object from model output into out. A surrounding
// markdown code fence is stripped first. Unknown fields and trailing data are
// errors.
func Decode(raw string, out any) error {
	doc := StripFence(raw)
	if doc == "" {
		return ErrEmpty
	}
	dec := json.NewDecoder(strings.NewReader(doc))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return errors.New("decode: trailing data after JSON object")
	}
	return nil
}

// StripFence removes a leading ```lang line and the trailing ``` if present.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	firstNL := strings.IndexByte(s, '\n')
	if firstNL == -1 {
		return strings.TrimSpace(strings.Trim(s, "`"))
	}
	s = s[firstNL+1:]
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
