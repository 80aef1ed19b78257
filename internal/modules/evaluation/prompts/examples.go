package prompts

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Example is a worked input/output pair shown to the model.
type Example struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Note   string `yaml:"note"`
}

//go:embed examples.yaml
var examplesYAML []byte

var (
	examplesOnce sync.Once
	examplesSet  map[PromptName][]Example
	examplesErr  error
)

func parseExamples(raw []byte) (map[PromptName][]Example, error) {
	var doc map[string][]Example
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse prompt examples: %w", err)
	}
	out := make(map[PromptName][]Example, len(doc))
	for name, list := range doc {
		cleaned := make([]Example, 0, len(list))
		for i, ex := range list {
			ex.Input = strings.TrimSpace(ex.Input)
			ex.Output = strings.TrimSpace(ex.Output)
			ex.Note = strings.TrimSpace(ex.Note)
			if ex.Input == "" || ex.Output == "" {
				return nil, fmt.Errorf("prompt examples %s[%d]: input and output required", name, i)
			}
			cleaned = append(cleaned, ex)
		}
		out[PromptName(name)] = cleaned
	}
	return out, nil
}

// ExamplesFor returns the embedded worked examples for a prompt, in file order.
func ExamplesFor(name PromptName) []Example {
	examplesOnce.Do(func() {
		examplesSet, examplesErr = parseExamples(examplesYAML)
	})
	if examplesErr != nil {
		panic(examplesErr)
	}
	return examplesSet[name]
}
