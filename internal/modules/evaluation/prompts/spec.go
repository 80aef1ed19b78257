package prompts

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Spec is the declaration format used in RegisterAll.
type Spec struct {
	Name       PromptName
	Version    int
	SchemaName string
	Schema     func() map[string]any
	// Plain strings or go templates over renderData.
	System     string
	User       string
	Validators []Validator
}

// renderData is what templates see: the normalized input plus derived views.
type renderData struct {
	Input
	Weights  []Weight
	Examples []Example
}

var funcs = template.FuncMap{
	"join": func(items []string) string { return strings.Join(items, ", ") },
	"inc":  func(i int) int { return i + 1 },
}

// MakeTemplate compiles a Spec into a Template (runtime type)
func MakeTemplate(s Spec, examples []Example) (Template, error) {
	if strings.TrimSpace(string(s.Name)) == "" {
		return Template{}, fmt.Errorf("missing prompt name")
	}
	if s.Version <= 0 {
		return Template{}, fmt.Errorf("invalid version for %s", s.Name)
	}
	if strings.TrimSpace(s.SchemaName) == "" {
		return Template{}, fmt.Errorf("missing schema name for %s", s.Name)
	}
	if s.Schema == nil {
		return Template{}, fmt.Errorf("missing schema func for %s", s.Name)
	}
	sysT, err := template.New("system").Funcs(funcs).Option("missingkey=zero").Parse(s.System)
	if err != nil {
		return Template{}, fmt.Errorf("%s system template parse: %w", s.Name, err)
	}
	userT, err := template.New("user").Funcs(funcs).Option("missingkey=zero").Parse(s.User)
	if err != nil {
		return Template{}, fmt.Errorf("%s user template parse: %w", s.Name, err)
	}
	render := func(t *template.Template, in Input) (string, error) {
		var b bytes.Buffer
		data := renderData{Input: in, Weights: sortedWeights(in.RubricWeights), Examples: examples}
		if err := t.Execute(&b, data); err != nil {
			return "", fmt.Errorf("%s %s render: %w", s.Name, t.Name(), err)
		}
		return strings.TrimSpace(b.String()), nil
	}
	tt := Template{
		Name:       s.Name,
		Version:    s.Version,
		SchemaName: s.SchemaName,
		Schema:     s.Schema,
		System:     func(in Input) (string, error) { return render(sysT, in) },
		User:       func(in Input) (string, error) { return render(userT, in) },
	}
	if len(s.Validators) > 0 {
		tt.Validate = func(in Input) error {
			for _, v := range s.Validators {
				if v == nil {
					continue
				}
				if err := v(in); err != nil {
					return err
				}
			}
			return nil
		}
	}
	return tt, nil
}

// RegisterSpec is the one-liner to call in RegisterAll().
func RegisterSpec(s Spec) {
	t, err := MakeTemplate(s, ExamplesFor(s.Name))
	if err != nil {
		panic(err)
	}
	Register(t)
}
