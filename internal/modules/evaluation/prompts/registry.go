package prompts

import (
	"fmt"
	"strings"
	"sync"
)

type Template struct {
	Name       PromptName
	Version    int
	SchemaName string
	Schema     func() map[string]any
	System     func(Input) (string, error)
	User       func(Input) (string, error)
	Validate   Validator
}

var (
	registryMu   sync.RWMutex
	registry     = map[PromptName]Template{}
	registerOnce sync.Once
)

// Register registers a compiled Template.
func Register(t Template) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t.Name] = t
}

func lookup(name PromptName) (Template, bool) {
	registerOnce.Do(RegisterAll)
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := registry[name]
	return t, ok
}

// Build renders a prompt. It is pure: the same input always yields a
// byte-identical Prompt.
func Build(name PromptName, in Input) (Prompt, error) {
	t, ok := lookup(name)
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", string(name))
	}
	if t.Schema == nil {
		return Prompt{}, fmt.Errorf("prompt %s missing schema", string(name))
	}
	if t.System == nil || t.User == nil {
		return Prompt{}, fmt.Errorf("prompt %s missing system/user renderers", string(name))
	}
	in = normalize(in)
	if t.Validate != nil {
		if err := t.Validate(in); err != nil {
			return Prompt{}, fmt.Errorf("%s: %w", string(name), err)
		}
	}
	system, err := t.System(in)
	if err != nil {
		return Prompt{}, err
	}
	user, err := t.User(in)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{
		Name:       string(t.Name),
		Version:    t.Version,
		SchemaName: strings.TrimSpace(t.SchemaName),
		Schema:     t.Schema(),
		System:     system,
		User:       user,
	}, nil
}
