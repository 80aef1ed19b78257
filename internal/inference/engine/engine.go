package engine

import (
	"context"
	"errors"
)

type Message struct {
	Role    string
	Content string
}

type JSONSchema struct {
	Name   string
	Schema map[string]any
	Strict bool
}

type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
	JSONSchema  *JSONSchema
}

// Engine produces one chat completion per call. Implementations never retry.
type Engine interface {
	GenerateText(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error)
}

var (
	// ErrMalformedResponse marks an upstream reply that arrived but could not be used.
	ErrMalformedResponse = errors.New("malformed upstream response")
)
