package prompts

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/yungbote/pearl-backend/internal/inference/engine"
)

type Prompt struct {
	Name       string
	Version    int
	System     string
	User       string
	SchemaName string
	Schema     map[string]any
}

// Fingerprint identifies the exact rendered prompt in logs.
func (p Prompt) Fingerprint() string {
	h := sha256.Sum256([]byte(
		strings.TrimSpace(p.Name) + "|" +
			strconv.Itoa(p.Version) + "|" +
			strings.TrimSpace(p.System) + "|" +
			strings.TrimSpace(p.User),
	))
	return hex.EncodeToString(h[:])[:16]
}

// JSONSchema is the engine hint for the prompt's output contract.
func (p Prompt) JSONSchema() *engine.JSONSchema {
	if p.Schema == nil {
		return nil
	}
	return &engine.JSONSchema{Name: p.SchemaName, Schema: p.Schema, Strict: true}
}
