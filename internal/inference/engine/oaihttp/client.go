package oaihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/pearl-backend/internal/inference/engine"
)

const maxErrorBody = 4 << 10

type Config struct {
	BaseURL             string
	APIKey              string
	ChatCompletionsPath string
	// Timeout is a transport-level ceiling. Callers normally race a much
	// shorter deadline on top of it.
	Timeout time.Duration
	// JSONMode is one of "prompt" (default), "guided_json", "auto" or "off".
	// guided_json and auto send vLLM's guided_json field, which hosted
	// OpenAI endpoints reject; auto also appends the schema prompt.
	JSONMode       string
	MaxPromptBytes int
}

type Engine struct {
	baseURL string
	apiKey  string

	chatCompletionsPath string
	timeout             time.Duration

	jsonMode       string
	maxPromptBytes int

	httpClient *http.Client
}

func New(cfg Config) (*Engine, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("oai_http: base_url required")
	}

	chatPath := strings.TrimSpace(cfg.ChatCompletionsPath)
	if chatPath == "" {
		chatPath = "/v1/chat/completions"
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	mode := strings.ToLower(strings.TrimSpace(cfg.JSONMode))
	switch mode {
	case "auto", "guided_json", "prompt", "off":
	case "":
		mode = "prompt"
	default:
		return nil, fmt.Errorf("oai_http: unknown json mode %q", cfg.JSONMode)
	}

	maxPromptBytes := cfg.MaxPromptBytes
	if maxPromptBytes <= 0 {
		maxPromptBytes = 16 << 10
	}

	return &Engine{
		baseURL:             baseURL,
		apiKey:              strings.TrimSpace(cfg.APIKey),
		chatCompletionsPath: chatPath,
		timeout:             timeout,
		jsonMode:            mode,
		maxPromptBytes:      maxPromptBytes,
		httpClient:          &http.Client{Transport: tr},
	}, nil
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(cfg Config, httpClient *http.Client) (*Engine, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		e.httpClient = httpClient
	}
	return e, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	N           int           `json:"n"`

	// Optional OpenAI-compatible extensions supported by vLLM/SGLang variants.
	ResponseFormat map[string]any `json:"response_format,omitempty"`
	GuidedJSON     any            `json:"guided_json,omitempty"`
}

type chatChoice struct {
	Message struct {
		Content string `json:"content,omitempty"`
	} `json:"message,omitempty"`
	Text string `json:"text,omitempty"`
}

type chatCompletionResponse struct {
	Choices []chatChoice `json:"choices"`
}

// GenerateText performs exactly one chat completion request.
func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	chatMsgs := toChatMessages(messages)
	if len(chatMsgs) == 0 {
		return "", errors.New("no messages")
	}

	reqBody := e.buildChatRequest(model, chatMsgs, opts)

	var resp chatCompletionResponse
	if err := e.doJSON(ctx, http.MethodPost, e.chatCompletionsPath, reqBody, &resp); err != nil {
		return "", err
	}

	text := extractChatText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty upstream completion: %w", engine.ErrMalformedResponse)
	}

	if opts.JSONSchema != nil && opts.JSONSchema.Strict {
		clean := SanitizeJSONText(text)
		if err := validateJSON(clean); err != nil {
			return "", fmt.Errorf("%w: %v", engine.ErrMalformedResponse, err)
		}
		return clean, nil
	}
	return text, nil
}

func (e *Engine) buildChatRequest(model string, messages []chatMessage, opts engine.GenerateOptions) chatCompletionRequest {
	req := chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		N:           1,
	}

	if opts.JSONSchema == nil || e.jsonMode == "off" {
		return req
	}

	useGuided := e.jsonMode == "guided_json" || e.jsonMode == "auto"
	usePrompt := e.jsonMode == "prompt" || e.jsonMode == "auto"

	if useGuided {
		req.ResponseFormat = map[string]any{"type": "json_object"}
		if opts.JSONSchema.Schema != nil {
			req.GuidedJSON = opts.JSONSchema.Schema
		}
	}
	if usePrompt {
		req.Messages = append(req.Messages, chatMessage{
			Role:    "system",
			Content: e.jsonSchemaPrompt(opts.JSONSchema),
		})
	}
	return req
}

func (e *Engine) jsonSchemaPrompt(s *engine.JSONSchema) string {
	name := strings.TrimSpace(s.Name)

	var schemaText string
	if s.Schema != nil {
		if b, err := json.Marshal(s.Schema); err == nil && len(b) <= e.maxPromptBytes {
			schemaText = string(b)
		}
	}

	var b strings.Builder
	b.WriteString("Return ONLY a valid JSON value that conforms to the provided JSON Schema. Do not include markdown or commentary.\n")
	if name != "" {
		b.WriteString("Schema name: ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	if schemaText != "" {
		b.WriteString("Schema:\n")
		b.WriteString(schemaText)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func toChatMessages(messages []engine.Message) []chatMessage {
	out := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		role := strings.TrimSpace(m.Role)
		content := strings.TrimSpace(m.Content)
		if role == "" || content == "" {
			continue
		}
		out = append(out, chatMessage{Role: role, Content: content})
	}
	return out
}

func extractChatText(resp chatCompletionResponse) string {
	for _, c := range resp.Choices {
		if strings.TrimSpace(c.Message.Content) != "" {
			return c.Message.Content
		}
		if strings.TrimSpace(c.Text) != "" {
			return c.Text
		}
	}
	return ""
}

// SanitizeJSONText strips a surrounding markdown code fence, if any.
func SanitizeJSONText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Strip leading ```lang and trailing ```
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

func validateJSON(s string) error {
	if !json.Valid([]byte(s)) {
		return errors.New("invalid json")
	}
	return nil
}

func (e *Engine) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}
}

func (e *Engine) doJSON(ctx context.Context, method string, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, &buf)
	if err != nil {
		return err
	}
	e.setHeaders(req)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode completion envelope: %w: %v", engine.ErrMalformedResponse, err)
	}
	return nil
}
