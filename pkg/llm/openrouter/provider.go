package openrouter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"virtualboard-be/internal/apperror"
	"virtualboard-be/pkg/llm"
)

// Provider implements llm.LLMProvider against the OpenRouter chat completions
// API (OpenAI-compatible). Structured generation uses response_format with a
// JSON schema; streaming uses SSE.
type Provider struct {
	ApiKey    string
	ModelName string
	BaseURL   string
	Client    *http.Client
}

var _ llm.LLMProvider = &Provider{}

func NewProvider(apiKey, modelName string) *Provider {
	if modelName == "" {
		modelName = "google/gemini-2.0-flash-001"
	}
	return &Provider{
		ApiKey:    apiKey,
		ModelName: modelName,
		BaseURL:   "https://openrouter.ai/api/v1",
		Client: &http.Client{
			Timeout: 180 * time.Second,
		},
	}
}

// --- Request/Response structs (internal to this package) ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string                 `json:"type"`
	JSONSchema map[string]interface{} `json:"json_schema,omitempty"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Stream         bool            `json:"stream"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
	Delta   chatMessage `json:"delta"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

func (p *Provider) buildRequest(history []llm.Message, opts []llm.Option, stream bool, format *responseFormat) chatRequest {
	options := &llm.Options{Temperature: 0.7}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]chatMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		messages[i] = chatMessage{Role: role, Content: msg.Content}
	}

	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}

	return chatRequest{
		Model:          model,
		Messages:       messages,
		Stream:         stream,
		Temperature:    options.Temperature,
		MaxTokens:      options.MaxTokens,
		ResponseFormat: format,
	}
}

func (p *Provider) send(ctx context.Context, payload chatRequest) (*http.Response, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/chat/completions", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, apperror.NewProviderError("llm", "openrouter request", err)
	}

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, apperror.NewProviderError("llm", "openrouter response",
			fmt.Errorf("status %d, body %s", resp.StatusCode, string(bodyBytes)))
	}

	return resp, nil
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	resp, err := p.send(ctx, p.buildRequest(history, opts, false, nil))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperror.NewProviderError("llm", "read response", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return "", apperror.NewProviderError("llm", "decode response", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", apperror.NewProviderError("llm", "openrouter response", fmt.Errorf("no choices returned"))
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (p *Provider) ChatStream(ctx context.Context, history []llm.Message, onDelta func(string) error, opts ...llm.Option) (string, error) {
	resp, err := p.send(ctx, p.buildRequest(history, opts, true, nil))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return full.String(), ctx.Err()
		default:
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}

		var chunk chatResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			// OpenRouter interleaves comment payloads; skip anything unparseable.
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				return full.String(), err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return full.String(), apperror.NewProviderError("llm", "stream read", err)
	}

	return full.String(), nil
}

func (p *Provider) GenerateObject(ctx context.Context, prompt string, schema map[string]interface{}, opts ...llm.Option) (json.RawMessage, error) {
	format := &responseFormat{
		Type: "json_schema",
		JSONSchema: map[string]interface{}{
			"name":   "response",
			"strict": true,
			"schema": schema,
		},
	}

	history := []llm.Message{{Role: "user", Content: prompt}}
	resp, err := p.send(ctx, p.buildRequest(history, opts, false, format))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewProviderError("llm", "read response", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return nil, apperror.NewProviderError("llm", "decode response", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, apperror.NewProviderError("llm", "openrouter response", fmt.Errorf("no choices returned"))
	}

	return json.RawMessage(chatResp.Choices[0].Message.Content), nil
}
