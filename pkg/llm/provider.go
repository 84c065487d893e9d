package llm

import (
	"context"
	"encoding/json"
)

// Message represents a chat message in a provider-agnostic format.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend.
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the full response.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// ChatStream sends a chat history and delivers the response incrementally
	// through onDelta. It returns the accumulated text once the stream
	// completes. A context cancellation mid-stream aborts the call; callers
	// must gate completion side effects on a nil error.
	ChatStream(ctx context.Context, history []Message, onDelta func(delta string) error, options ...Option) (string, error)

	// GenerateObject sends a single prompt in schema-constrained mode and
	// returns the raw JSON the model produced. The schema is an OpenAI-style
	// JSON Schema document; validation against it is the caller's concern.
	GenerateObject(ctx context.Context, prompt string, schema map[string]interface{}, options ...Option) (json.RawMessage, error)
}
