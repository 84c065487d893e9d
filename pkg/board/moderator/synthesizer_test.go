package moderator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualboard-be/internal/apperror"
	"virtualboard-be/pkg/board"
	"virtualboard-be/pkg/llm"
)

// fakeLLM returns a canned GenerateObject response and records the prompt.
type fakeLLM struct {
	response   json.RawMessage
	err        error
	lastPrompt string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeLLM) ChatStream(ctx context.Context, history []llm.Message, onDelta func(string) error, options ...llm.Option) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeLLM) GenerateObject(ctx context.Context, prompt string, schema map[string]interface{}, options ...llm.Option) (json.RawMessage, error) {
	f.lastPrompt = prompt
	return f.response, f.err
}

var validDecisionJSON = json.RawMessage(`{
	"summary": "The board discussed expansion.",
	"recommendation": "Proceed with the pilot.",
	"reasoning": "Growth strategy favors market capture.",
	"weights": {"CFO": 0.5, "CMO": 0.8},
	"confidenceLevel": "HIGH",
	"requiresHumanInput": false,
	"actionItems": ["Draft pilot budget", "Hire regional lead"]
}`)

func TestSynthesizeValidDecision(t *testing.T) {
	provider := &fakeLLM{response: validDecisionJSON}
	s := NewSynthesizer(provider)

	opinions := []AgentOpinion{
		{AgentRole: board.RoleCFO, Opinion: "Cash flow allows it.", Sentiment: "POSITIVE"},
		{AgentRole: board.RoleCMO, Opinion: "Market window is open.", Sentiment: "POSITIVE"},
	}

	decision, err := s.Synthesize(context.Background(), "Expand to new market?", opinions, board.StrategyGrowth, "")
	require.NoError(t, err)

	assert.Equal(t, "Proceed with the pilot.", decision.Recommendation)
	assert.Equal(t, "HIGH", decision.ConfidenceLevel)
	assert.False(t, decision.RequiresHumanInput)
	assert.Len(t, decision.ActionItems, 2)
}

func TestSynthesizePromptContent(t *testing.T) {
	provider := &fakeLLM{response: validDecisionJSON}
	s := NewSynthesizer(provider)

	opinions := []AgentOpinion{
		{AgentRole: board.RoleLegal, Opinion: "Regulatory risk is high.", Sentiment: "NEGATIVE"},
	}

	_, err := s.Synthesize(context.Background(), "Launch feature X", opinions, board.StrategySafety, "Project docs say X.")
	require.NoError(t, err)

	prompt := provider.lastPrompt
	assert.Contains(t, prompt, "strategy: SAFETY")
	assert.Contains(t, prompt, "Launch feature X")
	assert.Contains(t, prompt, "Project Context:\nProject docs say X.")
	assert.Contains(t, prompt, "LEGAL: Regulatory risk is high. (Sentiment: NEGATIVE)")
	assert.Contains(t, prompt, "prioritize legal and financial concerns")
	// Weights are listed in fixed role order.
	assert.Contains(t, prompt, "- CFO: 0.8")
	assert.Contains(t, prompt, "- LEGAL: 0.9")
}

func TestSynthesizeUnknownStrategy(t *testing.T) {
	s := NewSynthesizer(&fakeLLM{response: validDecisionJSON})

	_, err := s.Synthesize(context.Background(), "topic", nil, board.Strategy("WILD"), "")
	assert.Error(t, err)
}

func TestSynthesizeSchemaViolations(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{
			name:     "not json",
			response: `the board says yes`,
		},
		{
			name: "missing recommendation",
			response: `{"summary": "s", "reasoning": "r", "weights": {},
				"confidenceLevel": "HIGH", "requiresHumanInput": false, "actionItems": []}`,
		},
		{
			name: "invalid confidence level",
			response: `{"summary": "s", "recommendation": "rec", "reasoning": "r", "weights": {},
				"confidenceLevel": "VERY_HIGH", "requiresHumanInput": false, "actionItems": ["a"]}`,
		},
		{
			name: "unknown extra field",
			response: `{"summary": "s", "recommendation": "rec", "reasoning": "r", "weights": {},
				"confidenceLevel": "LOW", "requiresHumanInput": true, "actionItems": ["a"], "mood": "great"}`,
		},
		{
			name: "null action items",
			response: `{"summary": "s", "recommendation": "rec", "reasoning": "r", "weights": {},
				"confidenceLevel": "LOW", "requiresHumanInput": true, "actionItems": null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSynthesizer(&fakeLLM{response: json.RawMessage(tt.response)})

			_, err := s.Synthesize(context.Background(), "topic", nil, board.StrategyBalanced, "")
			require.Error(t, err)
			assert.True(t, apperror.IsSchemaValidation(err), "expected SchemaValidationError, got %T: %v", err, err)
		})
	}
}

func TestSynthesizeProviderError(t *testing.T) {
	s := NewSynthesizer(&fakeLLM{err: errors.New("connection refused")})

	_, err := s.Synthesize(context.Background(), "topic", nil, board.StrategyBalanced, "")
	require.Error(t, err)
	assert.False(t, apperror.IsSchemaValidation(err), "transport failure must not read as model drift")
	assert.True(t, strings.Contains(err.Error(), "connection refused"))
}

func TestDecisionSchemaRequiresAllFields(t *testing.T) {
	required, ok := decisionSchema["required"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{
		"summary", "recommendation", "reasoning", "weights",
		"confidenceLevel", "requiresHumanInput", "actionItems",
	}, required)
}
