package moderator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"virtualboard-be/internal/apperror"
	"virtualboard-be/pkg/board"
	"virtualboard-be/pkg/llm"
)

// Decision is the structured output of a moderated board turn.
type Decision struct {
	Summary            string             `json:"summary"`
	Recommendation     string             `json:"recommendation"`
	Reasoning          string             `json:"reasoning"`
	Weights            map[string]float64 `json:"weights"`
	ConfidenceLevel    string             `json:"confidenceLevel"`
	RequiresHumanInput bool               `json:"requiresHumanInput"`
	ActionItems        []string           `json:"actionItems"`
}

// AgentOpinion is one advisor's contribution to the turn.
type AgentOpinion struct {
	AgentRole board.AgentRole
	Opinion   string
	Sentiment string
}

// decisionSchema is the single source of truth for what the model must
// return. Validation after unmarshalling enforces it even for backends that
// do not honor strict schema mode.
var decisionSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"summary": map[string]interface{}{
			"type":        "string",
			"description": "Summary of the discussion and different viewpoints",
		},
		"recommendation": map[string]interface{}{
			"type":        "string",
			"description": "The recommended decision based on strategy",
		},
		"reasoning": map[string]interface{}{
			"type":        "string",
			"description": "Why this recommendation aligns with the meeting strategy",
		},
		"weights": map[string]interface{}{
			"type":                 "object",
			"description":          "Weight given to each agent opinion",
			"additionalProperties": map[string]interface{}{"type": "number"},
		},
		"confidenceLevel": map[string]interface{}{
			"type": "string",
			"enum": []string{"HIGH", "MEDIUM", "LOW"},
		},
		"requiresHumanInput": map[string]interface{}{
			"type":        "boolean",
			"description": "Whether human decision-maker input is needed",
		},
		"actionItems": map[string]interface{}{
			"type":        "array",
			"description": "Specific next steps",
			"items":       map[string]interface{}{"type": "string"},
		},
	},
	"required":             []string{"summary", "recommendation", "reasoning", "weights", "confidenceLevel", "requiresHumanInput", "actionItems"},
	"additionalProperties": false,
}

// Synthesizer turns a set of agent opinions into a moderator decision via
// schema-constrained generation.
type Synthesizer struct {
	provider llm.LLMProvider
}

func NewSynthesizer(provider llm.LLMProvider) *Synthesizer {
	return &Synthesizer{provider: provider}
}

// Synthesize builds the moderator prompt, calls the model in structured mode
// and validates the result against the decision schema.
func (s *Synthesizer) Synthesize(ctx context.Context, topic string, opinions []AgentOpinion, strategy board.Strategy, projectContext string) (*Decision, error) {
	weights, err := board.WeightsFor(strategy)
	if err != nil {
		return nil, err
	}

	prompt := buildPrompt(topic, opinions, strategy, weights, projectContext)

	raw, err := s.provider.GenerateObject(ctx, prompt, decisionSchema)
	if err != nil {
		return nil, fmt.Errorf("generate decision: %w", err)
	}

	decision, err := parseDecision(raw)
	if err != nil {
		return nil, err
	}
	return decision, nil
}

func buildPrompt(topic string, opinions []AgentOpinion, strategy board.Strategy, weights map[board.AgentRole]float64, projectContext string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are moderating a board meeting with the following strategy: %s\n\n", strategy))
	sb.WriteString(fmt.Sprintf("Topic under discussion: %s\n\n", topic))

	if projectContext != "" {
		sb.WriteString(fmt.Sprintf("Project Context:\n%s\n\n", projectContext))
	}

	sb.WriteString("Agent Opinions:\n")
	for _, o := range opinions {
		sb.WriteString(fmt.Sprintf("- %s: %s (Sentiment: %s)\n", o.AgentRole, o.Opinion, o.Sentiment))
	}

	sb.WriteString("\nStrategy Weights:\n")
	for _, role := range []board.AgentRole{board.RoleCFO, board.RoleCTO, board.RoleLegal, board.RoleCMO} {
		sb.WriteString(fmt.Sprintf("- %s: %g\n", role, weights[role]))
	}

	var priority string
	switch strategy {
	case board.StrategyGrowth:
		priority = "marketing and technology"
	case board.StrategySafety:
		priority = "legal and financial concerns"
	default:
		priority = "balanced input from all advisors"
	}
	sb.WriteString(fmt.Sprintf("\nBased on the meeting strategy (%s), synthesize these opinions and provide a recommendation.\n", strategy))
	sb.WriteString(fmt.Sprintf("Weight each opinion according to the strategy - for %s strategy, prioritize %s.\n", strategy, priority))

	return sb.String()
}

// parseDecision unmarshals and validates the model output. Any deviation
// from the schema surfaces as a SchemaValidationError so callers can
// distinguish model drift from transport failures.
func parseDecision(raw json.RawMessage) (*Decision, error) {
	var decision Decision
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&decision); err != nil {
		return nil, apperror.NewSchemaValidationError(err.Error(), string(raw))
	}

	var missing []string
	if decision.Summary == "" {
		missing = append(missing, "summary")
	}
	if decision.Recommendation == "" {
		missing = append(missing, "recommendation")
	}
	if decision.Reasoning == "" {
		missing = append(missing, "reasoning")
	}
	if decision.Weights == nil {
		missing = append(missing, "weights")
	}
	if decision.ActionItems == nil {
		missing = append(missing, "actionItems")
	}
	if len(missing) > 0 {
		return nil, apperror.NewSchemaValidationError(
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")), string(raw))
	}

	switch decision.ConfidenceLevel {
	case "HIGH", "MEDIUM", "LOW":
	default:
		return nil, apperror.NewSchemaValidationError(
			fmt.Sprintf("invalid confidenceLevel: %q", decision.ConfidenceLevel), string(raw))
	}

	return &decision, nil
}
