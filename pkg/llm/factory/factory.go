package factory

import (
	"fmt"

	"virtualboard-be/pkg/llm"
	"virtualboard-be/pkg/llm/ollama"
	"virtualboard-be/pkg/llm/openrouter"
)

// NewLLMProvider builds the configured generation backend.
func NewLLMProvider(providerName, modelName, ollamaBaseURL, openRouterKey string) (llm.LLMProvider, error) {
	switch providerName {
	case "openrouter":
		if openRouterKey == "" {
			return nil, fmt.Errorf("openrouter provider requires OPEN_ROUTER_API_KEY")
		}
		return openrouter.NewProvider(openRouterKey, modelName), nil
	case "ollama":
		if ollamaBaseURL == "" {
			ollamaBaseURL = "http://localhost:11434"
		}
		return ollama.NewProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", providerName)
	}
}
