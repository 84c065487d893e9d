package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"virtualboard-be/internal/apperror"
)

// OpenRouterProvider implements EmbeddingProvider against the OpenRouter
// embeddings endpoint (OpenAI-compatible wire format). The default model is
// openai/text-embedding-3-small (1536 dimensions).
type OpenRouterProvider struct {
	ApiKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

func NewOpenRouterProvider(apiKey string, model string) EmbeddingProvider {
	if model == "" {
		model = "openai/text-embedding-3-small"
	}
	return &OpenRouterProvider{
		ApiKey:  apiKey,
		Model:   model,
		BaseURL: "https://openrouter.ai/api/v1",
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type openRouterEmbeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type openRouterEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (p *OpenRouterProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	// taskType is ignored: OpenAI-style models use a single embedding space.
	reqBody := openRouterEmbeddingRequest{
		Model: p.Model,
		Input: text,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, p.BaseURL+"/embeddings", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, apperror.NewProviderError("embedding", "openrouter request", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewProviderError("embedding", "read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.NewProviderError("embedding", "openrouter response",
			fmt.Errorf("status %d, body %s", resp.StatusCode, string(bodyBytes)))
	}

	var orResp openRouterEmbeddingResponse
	if err := json.Unmarshal(bodyBytes, &orResp); err != nil {
		return nil, apperror.NewProviderError("embedding", "decode response", err)
	}
	if len(orResp.Data) == 0 {
		return nil, apperror.NewProviderError("embedding", "openrouter response",
			fmt.Errorf("empty data array"))
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: orResp.Data[0].Embedding,
		},
	}, nil
}
