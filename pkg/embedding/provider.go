package embedding

// Task types hint the provider about how the embedding will be used. Providers
// that don't distinguish (OpenAI-style APIs) ignore them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

// EmbeddingProvider converts text into a fixed-length vector. Implementations
// wrap transport failures in *apperror.ProviderError and never retry
// internally; retry policy belongs to the caller.
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}
