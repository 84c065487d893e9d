package retrieval

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"virtualboard-be/internal/constant"
	"virtualboard-be/pkg/embedding"
)

// ScoredChunk is a document chunk returned by similarity search, carrying the
// parent document title for context formatting.
type ScoredChunk struct {
	DocumentId    uuid.UUID
	DocumentTitle string
	Content       string
	Similarity    float64
}

// ScoredMemory is a past meeting decision returned by similarity search.
type ScoredMemory struct {
	MeetingId  uuid.UUID
	Summary    string
	Decision   string
	Similarity float64
}

// DocumentSearcher searches document chunks within a project by embedding.
type DocumentSearcher interface {
	SearchSimilarWithScore(ctx context.Context, projectId uuid.UUID, queryEmbedding []float32, threshold float64, limit int) ([]*ScoredChunk, error)
}

// MemorySearcher searches committed meeting memories within a project.
type MemorySearcher interface {
	SearchSimilarWithScore(ctx context.Context, projectId uuid.UUID, queryEmbedding []float32, threshold float64, limit int) ([]*ScoredMemory, error)
}

// Result is the assembled grounding context for one board turn.
type Result struct {
	Text          string
	Found         bool
	DocumentCount int
	MemoryCount   int
}

// ContextBuilder embeds the user query and assembles retrieved document
// chunks and past meeting decisions into a single context block.
type ContextBuilder struct {
	embedder  embedding.EmbeddingProvider
	documents DocumentSearcher
	memories  MemorySearcher
}

func NewContextBuilder(embedder embedding.EmbeddingProvider, documents DocumentSearcher, memories MemorySearcher) *ContextBuilder {
	return &ContextBuilder{
		embedder:  embedder,
		documents: documents,
		memories:  memories,
	}
}

// Build runs both similarity searches concurrently and formats the hits.
// When nothing clears the thresholds the result carries the no-context
// notice with Found=false so downstream prompts stay well-formed.
func (b *ContextBuilder) Build(ctx context.Context, projectId uuid.UUID, query string) (*Result, error) {
	embResp, err := b.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryEmbedding := embResp.Embedding.Values

	var (
		wg     sync.WaitGroup
		chunks []*ScoredChunk
		mems   []*ScoredMemory
		docErr error
		memErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		chunks, docErr = b.documents.SearchSimilarWithScore(ctx, projectId, queryEmbedding,
			constant.DocumentSearchThreshold, constant.DocumentSearchLimit)
	}()
	go func() {
		defer wg.Done()
		mems, memErr = b.memories.SearchSimilarWithScore(ctx, projectId, queryEmbedding,
			constant.MemorySearchThreshold, constant.MemorySearchLimit)
	}()
	wg.Wait()

	// A failing store degrades to an empty result set rather than failing the
	// turn; the board can still meet without its knowledge base.
	if docErr != nil {
		chunks = nil
	}
	if memErr != nil {
		mems = nil
	}

	// The store already filters by threshold; filter again here so a looser
	// store implementation cannot leak low-relevance hits into the prompt.
	filteredChunks := make([]*ScoredChunk, 0, len(chunks))
	for _, c := range chunks {
		if c.Similarity >= constant.DocumentSearchThreshold {
			filteredChunks = append(filteredChunks, c)
		}
	}
	filteredMems := make([]*ScoredMemory, 0, len(mems))
	for _, m := range mems {
		if m.Similarity >= constant.MemorySearchThreshold {
			filteredMems = append(filteredMems, m)
		}
	}

	if len(filteredChunks) == 0 && len(filteredMems) == 0 {
		return &Result{Text: constant.NoContextNotice, Found: false}, nil
	}

	var sb strings.Builder
	for i, c := range filteredChunks {
		if i > 0 || sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("[Document %d: %s]\n%s", i+1, c.DocumentTitle, snippet(c.Content)))
	}
	for i, m := range filteredMems {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("[Past Meeting Decision %d]\nSummary: %s\nDecision: %s", i+1, m.Summary, m.Decision))
	}

	return &Result{
		Text:          sb.String(),
		Found:         true,
		DocumentCount: len(filteredChunks),
		MemoryCount:   len(filteredMems),
	}, nil
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= constant.DocumentSnippetLength {
		return content
	}
	return string(runes[:constant.DocumentSnippetLength]) + "..."
}
