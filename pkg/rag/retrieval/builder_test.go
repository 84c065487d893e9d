package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualboard-be/internal/constant"
	"virtualboard-be/pkg/embedding"
)

type fakeEmbedder struct {
	lastTask string
	err      error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.lastTask = taskType
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.5, 0.5}},
	}, nil
}

type fakeDocSearcher struct {
	chunks []*ScoredChunk
	err    error
}

func (f *fakeDocSearcher) SearchSimilarWithScore(ctx context.Context, projectId uuid.UUID, queryEmbedding []float32, threshold float64, limit int) ([]*ScoredChunk, error) {
	return f.chunks, f.err
}

type fakeMemSearcher struct {
	memories []*ScoredMemory
	err      error
}

func (f *fakeMemSearcher) SearchSimilarWithScore(ctx context.Context, projectId uuid.UUID, queryEmbedding []float32, threshold float64, limit int) ([]*ScoredMemory, error) {
	return f.memories, f.err
}

func TestBuildNoHitsReturnsNotice(t *testing.T) {
	b := NewContextBuilder(&fakeEmbedder{}, &fakeDocSearcher{}, &fakeMemSearcher{})

	result, err := b.Build(context.Background(), uuid.New(), "anything")
	require.NoError(t, err)

	assert.False(t, result.Found)
	assert.Equal(t, constant.NoContextNotice, result.Text)
	assert.Zero(t, result.DocumentCount)
	assert.Zero(t, result.MemoryCount)
}

func TestBuildUsesQueryTaskType(t *testing.T) {
	embedder := &fakeEmbedder{}
	b := NewContextBuilder(embedder, &fakeDocSearcher{}, &fakeMemSearcher{})

	_, err := b.Build(context.Background(), uuid.New(), "q")
	require.NoError(t, err)
	assert.Equal(t, embedding.TaskRetrievalQuery, embedder.lastTask)
}

func TestBuildFiltersBelowThreshold(t *testing.T) {
	// A sloppy store returning sub-threshold rows must not leak into the
	// prompt.
	docs := &fakeDocSearcher{chunks: []*ScoredChunk{
		{DocumentTitle: "Plan A", Content: "high relevance", Similarity: 0.9},
		{DocumentTitle: "Plan B", Content: "medium relevance", Similarity: 0.7},
		{DocumentTitle: "Plan C", Content: "noise", Similarity: 0.4},
	}}
	mems := &fakeMemSearcher{memories: []*ScoredMemory{
		{Summary: "old meeting", Decision: "shelved", Similarity: 0.55},
	}}

	b := NewContextBuilder(&fakeEmbedder{}, docs, mems)
	result, err := b.Build(context.Background(), uuid.New(), "q")
	require.NoError(t, err)

	assert.True(t, result.Found)
	assert.Equal(t, 2, result.DocumentCount)
	assert.Equal(t, 0, result.MemoryCount, "memory below 0.6 threshold must be dropped")
	assert.NotContains(t, result.Text, "noise")
	assert.NotContains(t, result.Text, "old meeting")
}

func TestBuildFormatsDocumentsAndMemories(t *testing.T) {
	docs := &fakeDocSearcher{chunks: []*ScoredChunk{
		{DocumentTitle: "Market Report", Content: "growth is strong", Similarity: 0.8},
	}}
	mems := &fakeMemSearcher{memories: []*ScoredMemory{
		{Summary: "Discussed pricing", Decision: "Raise prices 5%", Similarity: 0.75},
	}}

	b := NewContextBuilder(&fakeEmbedder{}, docs, mems)
	result, err := b.Build(context.Background(), uuid.New(), "q")
	require.NoError(t, err)

	assert.Contains(t, result.Text, "[Document 1: Market Report]\ngrowth is strong")
	assert.Contains(t, result.Text, "[Past Meeting Decision 1]\nSummary: Discussed pricing\nDecision: Raise prices 5%")
	// Documents come before memories, separated by a blank line.
	assert.Less(t,
		strings.Index(result.Text, "[Document 1"),
		strings.Index(result.Text, "[Past Meeting Decision 1"))
}

func TestBuildTruncatesLongChunks(t *testing.T) {
	long := strings.Repeat("x", constant.DocumentSnippetLength+100)
	docs := &fakeDocSearcher{chunks: []*ScoredChunk{
		{DocumentTitle: "Long Doc", Content: long, Similarity: 0.9},
	}}

	b := NewContextBuilder(&fakeEmbedder{}, docs, &fakeMemSearcher{})
	result, err := b.Build(context.Background(), uuid.New(), "q")
	require.NoError(t, err)

	assert.Contains(t, result.Text, strings.Repeat("x", constant.DocumentSnippetLength)+"...")
	assert.NotContains(t, result.Text, strings.Repeat("x", constant.DocumentSnippetLength+1))
}

func TestBuildErrors(t *testing.T) {
	t.Run("embedder failure", func(t *testing.T) {
		b := NewContextBuilder(&fakeEmbedder{err: errors.New("down")}, &fakeDocSearcher{}, &fakeMemSearcher{})
		_, err := b.Build(context.Background(), uuid.New(), "q")
		assert.Error(t, err)
	})

	t.Run("document search failure degrades to memories only", func(t *testing.T) {
		mems := &fakeMemSearcher{memories: []*ScoredMemory{
			{Summary: "old meeting", Decision: "shelved", Similarity: 0.75},
		}}
		b := NewContextBuilder(&fakeEmbedder{}, &fakeDocSearcher{err: errors.New("db down")}, mems)
		result, err := b.Build(context.Background(), uuid.New(), "q")
		require.NoError(t, err)
		assert.True(t, result.Found)
		assert.Zero(t, result.DocumentCount)
		assert.Equal(t, 1, result.MemoryCount)
	})

	t.Run("both searches failing yields the notice", func(t *testing.T) {
		b := NewContextBuilder(&fakeEmbedder{},
			&fakeDocSearcher{err: errors.New("db down")},
			&fakeMemSearcher{err: errors.New("db down")})
		result, err := b.Build(context.Background(), uuid.New(), "q")
		require.NoError(t, err)
		assert.False(t, result.Found)
		assert.Equal(t, constant.NoContextNotice, result.Text)
	})
}
