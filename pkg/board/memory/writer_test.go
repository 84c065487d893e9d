package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualboard-be/internal/apperror"
	"virtualboard-be/pkg/embedding"
	"virtualboard-be/pkg/llm"
)

type fakeLLM struct {
	response   json.RawMessage
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeLLM) ChatStream(ctx context.Context, history []llm.Message, onDelta func(string) error, options ...llm.Option) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeLLM) GenerateObject(ctx context.Context, prompt string, schema map[string]interface{}, options ...llm.Option) (json.RawMessage, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.response, f.err
}

type fakeEmbedder struct {
	lastText string
	lastTask string
	err      error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.lastText = text
	f.lastTask = taskType
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeStore struct {
	created *Record
	err     error
}

func (f *fakeStore) Create(ctx context.Context, record *Record) error {
	f.created = record
	return f.err
}

func TestCommitEmptyTranscript(t *testing.T) {
	provider := &fakeLLM{}
	w := NewWriter(provider, &fakeEmbedder{}, &fakeStore{})
	meetingId := uuid.New()

	_, err := w.Commit(context.Background(), meetingId, uuid.New(), nil)
	require.Error(t, err)
	assert.True(t, apperror.IsEmptyTranscript(err))
	assert.Equal(t, 0, provider.calls, "summarizer must not be called for an empty transcript")

	var emptyErr *apperror.EmptyTranscriptError
	require.True(t, errors.As(err, &emptyErr))
	assert.Equal(t, meetingId, emptyErr.MeetingId)
}

func TestCommitStoresMemory(t *testing.T) {
	provider := &fakeLLM{response: json.RawMessage(`{"summary": "Board agreed to expand.", "decision": "Expand in Q3."}`)}
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	w := NewWriter(provider, embedder, store)

	meetingId := uuid.New()
	projectId := uuid.New()
	transcript := []TranscriptMessage{
		{SenderName: "User", Content: "Should we expand?"},
		{SenderName: "Virtual Board", Content: "**Moderator**: Yes, with caveats."},
	}

	record, err := w.Commit(context.Background(), meetingId, projectId, transcript)
	require.NoError(t, err)

	assert.Equal(t, "Board agreed to expand.", record.Summary)
	assert.Equal(t, "Expand in Q3.", record.Decision)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, record.Embedding)
	assert.Equal(t, meetingId, record.MeetingId)
	assert.Equal(t, projectId, record.ProjectId)

	// Summary and decision are embedded together as one searchable text.
	assert.Equal(t, "Summary: Board agreed to expand.\nDecision: Expand in Q3.", embedder.lastText)
	assert.Equal(t, embedding.TaskRetrievalDocument, embedder.lastTask)

	require.NotNil(t, store.created)
	assert.Equal(t, record, store.created)

	assert.Contains(t, provider.lastPrompt, "User: Should we expand?")
	assert.Contains(t, provider.lastPrompt, "Virtual Board: **Moderator**: Yes, with caveats.")
}

func TestCommitSchemaViolations(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "not json", response: "a fine meeting"},
		{name: "empty summary", response: `{"summary": "", "decision": "d"}`},
		{name: "empty decision", response: `{"summary": "s", "decision": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(&fakeLLM{response: json.RawMessage(tt.response)}, &fakeEmbedder{}, &fakeStore{})

			_, err := w.Commit(context.Background(), uuid.New(), uuid.New(),
				[]TranscriptMessage{{SenderName: "User", Content: "hi"}})
			require.Error(t, err)
			assert.True(t, apperror.IsSchemaValidation(err))
		})
	}
}

func TestCommitEmbedFailureSkipsStore(t *testing.T) {
	store := &fakeStore{}
	w := NewWriter(
		&fakeLLM{response: json.RawMessage(`{"summary": "s", "decision": "d"}`)},
		&fakeEmbedder{err: errors.New("provider down")},
		store,
	)

	_, err := w.Commit(context.Background(), uuid.New(), uuid.New(),
		[]TranscriptMessage{{SenderName: "User", Content: "hi"}})
	require.Error(t, err)
	assert.Nil(t, store.created, "nothing must be stored when embedding fails")
}
