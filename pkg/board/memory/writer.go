package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"virtualboard-be/internal/apperror"
	"virtualboard-be/pkg/embedding"
	"virtualboard-be/pkg/llm"
)

// TranscriptMessage is one line of the meeting transcript fed to the
// summarizer.
type TranscriptMessage struct {
	SenderName string
	Content    string
}

// Record is a committed meeting memory ready for persistence.
type Record struct {
	MeetingId uuid.UUID
	ProjectId uuid.UUID
	Summary   string
	Decision  string
	Embedding []float32
}

// MemoryStore persists committed memories. Implemented by the meeting memory
// repository.
type MemoryStore interface {
	Create(ctx context.Context, record *Record) error
}

var summarySchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"summary": map[string]interface{}{
			"type":        "string",
			"description": "A concise summary of the meeting discussion.",
		},
		"decision": map[string]interface{}{
			"type":        "string",
			"description": "The final decision or recommendation reached.",
		},
	},
	"required":             []string{"summary", "decision"},
	"additionalProperties": false,
}

type summaryObject struct {
	Summary  string `json:"summary"`
	Decision string `json:"decision"`
}

// Writer summarizes a finished meeting and commits the result as a
// searchable memory.
type Writer struct {
	provider llm.LLMProvider
	embedder embedding.EmbeddingProvider
	store    MemoryStore
}

func NewWriter(provider llm.LLMProvider, embedder embedding.EmbeddingProvider, store MemoryStore) *Writer {
	return &Writer{provider: provider, embedder: embedder, store: store}
}

// Commit generates the summary/decision pair from the transcript, embeds it
// and stores the memory. An empty transcript is rejected before any provider
// call is made.
func (w *Writer) Commit(ctx context.Context, meetingId, projectId uuid.UUID, transcript []TranscriptMessage) (*Record, error) {
	if len(transcript) == 0 {
		return nil, &apperror.EmptyTranscriptError{MeetingId: meetingId}
	}

	summary, decision, err := w.summarize(ctx, transcript)
	if err != nil {
		return nil, err
	}

	// Summary and decision are embedded together so a query matching either
	// surfaces the memory.
	textToEmbed := "Summary: " + summary + "\nDecision: " + decision
	embResp, err := w.embedder.Generate(textToEmbed, embedding.TaskRetrievalDocument)
	if err != nil {
		return nil, fmt.Errorf("embed memory: %w", err)
	}

	record := &Record{
		MeetingId: meetingId,
		ProjectId: projectId,
		Summary:   summary,
		Decision:  decision,
		Embedding: embResp.Embedding.Values,
	}
	if err := w.store.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("store memory: %w", err)
	}
	return record, nil
}

func (w *Writer) summarize(ctx context.Context, transcript []TranscriptMessage) (string, string, error) {
	var lines []string
	for _, m := range transcript {
		lines = append(lines, fmt.Sprintf("%s: %s", m.SenderName, m.Content))
	}

	prompt := fmt.Sprintf(`Analyze the following meeting transcript and provide a summary and the final decision/recommendation.

Transcript:
%s
`, strings.Join(lines, "\n"))

	raw, err := w.provider.GenerateObject(ctx, prompt, summarySchema)
	if err != nil {
		return "", "", fmt.Errorf("generate summary: %w", err)
	}

	var obj summaryObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", "", apperror.NewSchemaValidationError(err.Error(), string(raw))
	}
	if obj.Summary == "" || obj.Decision == "" {
		return "", "", apperror.NewSchemaValidationError("summary and decision must be non-empty", string(raw))
	}
	return obj.Summary, obj.Decision, nil
}
