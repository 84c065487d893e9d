package contract

import (
	"context"

	"virtualboard-be/internal/entity"
	"virtualboard-be/pkg/rag/retrieval"

	"github.com/google/uuid"
)

type MeetingMemoryRepository interface {
	Create(ctx context.Context, memory *entity.MeetingMemory) error
	DeleteByProjectId(ctx context.Context, projectId uuid.UUID) error
	ExistsByMeetingId(ctx context.Context, meetingId uuid.UUID) (bool, error)
	// SearchSimilarWithScore returns past meeting decisions with similarity
	// scores, scoped to a project and filtered by threshold.
	SearchSimilarWithScore(ctx context.Context, projectId uuid.UUID, queryEmbedding []float32, threshold float64, limit int) ([]*retrieval.ScoredMemory, error)
}
