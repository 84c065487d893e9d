package contract

import (
	"context"

	"virtualboard-be/internal/entity"
	"virtualboard-be/internal/repository/specification"
	"virtualboard-be/pkg/rag/retrieval"

	"github.com/google/uuid"
)

type DocumentEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.DocumentEmbedding) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	DeleteByProjectId(ctx context.Context, projectId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error)
	// SearchSimilarWithScore returns chunks with similarity scores, scoped to
	// a project and filtered by threshold.
	SearchSimilarWithScore(ctx context.Context, projectId uuid.UUID, queryEmbedding []float32, threshold float64, limit int) ([]*retrieval.ScoredChunk, error)
}
