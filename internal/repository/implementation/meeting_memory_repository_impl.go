package implementation

import (
	"context"

	"virtualboard-be/internal/entity"
	"virtualboard-be/internal/mapper"
	"virtualboard-be/internal/model"
	"virtualboard-be/internal/repository/contract"
	"virtualboard-be/pkg/rag/retrieval"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type MeetingMemoryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MeetingMemoryMapper
}

func NewMeetingMemoryRepository(db *gorm.DB) contract.MeetingMemoryRepository {
	return &MeetingMemoryRepositoryImpl{
		db:     db,
		mapper: mapper.NewMeetingMemoryMapper(),
	}
}

func (r *MeetingMemoryRepositoryImpl) Create(ctx context.Context, memory *entity.MeetingMemory) error {
	m := r.mapper.ToModel(memory)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*memory = *r.mapper.ToEntity(m)
	return nil
}

func (r *MeetingMemoryRepositoryImpl) DeleteByProjectId(ctx context.Context, projectId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectId).Delete(&model.MeetingMemory{}).Error
}

func (r *MeetingMemoryRepositoryImpl) ExistsByMeetingId(ctx context.Context, meetingId uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.MeetingMemory{}).
		Where("meeting_id = ?", meetingId).
		Count(&count).Error
	return count > 0, err
}

func (r *MeetingMemoryRepositoryImpl) SearchSimilarWithScore(ctx context.Context, projectId uuid.UUID, queryEmbedding []float32, threshold float64, limit int) ([]*retrieval.ScoredMemory, error) {
	if limit <= 0 {
		limit = 3
	}

	type result struct {
		MeetingId  uuid.UUID
		Summary    string
		Decision   string
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(queryEmbedding)

	err := r.db.WithContext(ctx).
		Table("meeting_memories").
		Select("meeting_id, summary, decision, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("project_id = ?", projectId).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	memories := make([]*retrieval.ScoredMemory, len(results))
	for i, res := range results {
		memories[i] = &retrieval.ScoredMemory{
			MeetingId:  res.MeetingId,
			Summary:    res.Summary,
			Decision:   res.Decision,
			Similarity: res.Similarity,
		}
	}
	return memories, nil
}
