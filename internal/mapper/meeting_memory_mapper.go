package mapper

import (
	"virtualboard-be/internal/entity"
	"virtualboard-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type MeetingMemoryMapper struct{}

func NewMeetingMemoryMapper() *MeetingMemoryMapper {
	return &MeetingMemoryMapper{}
}

func (m *MeetingMemoryMapper) ToEntity(mm *model.MeetingMemory) *entity.MeetingMemory {
	if mm == nil {
		return nil
	}
	return &entity.MeetingMemory{
		Id:             mm.Id,
		MeetingId:      mm.MeetingId,
		ProjectId:      mm.ProjectId,
		Summary:        mm.Summary,
		Decision:       mm.Decision,
		EmbeddingValue: mm.EmbeddingValue.Slice(),
		CreatedAt:      mm.CreatedAt,
	}
}

func (m *MeetingMemoryMapper) ToModel(mm *entity.MeetingMemory) *model.MeetingMemory {
	if mm == nil {
		return nil
	}
	return &model.MeetingMemory{
		Id:             mm.Id,
		MeetingId:      mm.MeetingId,
		ProjectId:      mm.ProjectId,
		Summary:        mm.Summary,
		Decision:       mm.Decision,
		EmbeddingValue: pgvector.NewVector(mm.EmbeddingValue),
		CreatedAt:      mm.CreatedAt,
	}
}
