package service

import (
	"context"
	"time"

	"virtualboard-be/internal/entity"
	"virtualboard-be/internal/repository/unitofwork"
	"virtualboard-be/pkg/board/memory"

	"github.com/google/uuid"
)

// memoryStore adapts the meeting memory repository to the memory writer's
// store contract.
type memoryStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewMemoryStore(uowFactory unitofwork.RepositoryFactory) memory.MemoryStore {
	return &memoryStore{uowFactory: uowFactory}
}

func (s *memoryStore) Create(ctx context.Context, record *memory.Record) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// A meeting is summarized at most once; ending it twice must not stack
	// duplicate memories.
	exists, err := uow.MeetingMemoryRepository().ExistsByMeetingId(ctx, record.MeetingId)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return uow.MeetingMemoryRepository().Create(ctx, &entity.MeetingMemory{
		Id:             uuid.New(),
		MeetingId:      record.MeetingId,
		ProjectId:      record.ProjectId,
		Summary:        record.Summary,
		Decision:       record.Decision,
		EmbeddingValue: record.Embedding,
		CreatedAt:      time.Now(),
	})
}
