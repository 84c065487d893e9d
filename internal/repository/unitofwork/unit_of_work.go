package unitofwork

import (
	"context"

	"virtualboard-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ProjectRepository() contract.ProjectRepository
	DocumentRepository() contract.DocumentRepository
	DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository
	MeetingRepository() contract.MeetingRepository
	MessageRepository() contract.MessageRepository
	MeetingDecisionRepository() contract.MeetingDecisionRepository
	MeetingMemoryRepository() contract.MeetingMemoryRepository
}
