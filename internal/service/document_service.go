package service

import (
	"context"
	"time"

	"virtualboard-be/internal/apperror"
	"virtualboard-be/internal/dto"
	"virtualboard-be/internal/entity"
	"virtualboard-be/internal/pkg/logger"
	"virtualboard-be/internal/repository/specification"
	"virtualboard-be/internal/repository/unitofwork"
	"virtualboard-be/pkg/embedding"
	"virtualboard-be/pkg/events"
	pkgNats "virtualboard-be/pkg/nats"
	"virtualboard-be/pkg/rag/chunker"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Ingest(ctx context.Context, userId uuid.UUID, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
	List(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) ([]*dto.ShowDocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, projectId, documentId uuid.UUID) error
}

type documentService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	chunkConfig       chunker.Config
	eventPublisher    *pkgNats.Publisher
	logger            logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		chunkConfig:       chunker.DefaultConfig(),
		eventPublisher:    eventPublisher,
		logger:            log,
	}
}

// Ingest chunks the document, embeds each chunk in document order and stores
// everything. Ingestion is all-or-nothing: a failed chunk triggers cleanup of
// the document row and any chunks already written, so a project never holds a
// partially indexed document.
func (s *documentService) Ingest(ctx context.Context, userId uuid.UUID, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: req.ProjectId},
		specification.OwnedBy{OwnerID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NewNotFoundError("project")
	}

	chunks := chunker.Split(req.Content, s.chunkConfig)

	fileType := req.FileType
	if fileType == "" {
		fileType = "text/plain"
	}
	document := entity.Document{
		Id:            uuid.New(),
		Title:         req.Title,
		ProjectId:     req.ProjectId,
		RawContent:    req.Content,
		FileType:      fileType,
		FileSizeBytes: int64(len(req.Content)),
		CreatedAt:     time.Now(),
	}
	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}

	for i, chunk := range chunks {
		res, embErr := s.embeddingProvider.Generate(chunk, embedding.TaskRetrievalDocument)
		if embErr != nil {
			return nil, s.rollbackIngestion(ctx, uow, document.Id, embErr)
		}

		chunkEntity := entity.DocumentEmbedding{
			Id:             uuid.New(),
			Content:        chunk,
			EmbeddingValue: res.Embedding.Values,
			DocumentId:     document.Id,
			ProjectId:      req.ProjectId,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		}
		if err := uow.DocumentEmbeddingRepository().Create(ctx, &chunkEntity); err != nil {
			return nil, s.rollbackIngestion(ctx, uow, document.Id, err)
		}
	}

	document.TotalChunks = len(chunks)
	if err := uow.DocumentRepository().Update(ctx, &document); err != nil {
		return nil, s.rollbackIngestion(ctx, uow, document.Id, err)
	}

	s.logger.Info("DocumentService", "Document ingested", map[string]interface{}{
		"document_id": document.Id,
		"project_id":  req.ProjectId,
		"chunks":      len(chunks),
	})

	if s.eventPublisher != nil {
		evt := events.NewEvent(events.TypeDocumentIngested, map[string]interface{}{
			"document_id":  document.Id,
			"project_id":   req.ProjectId,
			"user_id":      userId,
			"total_chunks": len(chunks),
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("DocumentService", "Failed to publish document ingested event", map[string]interface{}{
				"document_id": document.Id,
				"error":       err.Error(),
			})
		}
	}

	return &dto.IngestDocumentResponse{
		Id:          document.Id,
		TotalChunks: len(chunks),
	}, nil
}

// rollbackIngestion deletes the partial document. A failed cleanup means
// orphaned rows, which must surface loudly for manual intervention.
func (s *documentService) rollbackIngestion(ctx context.Context, uow unitofwork.UnitOfWork, documentId uuid.UUID, cause error) error {
	if err := uow.DocumentEmbeddingRepository().DeleteByDocumentId(ctx, documentId); err != nil {
		s.logger.Error("DocumentService", "Ingestion rollback failed", map[string]interface{}{
			"document_id": documentId,
			"error":       err.Error(),
		})
		return &apperror.IngestionRollbackError{DocumentId: documentId, Cause: cause, RollbackErr: err}
	}
	if err := uow.DocumentRepository().Delete(ctx, documentId); err != nil {
		s.logger.Error("DocumentService", "Ingestion rollback failed", map[string]interface{}{
			"document_id": documentId,
			"error":       err.Error(),
		})
		return &apperror.IngestionRollbackError{DocumentId: documentId, Cause: cause, RollbackErr: err}
	}

	s.logger.Warn("DocumentService", "Ingestion rolled back", map[string]interface{}{
		"document_id": documentId,
		"cause":       cause.Error(),
	})
	return cause
}

func (s *documentService) List(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) ([]*dto.ShowDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId},
		specification.OwnedBy{OwnerID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NewNotFoundError("project")
	}

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowDocumentResponse, len(documents))
	for i, d := range documents {
		res[i] = &dto.ShowDocumentResponse{
			Id:            d.Id,
			Title:         d.Title,
			ProjectId:     d.ProjectId,
			FileType:      d.FileType,
			FileSizeBytes: d.FileSizeBytes,
			TotalChunks:   d.TotalChunks,
			CreatedAt:     d.CreatedAt,
		}
	}
	return res, nil
}

// Delete removes a document and all of its chunk embeddings.
func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, projectId, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId},
		specification.OwnedBy{OwnerID: userId},
	)
	if err != nil {
		return err
	}
	if project == nil {
		return apperror.NewNotFoundError("project")
	}

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.ByProjectID{ProjectID: projectId},
	)
	if err != nil {
		return err
	}
	if document == nil {
		return apperror.NewNotFoundError("document")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentEmbeddingRepository().DeleteByDocumentId(ctx, documentId); err != nil {
		return err
	}
	if err := uow.DocumentRepository().Delete(ctx, documentId); err != nil {
		return err
	}

	return uow.Commit()
}
