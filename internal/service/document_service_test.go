package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualboard-be/internal/apperror"
	"virtualboard-be/internal/dto"
	"virtualboard-be/internal/entity"
)

func seedProject(uow *fakeUow, ownerId uuid.UUID) *entity.Project {
	project := &entity.Project{
		Id:        uuid.New(),
		Title:     "Expansion",
		OwnerId:   ownerId,
		CreatedAt: time.Now(),
	}
	uow.projects.projects = append(uow.projects.projects, project)
	return project
}

func TestIngestStoresChunksInOrder(t *testing.T) {
	uow := newFakeUow()
	ownerId := uuid.New()
	project := seedProject(uow, ownerId)

	embedder := newFakeEmbedder()
	svc := NewDocumentService(&fakeFactory{uow: uow}, embedder, nil, nopLogger{})

	// Three paragraphs, each far below chunk size but together above it.
	content := strings.Repeat("a", 600) + "\n\n" + strings.Repeat("b", 600) + "\n\n" + strings.Repeat("c", 600)

	res, err := svc.Ingest(context.Background(), ownerId, &dto.IngestDocumentRequest{
		ProjectId: project.Id,
		Title:     "Market research",
		Content:   content,
	})
	require.NoError(t, err)

	assert.Equal(t, res.TotalChunks, len(uow.embeddings.embeddings))
	require.NotEmpty(t, uow.embeddings.embeddings)

	for i, emb := range uow.embeddings.embeddings {
		assert.Equal(t, i, emb.ChunkIndex, "chunks must be stored in document order")
		assert.Equal(t, res.Id, emb.DocumentId)
		assert.Equal(t, project.Id, emb.ProjectId)
		assert.NotEmpty(t, emb.EmbeddingValue)
	}

	require.Len(t, uow.documents.documents, 1)
	assert.Equal(t, "Market research", uow.documents.documents[0].Title)
}

func TestIngestUnknownProject(t *testing.T) {
	uow := newFakeUow()
	svc := NewDocumentService(&fakeFactory{uow: uow}, newFakeEmbedder(), nil, nopLogger{})

	_, err := svc.Ingest(context.Background(), uuid.New(), &dto.IngestDocumentRequest{
		ProjectId: uuid.New(),
		Title:     "t",
		Content:   "c",
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestIngestOtherUsersProject(t *testing.T) {
	uow := newFakeUow()
	project := seedProject(uow, uuid.New())
	svc := NewDocumentService(&fakeFactory{uow: uow}, newFakeEmbedder(), nil, nopLogger{})

	// Tenant isolation: a different user sees not-found, never the document.
	_, err := svc.Ingest(context.Background(), uuid.New(), &dto.IngestDocumentRequest{
		ProjectId: project.Id,
		Title:     "t",
		Content:   "c",
	})
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, uow.documents.documents)
}

func TestIngestEmbeddingFailureRollsBack(t *testing.T) {
	uow := newFakeUow()
	ownerId := uuid.New()
	project := seedProject(uow, ownerId)

	embedder := newFakeEmbedder()
	embedder.failAfter = 2 // third chunk fails
	svc := NewDocumentService(&fakeFactory{uow: uow}, embedder, nil, nopLogger{})

	content := strings.Repeat("a", 900) + "\n\n" + strings.Repeat("b", 900) + "\n\n" + strings.Repeat("c", 900)

	_, err := svc.Ingest(context.Background(), ownerId, &dto.IngestDocumentRequest{
		ProjectId: project.Id,
		Title:     "doomed",
		Content:   content,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsProviderError(err), "original cause must surface, got %T", err)

	// Nothing partial survives.
	assert.Empty(t, uow.documents.documents)
	assert.Empty(t, uow.embeddings.embeddings)
}

func TestIngestInsertFailureRollsBack(t *testing.T) {
	uow := newFakeUow()
	ownerId := uuid.New()
	project := seedProject(uow, ownerId)
	uow.embeddings.failAtChunk = 1

	svc := NewDocumentService(&fakeFactory{uow: uow}, newFakeEmbedder(), nil, nopLogger{})
	content := strings.Repeat("a", 900) + "\n\n" + strings.Repeat("b", 900)

	_, err := svc.Ingest(context.Background(), ownerId, &dto.IngestDocumentRequest{
		ProjectId: project.Id,
		Title:     "doomed",
		Content:   content,
	})
	require.Error(t, err)
	assert.Empty(t, uow.documents.documents)
	assert.Empty(t, uow.embeddings.embeddings)
}

func TestIngestRollbackFailureSurfaces(t *testing.T) {
	uow := newFakeUow()
	ownerId := uuid.New()
	project := seedProject(uow, ownerId)

	embedder := newFakeEmbedder()
	embedder.failAfter = 0 // every embed fails
	uow.embeddings.deleteErr = assert.AnError

	svc := NewDocumentService(&fakeFactory{uow: uow}, embedder, nil, nopLogger{})

	_, err := svc.Ingest(context.Background(), ownerId, &dto.IngestDocumentRequest{
		ProjectId: project.Id,
		Title:     "doomed",
		Content:   "short content",
	})
	require.Error(t, err)

	var rollbackErr *apperror.IngestionRollbackError
	require.ErrorAs(t, err, &rollbackErr, "failed cleanup must surface loudly")
	assert.NotNil(t, rollbackErr.Cause)
	assert.NotNil(t, rollbackErr.RollbackErr)
}

func TestDeleteDocumentRemovesEmbeddings(t *testing.T) {
	uow := newFakeUow()
	ownerId := uuid.New()
	project := seedProject(uow, ownerId)

	svc := NewDocumentService(&fakeFactory{uow: uow}, newFakeEmbedder(), nil, nopLogger{})

	res, err := svc.Ingest(context.Background(), ownerId, &dto.IngestDocumentRequest{
		ProjectId: project.Id,
		Title:     "to delete",
		Content:   strings.Repeat("a", 900) + "\n\n" + strings.Repeat("b", 900),
	})
	require.NoError(t, err)
	require.NotEmpty(t, uow.embeddings.embeddings)

	err = svc.Delete(context.Background(), ownerId, project.Id, res.Id)
	require.NoError(t, err)

	assert.Empty(t, uow.documents.documents)
	assert.Empty(t, uow.embeddings.embeddings)
	assert.Equal(t, 1, uow.commits)
}

func TestDeleteUnknownDocument(t *testing.T) {
	uow := newFakeUow()
	ownerId := uuid.New()
	project := seedProject(uow, ownerId)

	svc := NewDocumentService(&fakeFactory{uow: uow}, newFakeEmbedder(), nil, nopLogger{})

	err := svc.Delete(context.Background(), ownerId, project.Id, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}
