package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestDocumentRequest struct {
	ProjectId uuid.UUID
	Title     string `json:"title" validate:"required,max=255"`
	Content   string `json:"content" validate:"required"`
	FileType  string `json:"file_type" validate:"omitempty,max=64"`
}

type IngestDocumentResponse struct {
	Id          uuid.UUID `json:"id"`
	TotalChunks int       `json:"total_chunks"`
}

type ShowDocumentResponse struct {
	Id            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	ProjectId     uuid.UUID `json:"project_id"`
	FileType      string    `json:"file_type"`
	FileSizeBytes int64     `json:"file_size_bytes"`
	TotalChunks   int       `json:"total_chunks"`
	CreatedAt     time.Time `json:"created_at"`
}
