package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title         string         `gorm:"type:varchar(255);not null"`
	ProjectId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	RawContent    string         `gorm:"type:text"`
	FileType      string         `gorm:"type:varchar(64)"`
	FileSizeBytes int64          `gorm:"default:0"`
	TotalChunks   int            `gorm:"default:0"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
