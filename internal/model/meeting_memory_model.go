package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type MeetingMemory struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MeetingId      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProjectId      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Summary        string          `gorm:"type:text;not null"`
	Decision       string          `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(1536)"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (MeetingMemory) TableName() string {
	return "meeting_memories"
}
