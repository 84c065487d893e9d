package entity

import (
	"time"

	"github.com/google/uuid"
)

type Meeting struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string
	ProjectId uuid.UUID `gorm:"type:uuid;index"`
	Strategy  string
	Status    string
	AgentIds  []string
	// Version backs the optimistic lock on turn completion.
	Version   int
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

type Message struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	MeetingId     uuid.UUID `gorm:"type:uuid;index"`
	Content       string
	SenderRole    string
	SenderName    string
	SenderAgentId *string
	Sentiment     string
	CreatedAt     time.Time
}

type MeetingDecision struct {
	Id                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	MeetingId          uuid.UUID `gorm:"type:uuid;index"`
	ProjectId          uuid.UUID `gorm:"type:uuid;index"`
	Summary            string
	Recommendation     string
	Reasoning          string
	Weights            map[string]float64
	ConfidenceLevel    string
	RequiresHumanInput bool
	ActionItems        []string
	CreatedAt          time.Time
}

type MeetingMemory struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	MeetingId      uuid.UUID `gorm:"type:uuid;index"`
	ProjectId      uuid.UUID `gorm:"type:uuid;index"`
	Summary        string
	Decision       string
	EmbeddingValue []float32
	CreatedAt      time.Time
}
