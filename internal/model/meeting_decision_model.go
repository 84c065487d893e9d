package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MeetingDecision struct {
	Id                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MeetingId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	ProjectId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	Summary            string         `gorm:"type:text;not null"`
	Recommendation     string         `gorm:"type:text;not null"`
	Reasoning          string         `gorm:"type:text;not null"`
	Weights            datatypes.JSON `gorm:"type:jsonb"`
	ConfidenceLevel    string         `gorm:"type:varchar(16);not null"`
	RequiresHumanInput bool           `gorm:"not null;default:false"`
	ActionItems        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
}

func (MeetingDecision) TableName() string {
	return "meeting_decisions"
}
