package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MeetingId     uuid.UUID `gorm:"type:uuid;not null;index"`
	Content       string    `gorm:"type:text;not null"`
	SenderRole    string    `gorm:"type:varchar(32);not null"`
	SenderName    string    `gorm:"type:varchar(255);not null"`
	SenderAgentId *string   `gorm:"type:varchar(64)"`
	Sentiment     string    `gorm:"type:varchar(16)"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}
