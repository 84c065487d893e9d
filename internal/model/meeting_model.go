package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Meeting struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string         `gorm:"type:varchar(255);not null"`
	ProjectId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Strategy  string         `gorm:"type:varchar(32);not null"`
	Status    string         `gorm:"type:varchar(32);not null;default:'ACTIVE'"`
	AgentIds  datatypes.JSON `gorm:"type:jsonb"`
	Version   int            `gorm:"not null;default:0"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Meeting) TableName() string {
	return "meetings"
}
