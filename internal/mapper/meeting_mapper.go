package mapper

import (
	"encoding/json"
	"time"

	"virtualboard-be/internal/entity"
	"virtualboard-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MeetingMapper struct{}

func NewMeetingMapper() *MeetingMapper {
	return &MeetingMapper{}
}

func (m *MeetingMapper) ToEntity(mt *model.Meeting) *entity.Meeting {
	if mt == nil {
		return nil
	}

	var deletedAt *time.Time
	if mt.DeletedAt.Valid {
		t := mt.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !mt.UpdatedAt.IsZero() {
		t := mt.UpdatedAt
		updatedAt = &t
	}

	var agentIds []string
	if len(mt.AgentIds) > 0 {
		_ = json.Unmarshal(mt.AgentIds, &agentIds)
	}

	return &entity.Meeting{
		Id:        mt.Id,
		Title:     mt.Title,
		ProjectId: mt.ProjectId,
		Strategy:  mt.Strategy,
		Status:    mt.Status,
		AgentIds:  agentIds,
		Version:   mt.Version,
		CreatedAt: mt.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: mt.DeletedAt.Valid,
	}
}

func (m *MeetingMapper) ToModel(mt *entity.Meeting) *model.Meeting {
	if mt == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if mt.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *mt.DeletedAt, Valid: true}
	} else if mt.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if mt.UpdatedAt != nil {
		updatedAt = *mt.UpdatedAt
	}

	agentIds := datatypes.JSON("[]")
	if len(mt.AgentIds) > 0 {
		if raw, err := json.Marshal(mt.AgentIds); err == nil {
			agentIds = datatypes.JSON(raw)
		}
	}

	return &model.Meeting{
		Id:        mt.Id,
		Title:     mt.Title,
		ProjectId: mt.ProjectId,
		Strategy:  mt.Strategy,
		Status:    mt.Status,
		AgentIds:  agentIds,
		Version:   mt.Version,
		CreatedAt: mt.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *MeetingMapper) ToEntities(meetings []*model.Meeting) []*entity.Meeting {
	entities := make([]*entity.Meeting, len(meetings))
	for i, mt := range meetings {
		entities[i] = m.ToEntity(mt)
	}
	return entities
}
