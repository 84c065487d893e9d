package mapper

import (
	"encoding/json"

	"virtualboard-be/internal/entity"
	"virtualboard-be/internal/model"

	"gorm.io/datatypes"
)

type MeetingDecisionMapper struct{}

func NewMeetingDecisionMapper() *MeetingDecisionMapper {
	return &MeetingDecisionMapper{}
}

func (m *MeetingDecisionMapper) ToEntity(d *model.MeetingDecision) *entity.MeetingDecision {
	if d == nil {
		return nil
	}

	var weights map[string]float64
	if len(d.Weights) > 0 {
		_ = json.Unmarshal(d.Weights, &weights)
	}

	var actionItems []string
	if len(d.ActionItems) > 0 {
		_ = json.Unmarshal(d.ActionItems, &actionItems)
	}

	return &entity.MeetingDecision{
		Id:                 d.Id,
		MeetingId:          d.MeetingId,
		ProjectId:          d.ProjectId,
		Summary:            d.Summary,
		Recommendation:     d.Recommendation,
		Reasoning:          d.Reasoning,
		Weights:            weights,
		ConfidenceLevel:    d.ConfidenceLevel,
		RequiresHumanInput: d.RequiresHumanInput,
		ActionItems:        actionItems,
		CreatedAt:          d.CreatedAt,
	}
}

func (m *MeetingDecisionMapper) ToModel(d *entity.MeetingDecision) *model.MeetingDecision {
	if d == nil {
		return nil
	}

	weights := datatypes.JSON("{}")
	if d.Weights != nil {
		if raw, err := json.Marshal(d.Weights); err == nil {
			weights = datatypes.JSON(raw)
		}
	}

	actionItems := datatypes.JSON("[]")
	if d.ActionItems != nil {
		if raw, err := json.Marshal(d.ActionItems); err == nil {
			actionItems = datatypes.JSON(raw)
		}
	}

	return &model.MeetingDecision{
		Id:                 d.Id,
		MeetingId:          d.MeetingId,
		ProjectId:          d.ProjectId,
		Summary:            d.Summary,
		Recommendation:     d.Recommendation,
		Reasoning:          d.Reasoning,
		Weights:            weights,
		ConfidenceLevel:    d.ConfidenceLevel,
		RequiresHumanInput: d.RequiresHumanInput,
		ActionItems:        actionItems,
		CreatedAt:          d.CreatedAt,
	}
}

func (m *MeetingDecisionMapper) ToEntities(decisions []*model.MeetingDecision) []*entity.MeetingDecision {
	entities := make([]*entity.MeetingDecision, len(decisions))
	for i, d := range decisions {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
