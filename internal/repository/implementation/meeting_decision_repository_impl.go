package implementation

import (
	"context"

	"virtualboard-be/internal/entity"
	"virtualboard-be/internal/mapper"
	"virtualboard-be/internal/model"
	"virtualboard-be/internal/repository/contract"
	"virtualboard-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MeetingDecisionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MeetingDecisionMapper
}

func NewMeetingDecisionRepository(db *gorm.DB) contract.MeetingDecisionRepository {
	return &MeetingDecisionRepositoryImpl{
		db:     db,
		mapper: mapper.NewMeetingDecisionMapper(),
	}
}

func (r *MeetingDecisionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MeetingDecisionRepositoryImpl) Create(ctx context.Context, decision *entity.MeetingDecision) error {
	m := r.mapper.ToModel(decision)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*decision = *r.mapper.ToEntity(m)
	return nil
}

func (r *MeetingDecisionRepositoryImpl) DeleteByMeetingId(ctx context.Context, meetingId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("meeting_id = ?", meetingId).Delete(&model.MeetingDecision{}).Error
}

func (r *MeetingDecisionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MeetingDecision, error) {
	var models []*model.MeetingDecision
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
