package contract

import (
	"context"

	"virtualboard-be/internal/entity"
	"virtualboard-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MeetingDecisionRepository interface {
	Create(ctx context.Context, decision *entity.MeetingDecision) error
	DeleteByMeetingId(ctx context.Context, meetingId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MeetingDecision, error)
}
