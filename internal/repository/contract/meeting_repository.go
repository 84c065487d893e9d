package contract

import (
	"context"

	"virtualboard-be/internal/entity"
	"virtualboard-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MeetingRepository interface {
	Create(ctx context.Context, meeting *entity.Meeting) error
	Update(ctx context.Context, meeting *entity.Meeting) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByProjectId(ctx context.Context, projectId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Meeting, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Meeting, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// CompleteTurn bumps the meeting version guarded by the expected version.
	// Returns ConcurrentModificationError when no row matched.
	CompleteTurn(ctx context.Context, id uuid.UUID, expectedVersion int) error
	// UpdateStatus transitions status only when the meeting is currently in
	// fromStatus. Returns InvalidStateError otherwise.
	UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) error
}
