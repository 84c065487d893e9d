package service

import (
	"context"
	"time"

	"virtualboard-be/internal/apperror"
	"virtualboard-be/internal/dto"
	"virtualboard-be/internal/entity"
	"virtualboard-be/internal/pkg/logger"
	"virtualboard-be/internal/repository/specification"
	"virtualboard-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IProjectService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.CreateProjectResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowProjectResponse, error)
	List(ctx context.Context, userId uuid.UUID) ([]*dto.ShowProjectResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateProjectRequest) error
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type projectService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewProjectService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IProjectService {
	return &projectService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *projectService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.CreateProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	project := entity.Project{
		Id:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		OwnerId:     userId,
		CreatedAt:   time.Now(),
	}

	if err := uow.ProjectRepository().Create(ctx, &project); err != nil {
		return nil, err
	}

	return &dto.CreateProjectResponse{Id: project.Id}, nil
}

func (s *projectService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{OwnerID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NewNotFoundError("project")
	}

	return toShowProjectResponse(project), nil
}

func (s *projectService) List(ctx context.Context, userId uuid.UUID) ([]*dto.ShowProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	projects, err := uow.ProjectRepository().FindAll(ctx,
		specification.OwnedBy{OwnerID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowProjectResponse, len(projects))
	for i, p := range projects {
		res[i] = toShowProjectResponse(p)
	}
	return res, nil
}

func (s *projectService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateProjectRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.OwnedBy{OwnerID: userId},
	)
	if err != nil {
		return err
	}
	if project == nil {
		return apperror.NewNotFoundError("project")
	}

	project.Title = req.Title
	project.Description = req.Description
	return uow.ProjectRepository().Update(ctx, project)
}

// Delete removes a project and everything hanging off it: documents, chunk
// embeddings, meetings with their messages, decisions, and memories.
func (s *projectService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedBy{OwnerID: userId},
	)
	if err != nil {
		return err
	}
	if project == nil {
		return apperror.NewNotFoundError("project")
	}

	meetings, err := uow.MeetingRepository().FindAll(ctx, specification.ByProjectID{ProjectID: id})
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	for _, meeting := range meetings {
		if err := uow.MessageRepository().DeleteByMeetingId(ctx, meeting.Id); err != nil {
			return err
		}
		if err := uow.MeetingDecisionRepository().DeleteByMeetingId(ctx, meeting.Id); err != nil {
			return err
		}
	}
	if err := uow.MeetingMemoryRepository().DeleteByProjectId(ctx, id); err != nil {
		return err
	}
	if err := uow.MeetingRepository().DeleteByProjectId(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentEmbeddingRepository().DeleteByProjectId(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentRepository().DeleteByProjectId(ctx, id); err != nil {
		return err
	}
	if err := uow.ProjectRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("ProjectService", "Project deleted", map[string]interface{}{
		"project_id": id,
		"meetings":   len(meetings),
	})
	return nil
}

func toShowProjectResponse(p *entity.Project) *dto.ShowProjectResponse {
	return &dto.ShowProjectResponse{
		Id:          p.Id,
		Title:       p.Title,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
