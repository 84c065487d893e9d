package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"virtualboard-be/internal/apperror"
	"virtualboard-be/internal/constant"
	"virtualboard-be/internal/dto"
	"virtualboard-be/internal/entity"
	"virtualboard-be/internal/pkg/logger"
	"virtualboard-be/internal/repository/specification"
	"virtualboard-be/internal/repository/unitofwork"
	"virtualboard-be/pkg/board"
	"virtualboard-be/pkg/board/memory"
	"virtualboard-be/pkg/board/moderator"
	"virtualboard-be/pkg/events"
	"virtualboard-be/pkg/llm"
	pkgNats "virtualboard-be/pkg/nats"
	"virtualboard-be/pkg/rag/retrieval"

	"github.com/google/uuid"
)

type IMeetingService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMeetingRequest) (*dto.CreateMeetingResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowMeetingResponse, error)
	List(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) ([]*dto.ShowMeetingResponse, error)
	ListMessages(ctx context.Context, userId uuid.UUID, meetingId uuid.UUID) ([]*dto.ShowMessageResponse, error)
	ListDecisions(ctx context.Context, userId uuid.UUID, meetingId uuid.UUID) ([]*dto.ShowDecisionResponse, error)
	// Chat runs one board turn: retrieval, streamed generation via onDelta,
	// then the completion-gated side effects. Returns the full response text.
	Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest, onDelta func(delta string) error) (string, error)
	End(ctx context.Context, userId uuid.UUID, meetingId uuid.UUID) (*dto.EndMeetingResponse, error)
}

type meetingService struct {
	uowFactory       unitofwork.RepositoryFactory
	contextBuilder   *retrieval.ContextBuilder
	llmProvider      llm.LLMProvider
	synthesizer      *moderator.Synthesizer
	memoryWriter     *memory.Writer
	eventPublisher   *pkgNats.Publisher
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewMeetingService(
	uowFactory unitofwork.RepositoryFactory,
	contextBuilder *retrieval.ContextBuilder,
	llmProvider llm.LLMProvider,
	synthesizer *moderator.Synthesizer,
	memoryWriter *memory.Writer,
	eventPublisher *pkgNats.Publisher,
	publisherService IPublisherService,
	log logger.ILogger,
) IMeetingService {
	return &meetingService{
		uowFactory:       uowFactory,
		contextBuilder:   contextBuilder,
		llmProvider:      llmProvider,
		synthesizer:      synthesizer,
		memoryWriter:     memoryWriter,
		eventPublisher:   eventPublisher,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *meetingService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateMeetingRequest) (*dto.CreateMeetingResponse, error) {
	if !board.ValidStrategy(board.Strategy(req.Strategy)) {
		return nil, apperror.NewInvalidStateError("unknown meeting strategy: %s", req.Strategy)
	}
	if len(board.AgentsByIds(req.AgentIds)) == 0 {
		return nil, apperror.NewInvalidStateError("no valid agents selected")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: req.ProjectId},
		specification.OwnedBy{OwnerID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NewNotFoundError("project")
	}

	meeting := entity.Meeting{
		Id:        uuid.New(),
		Title:     req.Title,
		ProjectId: req.ProjectId,
		Strategy:  req.Strategy,
		Status:    constant.MeetingStatusActive,
		AgentIds:  req.AgentIds,
		Version:   0,
		CreatedAt: time.Now(),
	}
	if err := uow.MeetingRepository().Create(ctx, &meeting); err != nil {
		return nil, err
	}

	return &dto.CreateMeetingResponse{Id: meeting.Id}, nil
}

func (s *meetingService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowMeetingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	meeting, _, err := s.findOwnedMeeting(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	return toShowMeetingResponse(meeting), nil
}

func (s *meetingService) List(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) ([]*dto.ShowMeetingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId},
		specification.OwnedBy{OwnerID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperror.NewNotFoundError("project")
	}

	meetings, err := uow.MeetingRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowMeetingResponse, len(meetings))
	for i, m := range meetings {
		res[i] = toShowMeetingResponse(m)
	}
	return res, nil
}

func (s *meetingService) ListMessages(ctx context.Context, userId uuid.UUID, meetingId uuid.UUID) ([]*dto.ShowMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, _, err := s.findOwnedMeeting(ctx, uow, userId, meetingId); err != nil {
		return nil, err
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByMeetingID{MeetingID: meetingId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowMessageResponse, len(messages))
	for i, m := range messages {
		res[i] = &dto.ShowMessageResponse{
			Id:            m.Id,
			Content:       m.Content,
			SenderRole:    m.SenderRole,
			SenderName:    m.SenderName,
			SenderAgentId: m.SenderAgentId,
			CreatedAt:     m.CreatedAt,
		}
	}
	return res, nil
}

func (s *meetingService) ListDecisions(ctx context.Context, userId uuid.UUID, meetingId uuid.UUID) ([]*dto.ShowDecisionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if _, _, err := s.findOwnedMeeting(ctx, uow, userId, meetingId); err != nil {
		return nil, err
	}

	decisions, err := uow.MeetingDecisionRepository().FindAll(ctx,
		specification.ByMeetingID{MeetingID: meetingId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ShowDecisionResponse, len(decisions))
	for i, d := range decisions {
		res[i] = &dto.ShowDecisionResponse{
			Id:                 d.Id,
			Summary:            d.Summary,
			Recommendation:     d.Recommendation,
			Reasoning:          d.Reasoning,
			Weights:            d.Weights,
			ConfidenceLevel:    d.ConfidenceLevel,
			RequiresHumanInput: d.RequiresHumanInput,
			ActionItems:        d.ActionItems,
			CreatedAt:          d.CreatedAt,
		}
	}
	return res, nil
}

func (s *meetingService) Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest, onDelta func(delta string) error) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	meeting, project, err := s.findOwnedMeeting(ctx, uow, userId, req.MeetingId)
	if err != nil {
		return "", err
	}
	if meeting.Status != constant.MeetingStatusActive {
		return "", apperror.NewInvalidStateError("meeting %s is not active", meeting.Id)
	}

	lastUserMessage := lastUserContent(req.Messages)
	if lastUserMessage == "" {
		return "", apperror.NewInvalidStateError("chat request contains no user message")
	}

	contextResult, err := s.contextBuilder.Build(ctx, project.Id, lastUserMessage)
	if err != nil {
		return "", err
	}

	systemPrompt, err := s.buildSystemPrompt(meeting, contextResult)
	if err != nil {
		return "", err
	}

	// The user message is durable even if generation fails mid-stream.
	userMsg := entity.Message{
		Id:         uuid.New(),
		MeetingId:  meeting.Id,
		Content:    lastUserMessage,
		SenderRole: constant.SenderUser,
		SenderName: "User",
		CreatedAt:  time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, &userMsg); err != nil {
		return "", err
	}

	history := make([]llm.Message, 0, len(req.Messages)+1)
	history = append(history, llm.Message{Role: "system", Content: systemPrompt})
	for _, m := range req.Messages {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}

	fullText, err := s.llmProvider.ChatStream(ctx, history, onDelta)
	if err != nil {
		// Cancelled or failed stream: no agent message, no version bump,
		// no decision.
		return "", err
	}

	s.completeTurn(ctx, uow, meeting, project, lastUserMessage, contextResult.Text, fullText)

	return fullText, nil
}

// completeTurn runs the side effects gated on a fully generated response.
// Failures here are logged, not returned: the user already has the text.
func (s *meetingService) completeTurn(ctx context.Context, uow unitofwork.UnitOfWork, meeting *entity.Meeting, project *entity.Project, topic, ragContext, fullText string) {
	moderatorId := "moderator"
	agentMsg := entity.Message{
		Id:            uuid.New(),
		MeetingId:     meeting.Id,
		Content:       fullText,
		SenderRole:    constant.SenderAgent,
		SenderName:    "Virtual Board",
		SenderAgentId: &moderatorId,
		CreatedAt:     time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, &agentMsg); err != nil {
		s.logger.Error("MeetingService", "Failed to save board response", map[string]interface{}{
			"meeting_id": meeting.Id,
			"error":      err.Error(),
		})
		return
	}

	if err := uow.MeetingRepository().CompleteTurn(ctx, meeting.Id, meeting.Version); err != nil {
		if apperror.IsConcurrentModification(err) {
			s.logger.Warn("MeetingService", "Optimistic lock failed for meeting", map[string]interface{}{
				"meeting_id": meeting.Id,
				"version":    meeting.Version,
			})
		} else {
			s.logger.Error("MeetingService", "Failed to bump meeting version", map[string]interface{}{
				"meeting_id": meeting.Id,
				"error":      err.Error(),
			})
		}
	}

	// The whole discussion counts as one moderator opinion for the decision
	// engine.
	decision, err := s.synthesizer.Synthesize(ctx, topic,
		[]moderator.AgentOpinion{{AgentRole: board.RoleModerator, Opinion: fullText, Sentiment: constant.SentimentNeutral}},
		board.Strategy(meeting.Strategy), ragContext)
	if err != nil {
		s.logger.Error("MeetingService", "Failed to generate moderator decision", map[string]interface{}{
			"meeting_id": meeting.Id,
			"error":      err.Error(),
		})
		return
	}

	decisionEntity := entity.MeetingDecision{
		Id:                 uuid.New(),
		MeetingId:          meeting.Id,
		ProjectId:          project.Id,
		Summary:            decision.Summary,
		Recommendation:     decision.Recommendation,
		Reasoning:          decision.Reasoning,
		Weights:            decision.Weights,
		ConfidenceLevel:    decision.ConfidenceLevel,
		RequiresHumanInput: decision.RequiresHumanInput,
		ActionItems:        decision.ActionItems,
		CreatedAt:          time.Now(),
	}
	if err := uow.MeetingDecisionRepository().Create(ctx, &decisionEntity); err != nil {
		s.logger.Error("MeetingService", "Failed to save moderator decision", map[string]interface{}{
			"meeting_id": meeting.Id,
			"error":      err.Error(),
		})
		return
	}

	if s.eventPublisher != nil {
		evt := events.NewEvent(events.TypeDecisionCreated, map[string]interface{}{
			"meeting_id":  meeting.Id,
			"project_id":  project.Id,
			"decision_id": decisionEntity.Id,
			"user_id":     project.OwnerId,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("MeetingService", "Failed to publish decision event", map[string]interface{}{
				"meeting_id": meeting.Id,
				"error":      err.Error(),
			})
		}
	}
}

func (s *meetingService) End(ctx context.Context, userId uuid.UUID, meetingId uuid.UUID) (*dto.EndMeetingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	meeting, project, err := s.findOwnedMeeting(ctx, uow, userId, meetingId)
	if err != nil {
		return nil, err
	}
	if meeting.Status != constant.MeetingStatusActive {
		return nil, apperror.NewInvalidStateError("meeting %s is already ended", meeting.Id)
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByMeetingID{MeetingID: meetingId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	transcript := make([]memory.TranscriptMessage, len(messages))
	for i, m := range messages {
		transcript[i] = memory.TranscriptMessage{SenderName: m.SenderName, Content: m.Content}
	}

	record, err := s.memoryWriter.Commit(ctx, meeting.Id, project.Id, transcript)
	if err != nil {
		return nil, err
	}

	if err := uow.MeetingRepository().UpdateStatus(ctx, meeting.Id,
		constant.MeetingStatusActive, constant.MeetingStatusCompleted); err != nil {
		return nil, err
	}

	s.publishMeetingCompleted(ctx, meeting, project, record)

	return &dto.EndMeetingResponse{
		Summary:  record.Summary,
		Decision: record.Decision,
	}, nil
}

func (s *meetingService) publishMeetingCompleted(ctx context.Context, meeting *entity.Meeting, project *entity.Project, record *memory.Record) {
	// Watermill feeds the mail consumer; NATS feeds the websocket push.
	payload := dto.MeetingCompletedMessage{
		MeetingId: meeting.Id,
		ProjectId: project.Id,
		OwnerId:   project.OwnerId,
		Title:     meeting.Title,
		Summary:   record.Summary,
		Decision:  record.Decision,
	}
	if msgJson, err := json.Marshal(payload); err == nil {
		if err := s.publisherService.Publish(ctx, msgJson); err != nil {
			s.logger.Warn("MeetingService", "Failed to publish meeting completed message", map[string]interface{}{
				"meeting_id": meeting.Id,
				"error":      err.Error(),
			})
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewEvent(events.TypeMeetingCompleted, map[string]interface{}{
			"meeting_id": meeting.Id,
			"project_id": project.Id,
			"user_id":    project.OwnerId,
			"summary":    record.Summary,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("MeetingService", "Failed to publish meeting completed event", map[string]interface{}{
				"meeting_id": meeting.Id,
				"error":      err.Error(),
			})
		}
	}
}

func (s *meetingService) findOwnedMeeting(ctx context.Context, uow unitofwork.UnitOfWork, userId, meetingId uuid.UUID) (*entity.Meeting, *entity.Project, error) {
	meeting, err := uow.MeetingRepository().FindOne(ctx, specification.ByID{ID: meetingId})
	if err != nil {
		return nil, nil, err
	}
	if meeting == nil {
		return nil, nil, apperror.NewNotFoundError("meeting")
	}

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: meeting.ProjectId},
		specification.OwnedBy{OwnerID: userId},
	)
	if err != nil {
		return nil, nil, err
	}
	if project == nil {
		return nil, nil, apperror.NewNotFoundError("meeting")
	}

	return meeting, project, nil
}

func (s *meetingService) buildSystemPrompt(meeting *entity.Meeting, contextResult *retrieval.Result) (string, error) {
	framing, err := board.FramingFor(board.Strategy(meeting.Strategy))
	if err != nil {
		return "", err
	}

	activeAgents := board.AgentsByIds(meeting.AgentIds)

	var agentLines []string
	for _, agent := range activeAgents {
		// First priority line of each agent's charter is enough context for
		// the moderator.
		lines := strings.Split(agent.SystemPrompt, "\n")
		summary := ""
		if len(lines) > 1 {
			summary = lines[1]
		}
		agentLines = append(agentLines, fmt.Sprintf("- %s (%s): %s", agent.Name, agent.Role, summary))
	}

	notice := ""
	ragHandling := "Synthesize the provided knowledge base into the expert opinions."
	if !contextResult.Found {
		notice = "NOTICE: "
		ragHandling = "Explicitly mention that no relevant project documents were found and you are relying on general board expertise."
	}

	prompt := fmt.Sprintf(`You are the AI Moderator for a Virtual Advisory Board.
Current Meeting Strategy: %s
Strategic Focus: %s
Primary Influencers: %s
Discussion Tone: %s

Board Context:
%s%s

Active Board Members:
%s

INSTRUCTIONS:
1. Language: ALWAYS respond in the same language as the user's last message.
2. Format:
   - Begin with the Moderator introducing the strategic angle (%s).
   - Then, have 2-3 agents provide expert opinions.
   - The %s should lead the discussion and have more influence.
   - Enforce disagreement: Ensure agents challenge each other if roles conflict (e.g., CFO vs CMO).
   - End with a concrete Moderator decision/recommendation.
3. Knowledge Base: %s
4. Speaker Headers: Use clear bold headers (e.g., "**Chief Financial Officer:**").

Example Output Structure:
**Moderator**: [Strategic Intro]
**[Primary Agent]**: [Lead Opinion]
**[Supporting/Conflicting Agent]**: [Secondary Opinion / Challenge]
**Moderator**: [Final Decision]`,
		meeting.Strategy, framing.Focus, framing.PrimaryRoles, framing.Tone,
		notice, contextResult.Text,
		strings.Join(agentLines, "\n"),
		framing.Focus, framing.PrimaryRoles, ragHandling)

	return prompt, nil
}

func lastUserContent(messages []dto.ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}

func toShowMeetingResponse(m *entity.Meeting) *dto.ShowMeetingResponse {
	return &dto.ShowMeetingResponse{
		Id:        m.Id,
		Title:     m.Title,
		ProjectId: m.ProjectId,
		Strategy:  m.Strategy,
		Status:    m.Status,
		AgentIds:  m.AgentIds,
		Version:   m.Version,
		CreatedAt: m.CreatedAt,
	}
}
