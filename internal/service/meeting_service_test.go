package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualboard-be/internal/apperror"
	"virtualboard-be/internal/constant"
	"virtualboard-be/internal/dto"
	"virtualboard-be/internal/entity"
	"virtualboard-be/pkg/board/memory"
	"virtualboard-be/pkg/board/moderator"
	"virtualboard-be/pkg/rag/retrieval"
)

type recordingPublisher struct {
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

type meetingFixture struct {
	uow       *fakeUow
	llm       *fakeStreamLLM
	publisher *recordingPublisher
	svc       IMeetingService
	ownerId   uuid.UUID
	project   *entity.Project
}

func newMeetingFixture(t *testing.T) *meetingFixture {
	t.Helper()

	uow := newFakeUow()
	factory := &fakeFactory{uow: uow}
	ownerId := uuid.New()
	project := seedProject(uow, ownerId)

	streamLLM := newFakeStreamLLM()
	embedder := newFakeEmbedder()
	publisher := &recordingPublisher{}

	contextBuilder := retrieval.NewContextBuilder(embedder, uow.embeddings, uow.memories)
	synthesizer := moderator.NewSynthesizer(streamLLM)
	memoryWriter := memory.NewWriter(streamLLM, embedder, NewMemoryStore(factory))

	svc := NewMeetingService(factory, contextBuilder, streamLLM, synthesizer, memoryWriter, nil, publisher, nopLogger{})

	return &meetingFixture{
		uow:       uow,
		llm:       streamLLM,
		publisher: publisher,
		svc:       svc,
		ownerId:   ownerId,
		project:   project,
	}
}

func (f *meetingFixture) seedMeeting(status string) *entity.Meeting {
	meeting := &entity.Meeting{
		Id:        uuid.New(),
		Title:     "Q3 Planning",
		ProjectId: f.project.Id,
		Strategy:  "GROWTH",
		Status:    status,
		AgentIds:  []string{"cfo", "cmo", "moderator"},
		Version:   0,
		CreatedAt: time.Now(),
	}
	f.uow.meetings.meetings = append(f.uow.meetings.meetings, meeting)
	return meeting
}

func chatReq(meetingId uuid.UUID, content string) *dto.ChatRequest {
	return &dto.ChatRequest{
		MeetingId: meetingId,
		Messages:  []dto.ChatMessage{{Role: "user", Content: content}},
	}
}

func TestCreateMeeting(t *testing.T) {
	f := newMeetingFixture(t)

	res, err := f.svc.Create(context.Background(), f.ownerId, &dto.CreateMeetingRequest{
		ProjectId: f.project.Id,
		Title:     "Kickoff",
		Strategy:  "SAFETY",
		AgentIds:  []string{"legal", "cfo"},
	})
	require.NoError(t, err)

	require.Len(t, f.uow.meetings.meetings, 1)
	m := f.uow.meetings.meetings[0]
	assert.Equal(t, res.Id, m.Id)
	assert.Equal(t, constant.MeetingStatusActive, m.Status)
	assert.Equal(t, 0, m.Version)
}

func TestCreateMeetingRejectsBadInput(t *testing.T) {
	f := newMeetingFixture(t)

	_, err := f.svc.Create(context.Background(), f.ownerId, &dto.CreateMeetingRequest{
		ProjectId: f.project.Id, Title: "t", Strategy: "AGGRESSIVE", AgentIds: []string{"cfo"},
	})
	assert.True(t, apperror.IsInvalidState(err), "unknown strategy")

	_, err = f.svc.Create(context.Background(), f.ownerId, &dto.CreateMeetingRequest{
		ProjectId: f.project.Id, Title: "t", Strategy: "GROWTH", AgentIds: []string{"ghost"},
	})
	assert.True(t, apperror.IsInvalidState(err), "no valid agents")

	_, err = f.svc.Create(context.Background(), uuid.New(), &dto.CreateMeetingRequest{
		ProjectId: f.project.Id, Title: "t", Strategy: "GROWTH", AgentIds: []string{"cfo"},
	})
	assert.True(t, apperror.IsNotFound(err), "other user's project")
}

func TestChatHappyPath(t *testing.T) {
	f := newMeetingFixture(t)
	meeting := f.seedMeeting(constant.MeetingStatusActive)

	var streamed strings.Builder
	fullText, err := f.svc.Chat(context.Background(), f.ownerId, chatReq(meeting.Id, "Should we expand?"),
		func(delta string) error {
			streamed.WriteString(delta)
			return nil
		})
	require.NoError(t, err)

	assert.Equal(t, "**Moderator**: Let's begin. Decision: proceed.", fullText)
	assert.Equal(t, fullText, streamed.String(), "deltas must add up to the returned text")

	// User message saved first, agent response second.
	require.Len(t, f.uow.messages.messages, 2)
	assert.Equal(t, constant.SenderUser, f.uow.messages.messages[0].SenderRole)
	assert.Equal(t, "Should we expand?", f.uow.messages.messages[0].Content)
	assert.Equal(t, constant.SenderAgent, f.uow.messages.messages[1].SenderRole)
	assert.Equal(t, "Virtual Board", f.uow.messages.messages[1].SenderName)
	assert.Equal(t, fullText, f.uow.messages.messages[1].Content)

	// Completed turn bumps the optimistic lock.
	assert.Equal(t, 1, meeting.Version)

	// The turn produced a moderator decision.
	require.Len(t, f.uow.decisions.decisions, 1)
	d := f.uow.decisions.decisions[0]
	assert.Equal(t, "rec", d.Recommendation)
	assert.Equal(t, "MEDIUM", d.ConfidenceLevel)
	assert.Equal(t, meeting.Id, d.MeetingId)
}

func TestChatRejectsInactiveMeeting(t *testing.T) {
	f := newMeetingFixture(t)
	meeting := f.seedMeeting(constant.MeetingStatusCompleted)

	_, err := f.svc.Chat(context.Background(), f.ownerId, chatReq(meeting.Id, "hi"), func(string) error { return nil })
	assert.True(t, apperror.IsInvalidState(err))
	assert.Empty(t, f.uow.messages.messages)
}

func TestChatRejectsForeignMeeting(t *testing.T) {
	f := newMeetingFixture(t)
	meeting := f.seedMeeting(constant.MeetingStatusActive)

	_, err := f.svc.Chat(context.Background(), uuid.New(), chatReq(meeting.Id, "hi"), func(string) error { return nil })
	assert.True(t, apperror.IsNotFound(err))
}

func TestChatRequiresUserMessage(t *testing.T) {
	f := newMeetingFixture(t)
	meeting := f.seedMeeting(constant.MeetingStatusActive)

	req := &dto.ChatRequest{
		MeetingId: meeting.Id,
		Messages:  []dto.ChatMessage{{Role: "assistant", Content: "only me here"}},
	}
	_, err := f.svc.Chat(context.Background(), f.ownerId, req, func(string) error { return nil })
	assert.True(t, apperror.IsInvalidState(err))
}

func TestChatStreamFailureSkipsSideEffects(t *testing.T) {
	f := newMeetingFixture(t)
	meeting := f.seedMeeting(constant.MeetingStatusActive)
	f.llm.streamErr = errors.New("connection reset")

	_, err := f.svc.Chat(context.Background(), f.ownerId, chatReq(meeting.Id, "hi"), func(string) error { return nil })
	require.Error(t, err)

	// The user message is durable; nothing else happened.
	require.Len(t, f.uow.messages.messages, 1)
	assert.Equal(t, constant.SenderUser, f.uow.messages.messages[0].SenderRole)
	assert.Equal(t, 0, meeting.Version)
	assert.Empty(t, f.uow.decisions.decisions)
}

func TestChatOptimisticLockConflictDoesNotFailTurn(t *testing.T) {
	f := newMeetingFixture(t)
	meeting := f.seedMeeting(constant.MeetingStatusActive)
	f.uow.meetings.completeTurnErr = &apperror.ConcurrentModificationError{MeetingId: meeting.Id, Version: 0}

	fullText, err := f.svc.Chat(context.Background(), f.ownerId, chatReq(meeting.Id, "hi"), func(string) error { return nil })
	require.NoError(t, err, "a lost version race must not fail the user's turn")
	assert.NotEmpty(t, fullText)

	// The response and decision still land.
	assert.Len(t, f.uow.messages.messages, 2)
	assert.Len(t, f.uow.decisions.decisions, 1)
}

func TestEndMeeting(t *testing.T) {
	f := newMeetingFixture(t)
	meeting := f.seedMeeting(constant.MeetingStatusActive)
	f.uow.messages.messages = []*entity.Message{
		{Id: uuid.New(), MeetingId: meeting.Id, SenderName: "User", Content: "Should we expand?"},
		{Id: uuid.New(), MeetingId: meeting.Id, SenderName: "Virtual Board", Content: "**Moderator**: Yes."},
	}

	res, err := f.svc.End(context.Background(), f.ownerId, meeting.Id)
	require.NoError(t, err)

	assert.Equal(t, "Board reviewed the plan.", res.Summary)
	assert.Equal(t, "Approved.", res.Decision)
	assert.Equal(t, constant.MeetingStatusCompleted, meeting.Status)

	// The meeting memory is committed and searchable.
	require.Len(t, f.uow.memories.memories, 1)
	mem := f.uow.memories.memories[0]
	assert.Equal(t, meeting.Id, mem.MeetingId)
	assert.Equal(t, f.project.Id, mem.ProjectId)
	assert.NotEmpty(t, mem.EmbeddingValue)

	// The completion message reached the mail pipeline.
	require.Len(t, f.publisher.payloads, 1)
	assert.Contains(t, string(f.publisher.payloads[0]), meeting.Id.String())
}

func TestEndMeetingEmptyTranscript(t *testing.T) {
	f := newMeetingFixture(t)
	meeting := f.seedMeeting(constant.MeetingStatusActive)

	_, err := f.svc.End(context.Background(), f.ownerId, meeting.Id)
	require.Error(t, err)
	assert.True(t, apperror.IsEmptyTranscript(err))

	// The meeting stays open and nothing was committed.
	assert.Equal(t, constant.MeetingStatusActive, meeting.Status)
	assert.Empty(t, f.uow.memories.memories)
}

func TestEndMeetingTwice(t *testing.T) {
	f := newMeetingFixture(t)
	meeting := f.seedMeeting(constant.MeetingStatusActive)
	f.uow.messages.messages = []*entity.Message{
		{Id: uuid.New(), MeetingId: meeting.Id, SenderName: "User", Content: "hi"},
	}

	_, err := f.svc.End(context.Background(), f.ownerId, meeting.Id)
	require.NoError(t, err)

	_, err = f.svc.End(context.Background(), f.ownerId, meeting.Id)
	assert.True(t, apperror.IsInvalidState(err))
	assert.Len(t, f.uow.memories.memories, 1, "ending twice must not stack memories")
}

func TestMemoryStoreIdempotent(t *testing.T) {
	uow := newFakeUow()
	store := NewMemoryStore(&fakeFactory{uow: uow})
	meetingId := uuid.New()

	record := &memory.Record{
		MeetingId: meetingId,
		ProjectId: uuid.New(),
		Summary:   "s",
		Decision:  "d",
		Embedding: []float32{0.1},
	}
	require.NoError(t, store.Create(context.Background(), record))
	require.NoError(t, store.Create(context.Background(), record))

	assert.Len(t, uow.memories.memories, 1)
}
