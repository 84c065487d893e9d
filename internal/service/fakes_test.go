package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"virtualboard-be/internal/apperror"
	"virtualboard-be/internal/entity"
	"virtualboard-be/internal/repository/contract"
	"virtualboard-be/internal/repository/specification"
	"virtualboard-be/internal/repository/unitofwork"
	"virtualboard-be/pkg/embedding"
	"virtualboard-be/pkg/llm"
	"virtualboard-be/pkg/rag/retrieval"

	"github.com/google/uuid"
)

// In-memory repository fakes. They interpret only the specifications the
// services actually use (ByID, OwnedBy, ByProjectID, ByMeetingID); anything
// else is ignored, which keeps the fakes honest about what is being tested.

func matchProject(p *entity.Project, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if p.Id != spec.ID {
				return false
			}
		case specification.OwnedBy:
			if p.OwnerId != spec.OwnerID {
				return false
			}
		}
	}
	return true
}

type fakeProjectRepo struct {
	projects []*entity.Project
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *entity.Project) error {
	r.projects = append(r.projects, project)
	return nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project *entity.Project) error { return nil }

func (r *fakeProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, p := range r.projects {
		if p.Id == id {
			r.projects = append(r.projects[:i], r.projects[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeProjectRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Project, error) {
	for _, p := range r.projects {
		if matchProject(p, specs) {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProjectRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Project, error) {
	var out []*entity.Project
	for _, p := range r.projects {
		if matchProject(p, specs) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeDocumentRepo struct {
	documents []*entity.Document
	createErr error
	updateErr error
	deleteErr error
}

func (r *fakeDocumentRepo) Create(ctx context.Context, document *entity.Document) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.documents = append(r.documents, document)
	return nil
}

func (r *fakeDocumentRepo) Update(ctx context.Context, document *entity.Document) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	return nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	for i, d := range r.documents {
		if d.Id == id {
			r.documents = append(r.documents[:i], r.documents[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeDocumentRepo) DeleteByProjectId(ctx context.Context, projectId uuid.UUID) error {
	return nil
}

func (r *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	for _, d := range r.documents {
		match := true
		for _, s := range specs {
			switch spec := s.(type) {
			case specification.ByID:
				if d.Id != spec.ID {
					match = false
				}
			case specification.ByProjectID:
				if d.ProjectId != spec.ProjectID {
					match = false
				}
			}
		}
		if match {
			return d, nil
		}
	}
	return nil, nil
}

func (r *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	return r.documents, nil
}

func (r *fakeDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.documents)), nil
}

type fakeEmbeddingRepo struct {
	embeddings  []*entity.DocumentEmbedding
	createErr   error
	failAtChunk int // fail Create when ChunkIndex == failAtChunk (-1 disables)
	deleteErr   error
}

func newFakeEmbeddingRepo() *fakeEmbeddingRepo {
	return &fakeEmbeddingRepo{failAtChunk: -1}
}

func (r *fakeEmbeddingRepo) Create(ctx context.Context, emb *entity.DocumentEmbedding) error {
	if r.createErr != nil {
		return r.createErr
	}
	if r.failAtChunk >= 0 && emb.ChunkIndex == r.failAtChunk {
		return errors.New("insert failed")
	}
	r.embeddings = append(r.embeddings, emb)
	return nil
}

func (r *fakeEmbeddingRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	kept := r.embeddings[:0]
	for _, e := range r.embeddings {
		if e.DocumentId != documentId {
			kept = append(kept, e)
		}
	}
	r.embeddings = kept
	return nil
}

func (r *fakeEmbeddingRepo) DeleteByProjectId(ctx context.Context, projectId uuid.UUID) error {
	return nil
}

func (r *fakeEmbeddingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentEmbedding, error) {
	return r.embeddings, nil
}

func (r *fakeEmbeddingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.embeddings)), nil
}

func (r *fakeEmbeddingRepo) CountByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error) {
	var n int64
	for _, e := range r.embeddings {
		if e.DocumentId == documentId {
			n++
		}
	}
	return n, nil
}

func (r *fakeEmbeddingRepo) SearchSimilarWithScore(ctx context.Context, projectId uuid.UUID, queryEmbedding []float32, threshold float64, limit int) ([]*retrieval.ScoredChunk, error) {
	return nil, nil
}

type fakeMeetingRepo struct {
	meetings        []*entity.Meeting
	completeTurnErr error
}

func (r *fakeMeetingRepo) Create(ctx context.Context, meeting *entity.Meeting) error {
	r.meetings = append(r.meetings, meeting)
	return nil
}

func (r *fakeMeetingRepo) Update(ctx context.Context, meeting *entity.Meeting) error { return nil }

func (r *fakeMeetingRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *fakeMeetingRepo) DeleteByProjectId(ctx context.Context, projectId uuid.UUID) error {
	return nil
}

func (r *fakeMeetingRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Meeting, error) {
	for _, m := range r.meetings {
		match := true
		for _, s := range specs {
			if spec, ok := s.(specification.ByID); ok && m.Id != spec.ID {
				match = false
			}
		}
		if match {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMeetingRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Meeting, error) {
	return r.meetings, nil
}

func (r *fakeMeetingRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.meetings)), nil
}

func (r *fakeMeetingRepo) CompleteTurn(ctx context.Context, id uuid.UUID, expectedVersion int) error {
	if r.completeTurnErr != nil {
		return r.completeTurnErr
	}
	for _, m := range r.meetings {
		if m.Id == id {
			if m.Version != expectedVersion {
				return &apperror.ConcurrentModificationError{MeetingId: id, Version: expectedVersion}
			}
			m.Version++
			return nil
		}
	}
	return &apperror.ConcurrentModificationError{MeetingId: id, Version: expectedVersion}
}

func (r *fakeMeetingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) error {
	for _, m := range r.meetings {
		if m.Id == id {
			if m.Status != fromStatus {
				return apperror.NewInvalidStateError("meeting %s is not in status %s", id, fromStatus)
			}
			m.Status = toStatus
			return nil
		}
	}
	return apperror.NewInvalidStateError("meeting %s is not in status %s", id, fromStatus)
}

type fakeMessageRepo struct {
	messages []*entity.Message
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.messages = append(r.messages, message)
	return nil
}

func (r *fakeMessageRepo) DeleteByMeetingId(ctx context.Context, meetingId uuid.UUID) error {
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error) {
	var out []*entity.Message
	for _, m := range r.messages {
		match := true
		for _, s := range specs {
			if spec, ok := s.(specification.ByMeetingID); ok && m.MeetingId != spec.MeetingID {
				match = false
			}
		}
		if match {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.messages)), nil
}

type fakeDecisionRepo struct {
	decisions []*entity.MeetingDecision
}

func (r *fakeDecisionRepo) Create(ctx context.Context, decision *entity.MeetingDecision) error {
	r.decisions = append(r.decisions, decision)
	return nil
}

func (r *fakeDecisionRepo) DeleteByMeetingId(ctx context.Context, meetingId uuid.UUID) error {
	return nil
}

func (r *fakeDecisionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MeetingDecision, error) {
	return r.decisions, nil
}

type fakeMemoryRepo struct {
	memories []*entity.MeetingMemory
}

func (r *fakeMemoryRepo) Create(ctx context.Context, memory *entity.MeetingMemory) error {
	r.memories = append(r.memories, memory)
	return nil
}

func (r *fakeMemoryRepo) DeleteByProjectId(ctx context.Context, projectId uuid.UUID) error {
	return nil
}

func (r *fakeMemoryRepo) ExistsByMeetingId(ctx context.Context, meetingId uuid.UUID) (bool, error) {
	for _, m := range r.memories {
		if m.MeetingId == meetingId {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMemoryRepo) SearchSimilarWithScore(ctx context.Context, projectId uuid.UUID, queryEmbedding []float32, threshold float64, limit int) ([]*retrieval.ScoredMemory, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users []*entity.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users = append(r.users, user)
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, u := range r.users {
		match := true
		for _, s := range specs {
			if spec, ok := s.(specification.ByID); ok && u.Id != spec.ID {
				match = false
			}
		}
		if match {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	return r.users, nil
}

// fakeUow wires all fakes into one unit of work. Begin/Commit/Rollback are
// counters; the fakes have no real transaction semantics.
type fakeUow struct {
	users      *fakeUserRepo
	projects   *fakeProjectRepo
	documents  *fakeDocumentRepo
	embeddings *fakeEmbeddingRepo
	meetings   *fakeMeetingRepo
	messages   *fakeMessageRepo
	decisions  *fakeDecisionRepo
	memories   *fakeMemoryRepo

	begins, commits, rollbacks int
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		users:      &fakeUserRepo{},
		projects:   &fakeProjectRepo{},
		documents:  &fakeDocumentRepo{},
		embeddings: newFakeEmbeddingRepo(),
		meetings:   &fakeMeetingRepo{},
		messages:   &fakeMessageRepo{},
		decisions:  &fakeDecisionRepo{},
		memories:   &fakeMemoryRepo{},
	}
}

func (u *fakeUow) Begin(ctx context.Context) error { u.begins++; return nil }
func (u *fakeUow) Commit() error                   { u.commits++; return nil }
func (u *fakeUow) Rollback() error                 { u.rollbacks++; return nil }

func (u *fakeUow) UserRepository() contract.UserRepository         { return u.users }
func (u *fakeUow) ProjectRepository() contract.ProjectRepository   { return u.projects }
func (u *fakeUow) DocumentRepository() contract.DocumentRepository { return u.documents }
func (u *fakeUow) MeetingRepository() contract.MeetingRepository   { return u.meetings }
func (u *fakeUow) MessageRepository() contract.MessageRepository   { return u.messages }
func (u *fakeUow) DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository {
	return u.embeddings
}
func (u *fakeUow) MeetingDecisionRepository() contract.MeetingDecisionRepository { return u.decisions }
func (u *fakeUow) MeetingMemoryRepository() contract.MeetingMemoryRepository     { return u.memories }

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

var _ unitofwork.RepositoryFactory = (*fakeFactory)(nil)

// fakeEmbedder returns a deterministic vector; failAfter limits how many
// Generate calls succeed (-1 for unlimited).
type fakeEmbedder struct {
	calls     int
	failAfter int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{failAfter: -1}
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.failAfter >= 0 && f.calls > f.failAfter {
		return nil, &apperror.ProviderError{Provider: "fake", Op: "generate", Err: errors.New("quota exceeded")}
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

// fakeStreamLLM streams deltas and answers GenerateObject by prompt shape:
// transcript analysis prompts get the summary object, everything else the
// decision object.
type fakeStreamLLM struct {
	deltas    []string
	streamErr error

	decisionJSON string
	summaryJSON  string
	objectErr    error
}

func newFakeStreamLLM() *fakeStreamLLM {
	return &fakeStreamLLM{
		deltas: []string{"**Moderator**: ", "Let's begin.", " Decision: proceed."},
		decisionJSON: `{"summary": "s", "recommendation": "rec", "reasoning": "r",
			"weights": {"CFO": 0.6}, "confidenceLevel": "MEDIUM",
			"requiresHumanInput": false, "actionItems": ["follow up"]}`,
		summaryJSON: `{"summary": "Board reviewed the plan.", "decision": "Approved."}`,
	}
}

func (f *fakeStreamLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return strings.Join(f.deltas, ""), nil
}

func (f *fakeStreamLLM) ChatStream(ctx context.Context, history []llm.Message, onDelta func(string) error, options ...llm.Option) (string, error) {
	var full strings.Builder
	for _, d := range f.deltas {
		if f.streamErr != nil {
			return "", f.streamErr
		}
		if err := onDelta(d); err != nil {
			return "", err
		}
		full.WriteString(d)
	}
	return full.String(), nil
}

func (f *fakeStreamLLM) GenerateObject(ctx context.Context, prompt string, schema map[string]interface{}, options ...llm.Option) (json.RawMessage, error) {
	if f.objectErr != nil {
		return nil, f.objectErr
	}
	if strings.Contains(prompt, "meeting transcript") {
		return json.RawMessage(f.summaryJSON), nil
	}
	return json.RawMessage(f.decisionJSON), nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
