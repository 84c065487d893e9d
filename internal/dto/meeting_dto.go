package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMeetingRequest struct {
	ProjectId uuid.UUID
	Title     string   `json:"title" validate:"required,max=255"`
	Strategy  string   `json:"strategy" validate:"required,oneof=GROWTH SAFETY BALANCED"`
	AgentIds  []string `json:"agents" validate:"required,min=1"`
}

type CreateMeetingResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowMeetingResponse struct {
	Id        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	ProjectId uuid.UUID `json:"project_id"`
	Strategy  string    `json:"strategy"`
	Status    string    `json:"status"`
	AgentIds  []string  `json:"agents"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatMessage struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required,min=1,max=10000"`
}

type ChatRequest struct {
	MeetingId uuid.UUID
	Messages  []ChatMessage `json:"messages" validate:"required,min=1,dive"`
}

type ShowMessageResponse struct {
	Id            uuid.UUID `json:"id"`
	Content       string    `json:"content"`
	SenderRole    string    `json:"sender_role"`
	SenderName    string    `json:"sender_name"`
	SenderAgentId *string   `json:"sender_agent_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type EndMeetingResponse struct {
	Summary  string `json:"summary"`
	Decision string `json:"decision"`
}

type ShowDecisionResponse struct {
	Id                 uuid.UUID          `json:"id"`
	Summary            string             `json:"summary"`
	Recommendation     string             `json:"recommendation"`
	Reasoning          string             `json:"reasoning"`
	Weights            map[string]float64 `json:"weights"`
	ConfidenceLevel    string             `json:"confidence_level"`
	RequiresHumanInput bool               `json:"requires_human_input"`
	ActionItems        []string           `json:"action_items"`
	CreatedAt          time.Time          `json:"created_at"`
}

// MeetingCompletedMessage is the payload carried on the internal pubsub when
// a meeting is closed, consumed by the mail worker.
type MeetingCompletedMessage struct {
	MeetingId uuid.UUID `json:"meeting_id"`
	ProjectId uuid.UUID `json:"project_id"`
	OwnerId   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Decision  string    `json:"decision"`
}

type ShowAgentResponse struct {
	Id     string `json:"id"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	NameAr string `json:"name_ar"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
}
