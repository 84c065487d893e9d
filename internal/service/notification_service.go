package service

import (
	"context"
	"fmt"
	"strings"

	"virtualboard-be/internal/pkg/logger"
	"virtualboard-be/internal/websocket"
	"virtualboard-be/pkg/events"
	pkgNats "virtualboard-be/pkg/nats"

	"github.com/google/uuid"
)

// BoardEventDelivery pushes real-time board updates to connected clients.
// Implemented by the WebSocket Hub.
type BoardEventDelivery interface {
	Send(userID uuid.UUID, event websocket.BoardEvent)
}

// NotificationService bridges the NATS event bus to websocket delivery so the
// board UI can react to decisions and meeting completions in real time.
type NotificationService struct {
	subscriber *pkgNats.Subscriber
	delivery   BoardEventDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pkgNats.Subscriber, delivery BoardEventDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "board-notif-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects carry the stream prefix; the UI only cares about the code.
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	payload := event.Payload()

	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", typeCode), map[string]interface{}{"type": typeCode})

	userId, ok := parsePayloadUUID(payload, "user_id")
	if !ok {
		s.logger.Warn("NotificationService", fmt.Sprintf("No user_id in payload for event %s", typeCode), nil)
		return nil
	}

	boardEvent := websocket.BoardEvent{
		Type: typeCode,
		Data: payload,
	}
	if meetingId, ok := parsePayloadUUID(payload, "meeting_id"); ok {
		boardEvent.MeetingId = meetingId
	}
	if projectId, ok := parsePayloadUUID(payload, "project_id"); ok {
		boardEvent.ProjectId = projectId
	}

	if s.delivery != nil {
		s.delivery.Send(userId, boardEvent)
	}
	return nil
}

func parsePayloadUUID(payload map[string]interface{}, key string) (uuid.UUID, bool) {
	raw, ok := payload[key].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
