package service

import (
	"context"
	"encoding/json"
	"log"

	"virtualboard-be/internal/dto"
	"virtualboard-be/internal/pkg/mailer"
	"virtualboard-be/internal/repository/specification"
	"virtualboard-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the internal pubsub and mails the decision record to
// the project owner whenever a meeting completes.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		uowFactory:   uowFactory,
		emailService: emailService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.MeetingCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Sending decision record for MeetingId: %s", payload.MeetingId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	owner, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payload.OwnerId})
	if err != nil {
		log.Printf("[ERROR] Failed to get owner %s: %v", payload.OwnerId, err)
		msg.Nack()
		return
	}
	if owner == nil {
		log.Printf("[ERROR] Owner not found: %s", payload.OwnerId)
		msg.Ack() // Account deleted? Ack.
		return
	}

	// Action items live on the latest moderator decision, if any.
	var actionItems []string
	decisions, err := uow.MeetingDecisionRepository().FindAll(ctx,
		specification.ByMeetingID{MeetingID: payload.MeetingId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		log.Printf("[WARN] Failed to load decisions for meeting %s: %v", payload.MeetingId, err)
	} else if len(decisions) > 0 {
		actionItems = decisions[0].ActionItems
	}

	if err := cs.emailService.SendDecisionRecord(owner.Email, payload.Title, payload.Summary, payload.Decision, actionItems); err != nil {
		log.Printf("[ERROR] Failed to send decision record email to %s: %v", owner.Email, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Decision record sent for MeetingId: %s", payload.MeetingId)
	msg.Ack()
}
