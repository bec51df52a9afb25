package service

import (
	"context"
	"encoding/json"
	"time"

	"ncip-portal/internal/dto"
	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService turns status change events into outbox entries.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
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
	var payload dto.StatusChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal status message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // poison message, retrying will not help
		return
	}

	content, ok := statusNotification(payload)
	if !ok {
		msg.Ack()
		return
	}

	appID := payload.ApplicationId
	entry := &entity.NotificationQueueEntry{
		UserId:        payload.UserId,
		ApplicationId: &appID,
		Type:          entity.NotificationStatusChanged,
		Title:         content.Title,
		Message:       content.Message,
		Priority:      content.Priority,
		Metadata: map[string]interface{}{
			"application_number": payload.ApplicationNumber,
			"from":               payload.From,
			"to":                 payload.To,
		},
		CreatedAt: time.Now(),
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().Enqueue(ctx, entry); err != nil {
		cs.logger.Error("CONSUMER", "Failed to enqueue status notification", map[string]interface{}{
			"application_id": appID.String(),
			"error":          err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
