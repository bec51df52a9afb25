package service

import (
	"context"
	"encoding/json"

	"ncip-portal/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const StatusChangedTopic = "application.status_changed"

// StatusPublisher announces committed application status changes.
type StatusPublisher interface {
	PublishStatusChanged(ctx context.Context, msg dto.StatusChangedMessage) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) StatusPublisher {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (ps *publisherService) PublishStatusChanged(ctx context.Context, payload dto.StatusChangedMessage) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	return ps.publisher.Publish(ps.topicName, msg)
}
