package service

import (
	"context"
	"testing"
	"time"

	"ncip-portal/internal/dto"
	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/pkg/lifecycle"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerQueuesStatusNotifications(t *testing.T) {
	h := newHarness(t)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := NewConsumerService(pubSub, StatusChangedTopic, h.uow, logger.NewNop())
	require.NoError(t, consumer.Consume(ctx))
	publisher := NewPublisherService(StatusChangedTopic, pubSub)

	userID := uuid.New()
	appID := uuid.New()
	send := func(from, to lifecycle.Status) {
		require.NoError(t, publisher.PublishStatusChanged(ctx, dto.StatusChangedMessage{
			ApplicationId:     appID,
			UserId:            userID,
			ApplicationNumber: "NCIP-20250303-0001",
			From:              string(from),
			To:                string(to),
			OccurredAt:        h.clock.Now(),
		}))
	}

	send("", lifecycle.StatusSubmitted)
	send(lifecycle.StatusSubmitted, lifecycle.StatusDraft)
	send(lifecycle.StatusSubmitted, lifecycle.StatusApproved)

	var notes []*entity.NotificationQueueEntry
	require.Eventually(t, func() bool {
		notes = h.notifications(userID)
		return len(notes) == 2
	}, 5*time.Second, 20*time.Millisecond)

	titles := []string{notes[0].Title, notes[1].Title}
	assert.ElementsMatch(t, []string{"Application Submitted", "Application Approved"}, titles)
	for _, n := range notes {
		assert.Equal(t, entity.NotificationStatusChanged, n.Type)
		require.NotNil(t, n.ApplicationId)
		assert.Equal(t, appID, *n.ApplicationId)
		assert.Contains(t, n.Message, "NCIP-20250303-0001")
	}
}

func TestConsumerAcksMalformedPayload(t *testing.T) {
	h := newHarness(t)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, NewConsumerService(pubSub, StatusChangedTopic, h.uow, logger.NewNop()).Consume(ctx))

	require.NoError(t, pubSub.Publish(StatusChangedTopic, message.NewMessage(watermill.NewUUID(), []byte("{not json"))))

	userID := uuid.New()
	require.NoError(t, NewPublisherService(StatusChangedTopic, pubSub).PublishStatusChanged(ctx, dto.StatusChangedMessage{
		ApplicationId:     uuid.New(),
		UserId:            userID,
		ApplicationNumber: "NCIP-20250303-0002",
		To:                string(lifecycle.StatusDocumentsRejected),
	}))

	require.Eventually(t, func() bool {
		return len(h.notifications(userID)) == 1
	}, 5*time.Second, 20*time.Millisecond, "the bad message must not block the topic")
	assert.Equal(t, lifecycle.PriorityHigh, h.notifications(userID)[0].Priority)
}
