package service

import (
	"context"
	"errors"
	"fmt"

	"ncip-portal/internal/dto"
	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/apperror"
	"ncip-portal/internal/pkg/clock"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/internal/pkg/mailer"
	"ncip-portal/internal/repository/specification"
	"ncip-portal/internal/repository/unitofwork"
	"ncip-portal/pkg/events"
	"ncip-portal/pkg/metrics"
	pkgnats "ncip-portal/pkg/nats"

	"github.com/google/uuid"
)

const (
	channelEmail = "email"

	relayAuditSubject = "events.notification.>"
	relayAuditDurable = "ncip-notification-audit"
)

// EventRelay forwards delivered notifications to the event bus.
type EventRelay interface {
	Publish(ctx context.Context, event events.Event) error
}

// RelaySubscriber is the consuming side of the bus.
type RelaySubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pkgnats.EventHandler) error
}

type INotificationService interface {
	ListForUser(ctx context.Context, userID uuid.UUID, q dto.NotificationListQuery) ([]dto.NotificationResponse, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (*dto.UnreadCountResponse, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (*dto.MarkAllReadResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// Dispatch drains one batch of the outbox.
	Dispatch(ctx context.Context) (*dto.DispatchResult, error)

	// StartRelayAudit records every relayed notification in the audit log.
	StartRelayAudit(ctx context.Context, sub RelaySubscriber) error
}

type notificationService struct {
	uowFactory  unitofwork.RepositoryFactory
	mailer      mailer.IEmailService
	relay       EventRelay
	clock       clock.Clock
	logger      logger.ILogger
	auditLogger logger.ILogger
	batchSize   int
	maxAttempts int
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	mailer mailer.IEmailService,
	relay EventRelay,
	clk clock.Clock,
	logger logger.ILogger,
	auditLogger logger.ILogger,
	batchSize, maxAttempts int,
) INotificationService {
	if batchSize <= 0 {
		batchSize = 100
	}
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &notificationService{
		uowFactory:  uowFactory,
		mailer:      mailer,
		relay:       relay,
		clock:       clk,
		logger:      logger,
		auditLogger: auditLogger,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
	}
}

func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, q dto.NotificationListQuery) ([]dto.NotificationResponse, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userID},
	}
	if q.UnreadOnly {
		specs = append(specs, specification.Filter("is_read", false))
	}
	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: q.Offset},
	)

	entries, err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]dto.NotificationResponse, 0, len(entries))
	for _, n := range entries {
		res = append(res, dto.NotificationResponse{
			Id:            n.Id,
			ApplicationId: n.ApplicationId,
			Type:          n.Type,
			Title:         n.Title,
			Message:       n.Message,
			Priority:      string(n.Priority),
			Metadata:      n.Metadata,
			IsRead:        n.IsRead,
			ReadAt:        n.ReadAt,
			CreatedAt:     n.CreatedAt,
		})
	}
	return res, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (*dto.UnreadCountResponse, error) {
	count, err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	ok, err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkRead(ctx, userID, id, s.clock.Now())
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("notification %s not found", id)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (*dto.MarkAllReadResponse, error) {
	n, err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkAllRead(ctx, userID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return &dto.MarkAllReadResponse{Updated: n}, nil
}

// Delete hides the entry from the user's inbox. Deleted entries are no
// longer picked up by Dispatch.
func (s *notificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ok, err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("notification %s not found", id)
	}
	s.logger.Info("NOTIFICATION", "Notification deleted", map[string]interface{}{
		"notification_id": id.String(),
		"user_id":         userID.String(),
	})
	return nil
}

func (s *notificationService) Dispatch(ctx context.Context) (*dto.DispatchResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	pending, err := uow.NotificationRepository().FindPending(ctx, s.batchSize, s.maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("read pending notifications: %w", err)
	}

	res := &dto.DispatchResult{}
	for _, n := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Processed++

		status, sendErr := s.deliver(ctx, uow, n)
		delivery := &entity.NotificationDelivery{
			NotificationId: n.Id,
			Channel:        channelEmail,
			Status:         status,
			AttemptedAt:    s.clock.Now(),
		}
		if sendErr != nil {
			msg := sendErr.Error()
			delivery.Error = &msg
		}
		if err := uow.NotificationRepository().CreateDelivery(ctx, delivery); err != nil {
			s.logger.Error("NOTIFICATION", "Failed to record delivery", map[string]interface{}{
				"notification_id": n.Id.String(),
				"error":           err.Error(),
			})
		}

		switch status {
		case entity.DeliverySent:
			res.Sent++
			s.relayDelivered(ctx, n)
		case entity.DeliverySkipped:
			res.Skipped++
		default:
			res.Failed++
			s.logger.Warn("NOTIFICATION", "Notification delivery failed", map[string]interface{}{
				"notification_id": n.Id.String(),
				"error":           delivery.Error,
			})
		}
		metrics.NotificationsDispatchedTotal.WithLabelValues(string(status)).Inc()
	}

	if res.Processed > 0 {
		s.logger.Info("NOTIFICATION", "Dispatch finished", map[string]interface{}{
			"processed": res.Processed,
			"sent":      res.Sent,
			"failed":    res.Failed,
			"skipped":   res.Skipped,
		})
	}
	return res, nil
}

func (s *notificationService) deliver(ctx context.Context, uow unitofwork.UnitOfWork, n *entity.NotificationQueueEntry) (entity.DeliveryStatus, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: n.UserId})
	if err != nil {
		return entity.DeliveryFailed, err
	}
	if user == nil {
		return entity.DeliverySkipped, fmt.Errorf("recipient %s no longer exists", n.UserId)
	}
	if s.mailer == nil {
		return entity.DeliverySkipped, mailer.ErrDisabled
	}

	err = s.mailer.SendNotification(user.Email, user.FullName, n.Title, n.Message)
	switch {
	case err == nil:
		return entity.DeliverySent, nil
	case errors.Is(err, mailer.ErrDisabled):
		return entity.DeliverySkipped, err
	default:
		return entity.DeliveryFailed, err
	}
}

func (s *notificationService) relayDelivered(ctx context.Context, n *entity.NotificationQueueEntry) {
	if s.relay == nil {
		return
	}
	data := map[string]interface{}{
		"notification_id": n.Id.String(),
		"user_id":         n.UserId.String(),
		"title":           n.Title,
		"priority":        string(n.Priority),
	}
	if n.ApplicationId != nil {
		data["application_id"] = n.ApplicationId.String()
	}
	if err := s.relay.Publish(ctx, events.NotificationDelivered(n.Type, data, s.clock.Now())); err != nil {
		s.logger.Error("NOTIFICATION", "Failed to relay notification", map[string]interface{}{
			"notification_id": n.Id.String(),
			"error":           err.Error(),
		})
	}
}

func (s *notificationService) StartRelayAudit(ctx context.Context, sub RelaySubscriber) error {
	err := sub.Subscribe(ctx, relayAuditSubject, relayAuditDurable, func(ctx context.Context, event events.Event) error {
		notifType, ok := events.NotificationType(event.EventType())
		if !ok {
			return nil
		}
		s.auditLogger.Info("RELAY", "Notification relayed", map[string]interface{}{
			"type":        notifType,
			"occurred_at": event.Timestamp(),
			"payload":     event.Payload(),
		})
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("NOTIFICATION", "Relay audit consumer started", map[string]interface{}{"subject": relayAuditSubject})
	return nil
}
