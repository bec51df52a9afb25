package contract

import (
	"context"
	"time"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/repository/specification"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Enqueue(ctx context.Context, entry *entity.NotificationQueueEntry) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NotificationQueueEntry, error)
	// FindPending returns entries without a sent or skipped delivery that
	// have failed fewer than maxAttempts times, oldest first.
	FindPending(ctx context.Context, limit, maxAttempts int) ([]*entity.NotificationQueueEntry, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	// MarkRead reports false when the entry does not exist or belongs to
	// another user.
	MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
	CreateDelivery(ctx context.Context, delivery *entity.NotificationDelivery) error
	FindDeliveries(ctx context.Context, notificationID uuid.UUID) ([]*entity.NotificationDelivery, error)
}
