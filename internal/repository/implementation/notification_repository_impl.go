package implementation

import (
	"context"
	"time"

	"ncip-portal/internal/entity"
	"ncip-portal/internal/mapper"
	"ncip-portal/internal/model"
	"ncip-portal/internal/repository/contract"
	"ncip-portal/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NotificationMapper
}

func NewNotificationRepository(db *gorm.DB) contract.NotificationRepository {
	return &NotificationRepositoryImpl{
		db:     db,
		mapper: mapper.NewNotificationMapper(),
	}
}

func (r *NotificationRepositoryImpl) Enqueue(ctx context.Context, entry *entity.NotificationQueueEntry) error {
	if entry.Id == uuid.Nil {
		entry.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Create(r.mapper.ToModel(entry)).Error
}

func (r *NotificationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.NotificationQueueEntry, error) {
	var models []*model.NotificationQueue
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*entity.NotificationQueueEntry, len(models))
	for i, m := range models {
		out[i] = r.mapper.ToEntity(m)
	}
	return out, nil
}

func (r *NotificationRepositoryImpl) FindPending(ctx context.Context, limit, maxAttempts int) ([]*entity.NotificationQueueEntry, error) {
	var models []*model.NotificationQueue
	err := r.db.WithContext(ctx).
		Where(`NOT EXISTS (
			SELECT 1 FROM notification_deliveries d
			WHERE d.notification_id = notification_queue.id AND d.status IN ?)`,
			[]string{string(entity.DeliverySent), string(entity.DeliverySkipped)}).
		Where(`(SELECT COUNT(*) FROM notification_deliveries d
			WHERE d.notification_id = notification_queue.id AND d.status = ?) < ?`,
			string(entity.DeliveryFailed), maxAttempts).
		Order("created_at ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.NotificationQueueEntry, len(models))
	for i, m := range models {
		out[i] = r.mapper.ToEntity(m)
	}
	return out, nil
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.NotificationQueue{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.NotificationQueue{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.NotificationQueue{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at,
		})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.NotificationQueue{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *NotificationRepositoryImpl) CreateDelivery(ctx context.Context, delivery *entity.NotificationDelivery) error {
	if delivery.Id == uuid.Nil {
		delivery.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Create(r.mapper.DeliveryToModel(delivery)).Error
}

func (r *NotificationRepositoryImpl) FindDeliveries(ctx context.Context, notificationID uuid.UUID) ([]*entity.NotificationDelivery, error) {
	var models []*model.NotificationDelivery
	err := r.db.WithContext(ctx).
		Where("notification_id = ?", notificationID).
		Order("attempted_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.NotificationDelivery, len(models))
	for i, m := range models {
		out[i] = r.mapper.DeliveryToEntity(m)
	}
	return out, nil
}
