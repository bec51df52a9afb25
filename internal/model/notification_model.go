package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationQueue is the outbox written by the core and drained by the
// dispatcher.
type NotificationQueue struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID         `gorm:"type:uuid;not null;index:idx_notification_queue_user_created,priority:1;index:idx_notification_queue_user_unread,priority:1" json:"user_id"`
	ApplicationID *uuid.UUID        `gorm:"type:uuid;index" json:"application_id,omitempty"`
	Type          string            `gorm:"type:varchar(50);not null;index" json:"notification_type"`
	Title         string            `gorm:"type:varchar(200);not null" json:"title"`
	Message       string            `gorm:"type:text;not null" json:"message"`
	Priority      string            `gorm:"type:varchar(10);not null;default:'normal'" json:"priority"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty"`
	IsRead        bool              `gorm:"not null;default:false;index:idx_notification_queue_user_unread,priority:2" json:"is_read"`
	ReadAt        *time.Time        `json:"read_at,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;index:idx_notification_queue_user_created,priority:2" json:"created_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (NotificationQueue) TableName() string {
	return "notification_queue"
}

// NotificationDelivery records one delivery attempt for a queue entry.
type NotificationDelivery struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	NotificationID uuid.UUID `gorm:"type:uuid;not null;index" json:"notification_id"`
	Channel        string    `gorm:"type:varchar(20);not null" json:"channel"`
	Status         string    `gorm:"type:varchar(20);not null" json:"status"`
	Error          *string   `gorm:"type:text" json:"error,omitempty"`
	AttemptedAt    time.Time `gorm:"not null" json:"attempted_at"`
}

func (NotificationDelivery) TableName() string {
	return "notification_deliveries"
}
