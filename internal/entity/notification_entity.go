package entity

import (
	"time"

	"ncip-portal/pkg/lifecycle"

	"github.com/google/uuid"
)

const (
	NotificationApplicationCancelled = "application_cancelled"
	NotificationStatusChanged        = "status_changed"
)

// NotificationQueueEntry is an outbox row and the recipient's inbox item.
// Only the read flag changes after insert; delivery is tracked by
// NotificationDelivery rows.
type NotificationQueueEntry struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	ApplicationId *uuid.UUID
	Type          string
	Title         string
	Message       string
	Priority      lifecycle.Priority
	Metadata      map[string]interface{}
	IsRead        bool
	ReadAt        *time.Time
	CreatedAt     time.Time
}

type DeliveryStatus string

const (
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
	DeliverySkipped DeliveryStatus = "skipped"
)

type NotificationDelivery struct {
	Id             uuid.UUID
	NotificationId uuid.UUID
	Channel        string
	Status         DeliveryStatus
	Error          *string
	AttemptedAt    time.Time
}
