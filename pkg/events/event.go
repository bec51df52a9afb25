package events

import (
	"strings"
	"time"
)

// Event is anything relayed over the NATS bus. The subject is
// "events." + EventType().
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const notificationPrefix = "notification."

// NotificationDelivered is relayed after the dispatcher delivered an outbox
// entry, e.g. type "notification.deadline_warning_1day".
func NotificationDelivered(notificationType string, data map[string]interface{}, at time.Time) BaseEvent {
	return BaseEvent{
		Type:       notificationPrefix + notificationType,
		Data:       data,
		OccurredAt: at,
	}
}

// NotificationType strips the relay prefix; ok is false for other events.
func NotificationType(eventType string) (string, bool) {
	if !strings.HasPrefix(eventType, notificationPrefix) {
		return "", false
	}
	return strings.TrimPrefix(eventType, notificationPrefix), true
}
