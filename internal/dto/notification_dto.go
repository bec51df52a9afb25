package dto

import (
	"time"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	Id            uuid.UUID              `json:"id"`
	ApplicationId *uuid.UUID             `json:"application_id,omitempty"`
	Type          string                 `json:"notification_type"`
	Title         string                 `json:"title"`
	Message       string                 `json:"message"`
	Priority      string                 `json:"priority"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	IsRead        bool                   `json:"is_read"`
	ReadAt        *time.Time             `json:"read_at,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

type NotificationListQuery struct {
	Limit      int  `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset     int  `query:"offset" validate:"omitempty,min=0"`
	UnreadOnly bool `query:"unread_only"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
