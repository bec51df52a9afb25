package dto

import (
	"time"

	"github.com/google/uuid"
)

// StatusChangedMessage is published on the in-process bus after a status
// change commits.
type StatusChangedMessage struct {
	ApplicationId     uuid.UUID `json:"application_id"`
	UserId            uuid.UUID `json:"user_id"`
	ApplicationNumber string    `json:"application_number"`
	PurposeName       string    `json:"purpose_name"`
	From              string    `json:"from"`
	To                string    `json:"to"`
	OccurredAt        time.Time `json:"occurred_at"`
}
