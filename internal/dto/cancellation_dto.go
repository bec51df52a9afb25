package dto

import (
	"time"

	"github.com/google/uuid"
)

type CancellationLogResponse struct {
	Id                    uuid.UUID `json:"id"`
	ApplicationId         uuid.UUID `json:"application_id"`
	UserId                uuid.UUID `json:"user_id"`
	CancellationType      string    `json:"cancellation_type"`
	Reason                string    `json:"reason"`
	TotalRequirements     int       `json:"total_requirements"`
	SubmittedRequirements int       `json:"submitted_requirements"`
	ApprovedRequirements  int       `json:"approved_requirements"`
	MissingRequirements   int       `json:"missing_requirements"`
	DaysPastDeadline      int       `json:"days_past_deadline"`
	CreatedAt             time.Time `json:"created_at"`
}

type CancellationListQuery struct {
	Type   string `query:"type" validate:"omitempty,oneof=automatic manual"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}
