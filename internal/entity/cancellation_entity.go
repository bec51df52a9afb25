package entity

import (
	"time"

	"github.com/google/uuid"
)

type CancellationType string

const (
	CancellationTypeAutomatic CancellationType = "automatic"
	CancellationTypeManual    CancellationType = "manual"
)

// CancellationLog is an append-only audit row with the compliance snapshot
// taken at the moment of cancellation.
type CancellationLog struct {
	ID                    uuid.UUID
	ApplicationID         uuid.UUID
	UserID                uuid.UUID
	CancellationType      CancellationType
	Reason                string
	TotalRequirements     int
	SubmittedRequirements int
	ApprovedRequirements  int
	MissingRequirements   int
	DaysPastDeadline      int
	CreatedAt             time.Time
}
