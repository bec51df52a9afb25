package model

import (
	"time"

	"github.com/google/uuid"
)

// CancellationLog is append-only; there is no UpdatedAt on purpose.
type CancellationLog struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ApplicationID         uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID                uuid.UUID `gorm:"type:uuid;not null;index"`
	CancellationType      string    `gorm:"type:varchar(20);not null"` // automatic, manual
	Reason                string    `gorm:"type:text;not null"`
	TotalRequirements     int       `gorm:"not null;default:0"`
	SubmittedRequirements int       `gorm:"not null;default:0"`
	ApprovedRequirements  int       `gorm:"not null;default:0"`
	MissingRequirements   int       `gorm:"not null;default:0"`
	DaysPastDeadline      int       `gorm:"not null;default:0"`
	CreatedAt             time.Time `gorm:"autoCreateTime"`
}

func (CancellationLog) TableName() string {
	return "cancellation_log"
}
