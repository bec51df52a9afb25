package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Application struct {
	Id                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId             uuid.UUID  `gorm:"type:uuid;not null;index"`
	ApplicationNumber  string     `gorm:"type:varchar(32);not null;uniqueIndex"`
	PurposeId          uuid.UUID  `gorm:"type:uuid;not null;index"`
	PurposeName        string     `gorm:"type:varchar(255);not null"`
	Status             string     `gorm:"type:varchar(32);not null;index"`
	SubmissionDeadline time.Time  `gorm:"type:date;not null"`
	IsCancelled        bool       `gorm:"not null;default:false;index"`
	CancellationReason *string    `gorm:"type:text"`
	ReviewedBy         *uuid.UUID `gorm:"type:uuid"`
	ReviewNotes        *string    `gorm:"type:text"`
	CertificateNumber  *string    `gorm:"type:varchar(32);uniqueIndex"`
	FormData           datatypes.JSONMap
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	SubmittedAt        *time.Time
	ReviewedAt         *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (Application) TableName() string {
	return "applications"
}

type RequirementCompliance struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ApplicationId   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_compliance_app_req,priority:1"`
	RequirementId   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_compliance_app_req,priority:2"`
	RequirementName string    `gorm:"type:varchar(255)"`
	IsSubmitted     bool      `gorm:"not null;default:false"`
	IsMissing       bool      `gorm:"not null;default:true"`
	IsApproved      bool      `gorm:"not null;default:false"`
	Status          string    `gorm:"type:varchar(20);not null;default:'missing'"`
	SubmissionDate  *time.Time
	ApprovalDate    *time.Time
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (RequirementCompliance) TableName() string {
	return "requirement_compliance"
}

type ReviewHistory struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ApplicationId uuid.UUID  `gorm:"type:uuid;not null;index"`
	DocumentId    *uuid.UUID `gorm:"type:uuid"`
	Action        string     `gorm:"type:varchar(32);not null"`
	Status        string     `gorm:"type:varchar(32);not null"`
	Notes         *string    `gorm:"type:text"`
	ReviewedBy    uuid.UUID  `gorm:"type:uuid;not null"`
	ReviewedAt    time.Time  `gorm:"not null"`
}

func (ReviewHistory) TableName() string {
	return "review_history"
}
