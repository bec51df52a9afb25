package model

import (
	"time"

	"github.com/google/uuid"
)

type UploadedDocument struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ApplicationId    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_documents_app_req,priority:1"`
	RequirementId    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_documents_app_req,priority:2"`
	OriginalFilename string     `gorm:"type:varchar(255);not null"`
	StoragePath      string     `gorm:"type:varchar(512);not null"`
	FileSize         int64      `gorm:"not null"`
	MimeType         string     `gorm:"type:varchar(100);not null"`
	Checksum         string     `gorm:"type:varchar(64)"`
	UploadStatus     string     `gorm:"type:varchar(20);not null;default:'uploaded'"`
	ReviewStatus     string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	UploadedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	ReviewedBy       *uuid.UUID `gorm:"type:uuid"`
	ReviewNotes      *string    `gorm:"type:text"`
	UploadedAt       time.Time  `gorm:"not null"`
	ReviewedAt       *time.Time
}

func (UploadedDocument) TableName() string {
	return "uploaded_documents"
}
