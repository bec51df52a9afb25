package entity

import (
	"io"
	"time"

	"github.com/google/uuid"
)

type UploadStatus string
type ReviewStatus string

const (
	UploadStatusUploaded UploadStatus = "uploaded"

	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

type UploadedDocument struct {
	Id               uuid.UUID
	ApplicationId    uuid.UUID
	RequirementId    uuid.UUID
	OriginalFilename string
	StoragePath      string
	FileSize         int64
	MimeType         string
	Checksum         string
	UploadStatus     UploadStatus
	ReviewStatus     ReviewStatus
	UploadedBy       uuid.UUID
	ReviewedBy       *uuid.UUID
	ReviewNotes      *string
	UploadedAt       time.Time
	ReviewedAt       *time.Time
}

// ReviewDecision is the admin verdict on one document.
type ReviewDecision string

const (
	DecisionApproved ReviewDecision = "approved"
	DecisionRejected ReviewDecision = "rejected"
)

func (d ReviewDecision) Valid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// UploadFile is the incoming file handed to document intake.
type UploadFile struct {
	Filename string
	MimeType string
	Size     int64
	Content  io.Reader
}
