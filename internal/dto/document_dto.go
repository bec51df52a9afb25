package dto

import (
	"time"

	"github.com/google/uuid"
)

type DocumentResponse struct {
	Id               uuid.UUID  `json:"id"`
	ApplicationId    uuid.UUID  `json:"application_id"`
	RequirementId    uuid.UUID  `json:"requirement_id"`
	OriginalFilename string     `json:"original_filename"`
	FileSize         int64      `json:"file_size"`
	MimeType         string     `json:"mime_type"`
	Checksum         string     `json:"checksum"`
	UploadStatus     string     `json:"upload_status"`
	ReviewStatus     string     `json:"review_status"`
	ReviewNotes      *string    `json:"review_notes,omitempty"`
	UploadedAt       time.Time  `json:"uploaded_at"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
}

// UploadResponse carries the document and the application status derived
// after the upload.
type UploadResponse struct {
	Document          DocumentResponse `json:"document"`
	ApplicationStatus string           `json:"application_status"`
}

type ReviewDocumentRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Notes    string `json:"notes" validate:"max=2000"`
}

type ReviewDocumentResponse struct {
	Document          DocumentResponse `json:"document"`
	ApplicationStatus string           `json:"application_status"`
	FullyApproved     bool             `json:"fully_approved"`
}
